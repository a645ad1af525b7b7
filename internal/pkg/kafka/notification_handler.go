package kafka

import (
	"Atrium/internal/pkg/mongo"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// NotificationHandler 消费互动通知事件：先写收件箱，再按用户偏好补发邮件
type NotificationHandler struct {
	inboxRepo mongo.InboxRepo
	userRepo  repository.UserRepo
	mail      *util.MailClient
}

func NewNotificationHandler(inboxRepo mongo.InboxRepo, userRepo repository.UserRepo, mail *util.MailClient) *NotificationHandler {
	return &NotificationHandler{
		inboxRepo: inboxRepo,
		userRepo:  userRepo,
		mail:      mail,
	}
}

func (s *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer setup")
	return nil
}

func (s *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer cleanup")
	return nil
}

func (s *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("notification consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("notification process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event NotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 消息体损坏无法重试，记录后丢弃
		log.ErrorContext(ctx, "decode notification event failed", "offset", msg.Offset, "err", err)
		return nil
	}
	if event.ReceiverID == 0 {
		return errors.New("notification event has no receiver")
	}

	inbox := &mongo.InboxModel{
		ReceiverID: event.ReceiverID,
		SenderID:   event.SenderID,
		Type:       event.Type,
		TargetType: event.TargetType,
		TargetID:   event.TargetID,
		Content:    event.Content,
		IsRead:     false,
		CreatedAt:  event.CreatedAt,
	}
	if err := s.inboxRepo.CreateNotification(ctx, inbox); err != nil {
		return errors.Wrap(err, "save notification to inbox")
	}

	s.sendMail(ctx, &event)

	log.InfoContext(ctx, "notification delivered",
		"type", event.Type, "receiverID", event.ReceiverID, "targetID", event.TargetID)
	return nil
}

// sendMail 邮件是尽力而为的补充渠道，失败不影响消息确认
func (s *NotificationHandler) sendMail(ctx context.Context, event *NotificationEvent) {
	receiver, err := s.userRepo.GetUserById(ctx, event.ReceiverID)
	if err != nil {
		log.ErrorContext(ctx, "load notification receiver failed", "receiverID", event.ReceiverID, "err", err)
		return
	}
	if receiver == nil || !receiver.NotifyEnabled {
		return
	}

	subject := mailSubject(event)
	if err = s.mail.Send(ctx, receiver.Email, subject, event.Content); err != nil {
		log.ErrorContext(ctx, "send notification mail failed", "receiverID", event.ReceiverID, "err", err)
	}
}

func mailSubject(event *NotificationEvent) string {
	switch event.Type {
	case EventLike, EventCommentLike:
		return fmt.Sprintf("【Atrium】%s 赞了你的内容", event.SenderName)
	case EventComment:
		return fmt.Sprintf("【Atrium】%s 评论了你的内容", event.SenderName)
	case EventReply:
		return fmt.Sprintf("【Atrium】%s 回复了你的评论", event.SenderName)
	default:
		return "【Atrium】系统通知"
	}
}
