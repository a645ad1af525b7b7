package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/mongo"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const chatDefaultRoom = "general"

const (
	chatEventMessage = "message"
	chatEventEdited  = "edited"
	chatEventDeleted = "deleted"
)

// ChatService 群聊。消息先落 Mongo 再经 redis 广播给各实例的长连接
type ChatService interface {
	SendMessage(ctx context.Context, senderID uint64, room, content string) (*dto.ChatMessageDTO, error)
	EditMessage(ctx context.Context, userID uint64, messageID, content string) (*dto.ChatMessageDTO, error)
	DeleteMessage(ctx context.Context, userID uint64, isAdmin bool, messageID string) error
	GetHistory(ctx context.Context, room string, before time.Time, pageSize int) (*dto.ChatHistoryDTO, error)
}

type chatServiceImpl struct {
	chatRepo mongo.ChatMessageRepo
	userRepo repository.UserRepo
}

func NewChatService(chatRepo mongo.ChatMessageRepo, userRepo repository.UserRepo) ChatService {
	return &chatServiceImpl{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

func (s *chatServiceImpl) SendMessage(ctx context.Context, senderID uint64, room, content string) (*dto.ChatMessageDTO, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrParamInvalid
	}
	if room == "" {
		room = chatDefaultRoom
	}

	sender, err := s.userRepo.GetUserById(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUserNotFound
	}

	msg := &mongo.ChatMessage{
		ID:         primitive.NewObjectID(),
		Room:       room,
		SenderID:   senderID,
		SenderName: sender.Name,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err = s.chatRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	item := toChatMessageDTO(msg)

	// 广播给所有在线连接，落库成功即算发送成功
	s.broadcast(ctx, &dto.ChatEventDTO{
		Event:   chatEventMessage,
		Message: item,
	})
	return item, nil
}

// EditMessage 仅发送者本人可编辑，编辑后全量广播新内容
func (s *chatServiceImpl) EditMessage(ctx context.Context, userID uint64, messageID, content string) (*dto.ChatMessageDTO, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrParamInvalid
	}

	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, ErrNotMessageSender
	}

	editedAt := time.Now()
	if err = s.chatRepo.UpdateContent(ctx, msg.ID, content, editedAt); err != nil {
		return nil, err
	}
	msg.Content = content
	msg.IsEdited = true
	msg.EditedAt = &editedAt

	item := toChatMessageDTO(msg)
	s.broadcast(ctx, &dto.ChatEventDTO{
		Event:   chatEventEdited,
		Message: item,
	})
	return item, nil
}

// DeleteMessage 发送者本人或管理员可删，软删除后广播撤回事件
func (s *chatServiceImpl) DeleteMessage(ctx context.Context, userID uint64, isAdmin bool, messageID string) error {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID && !isAdmin {
		return ErrNotMessageSender
	}

	if err = s.chatRepo.SoftDelete(ctx, msg.ID, time.Now()); err != nil {
		return err
	}

	s.broadcast(ctx, &dto.ChatEventDTO{
		Event:     chatEventDeleted,
		MessageID: msg.ID.Hex(),
		Room:      msg.Room,
	})
	return nil
}

func (s *chatServiceImpl) GetHistory(ctx context.Context, room string, before time.Time, pageSize int) (*dto.ChatHistoryDTO, error) {
	if room == "" {
		room = chatDefaultRoom
	}
	if pageSize <= 0 || pageSize > consts.MaxLimit {
		pageSize = consts.DefaultLimit
	}

	messages, err := s.chatRepo.GetHistory(ctx, room, before, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ChatMessageDTO, 0, len(messages))
	for _, msg := range messages {
		list = append(list, toChatMessageDTO(msg))
	}

	// 拉满一页说明可能还有更早的消息
	return &dto.ChatHistoryDTO{
		List:    list,
		HasMore: len(messages) == pageSize,
	}, nil
}

func (s *chatServiceImpl) loadMessage(ctx context.Context, messageID string) (*mongo.ChatMessage, error) {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, ErrParamInvalid
	}
	msg, err := s.chatRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrChatMessageNotFound
	}
	return msg, nil
}

// broadcast 尽力而为，落库成功后广播失败只记日志
func (s *chatServiceImpl) broadcast(ctx context.Context, event *dto.ChatEventDTO) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "encode chat event failed", "event", event.Event, "err", err)
		return
	}
	if err = redis.Publish(ctx, consts.ChatChannelKey, payload); err != nil {
		log.ErrorContext(ctx, "broadcast chat event failed", "event", event.Event, "err", err)
	}
}

func toChatMessageDTO(msg *mongo.ChatMessage) *dto.ChatMessageDTO {
	return &dto.ChatMessageDTO{
		ID:         msg.ID.Hex(),
		Room:       msg.Room,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Content:    msg.Content,
		IsEdited:   msg.IsEdited,
		CreatedAt:  msg.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
