package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/pkg/mongo"
	"Atrium/internal/pkg/util"
	"context"
	"errors"

	driver "go.mongodb.org/mongo-driver/mongo"
)

// NotificationService 站内通知收件箱的读侧。写入发生在消费端
type NotificationService interface {
	ListNotifications(ctx context.Context, userID uint64, page, limit int) (*dto.NotificationListDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type notificationServiceImpl struct {
	inboxRepo mongo.InboxRepo
}

func NewNotificationService(inboxRepo mongo.InboxRepo) NotificationService {
	return &notificationServiceImpl{
		inboxRepo: inboxRepo,
	}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID uint64, page, limit int) (*dto.NotificationListDTO, error) {
	page, limit = util.NormalizePagination(page, limit)
	offset := int64((page - 1) * limit)

	items, err := s.inboxRepo.GetNotificationList(ctx, userID, int64(limit), offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.inboxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.NotificationDTO, 0, len(items))
	for _, item := range items {
		list = append(list, toNotificationDTO(item))
	}
	return &dto.NotificationListDTO{
		List:        list,
		UnreadCount: unread,
		Page:        page,
		Limit:       limit,
	}, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, notificationID string) error {
	err := s.inboxRepo.MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		if errors.Is(err, driver.ErrInvalidIndexValue) {
			return ErrParamInvalid
		}
		return err
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return s.inboxRepo.MarkAllAsRead(ctx, userID)
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.inboxRepo.GetUnreadCount(ctx, userID)
}

func toNotificationDTO(item *mongo.InboxModel) *dto.NotificationDTO {
	return &dto.NotificationDTO{
		ID:         item.ID.Hex(),
		Type:       item.Type,
		SenderID:   item.SenderID,
		TargetType: item.TargetType,
		TargetID:   item.TargetID,
		Content:    item.Content,
		IsRead:     item.IsRead,
		CreatedAt:  item.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
