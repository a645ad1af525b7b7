package kafka

import "time"

// 互动事件类型，与站内通知类型保持一致
const (
	EventLike        int8 = 1
	EventComment     int8 = 2
	EventReply       int8 = 3
	EventCommentLike int8 = 4
	EventSystem      int8 = 5
)

// NotificationEvent 互动通知事件，由业务侧写入，消费侧落库并触发邮件
type NotificationEvent struct {
	Type       int8      `json:"type"`
	SenderID   uint64    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	ReceiverID uint64    `json:"receiver_id"`
	TargetType string    `json:"target_type"`
	TargetID   uint64    `json:"target_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
