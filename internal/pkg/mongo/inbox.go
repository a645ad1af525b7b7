package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InboxModel 站内通知模型
type InboxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 消息接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统通知可为0)
	Type       int8               `bson:"type" json:"type"`              // 通知类型: 1-内容点赞, 2-内容评论, 3-评论回复, 4-评论点赞, 5-系统公告
	TargetType string             `bson:"target_type" json:"targetType"` // 目标内容类型 (article/media/comment)
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的目标ID
	Content    string             `bson:"content" json:"content"`        // 通知文案预览或评论片段
	IsRead     bool               `bson:"is_read" json:"isRead"`         // 是否已读
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`   // 创建时间
}

// 通知类型
const (
	InboxTypeLike        int8 = 1
	InboxTypeComment     int8 = 2
	InboxTypeReply       int8 = 3
	InboxTypeCommentLike int8 = 4
	InboxTypeSystem      int8 = 5
)
