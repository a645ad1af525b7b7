package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage 群聊消息明细模型
type ChatMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Room       string             `bson:"room" json:"room"`              // 房间名，默认 general
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 发送者 UID
	SenderName string             `bson:"sender_name" json:"senderName"` // 发送时的昵称快照
	Content    string             `bson:"content" json:"content"`        // 文本内容
	IsEdited   bool               `bson:"is_edited" json:"isEdited"`     // 是否被编辑过
	EditedAt   *time.Time         `bson:"edited_at,omitempty" json:"editedAt,omitempty"`
	IsDeleted  bool               `bson:"is_deleted" json:"-"` // 软删除标记，历史查询时过滤
	DeletedAt  *time.Time         `bson:"deleted_at,omitempty" json:"-"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"` // 消息发送时间
}
