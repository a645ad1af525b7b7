package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatMessageRepo interface {
	SaveMessage(ctx context.Context, msg *ChatMessage) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*ChatMessage, error)
	GetHistory(ctx context.Context, room string, before time.Time, pageSize int) ([]*ChatMessage, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error
	CountByRoom(ctx context.Context, room string) (int64, error)
}

type chatMessageRepoImpl struct {
	col *mongo.Collection
}

func NewChatMessageRepo(db *mongo.Database) ChatMessageRepo {
	return &chatMessageRepoImpl{
		col: db.Collection("chat_message"),
	}
}

// SaveMessage 将消息存入 MongoDB
func (s *chatMessageRepoImpl) SaveMessage(ctx context.Context, msg *ChatMessage) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetByID 按主键查询单条消息，已删除的消息视为不存在
func (s *chatMessageRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*ChatMessage, error) {
	filter := bson.M{
		"_id":        id,
		"is_deleted": bson.M{"$ne": true},
	}

	var msg ChatMessage
	err := s.col.FindOne(ctx, filter).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetHistory 历史消息查询逻辑
// before 为当前页面最旧一条消息的时间。如果是第一页，传零值。
func (s *chatMessageRepoImpl) GetHistory(ctx context.Context, room string, before time.Time, pageSize int) ([]*ChatMessage, error) {
	filter := bson.M{
		"room":       room,
		"is_deleted": bson.M{"$ne": true},
	}

	// 游标过滤：拉取比当前最旧消息更早的记录
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// UpdateContent 改写消息内容并打上编辑标记
func (s *chatMessageRepoImpl) UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"content":   content,
		"is_edited": true,
		"edited_at": editedAt,
	}}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

// SoftDelete 软删除，保留原文以便审计
func (s *chatMessageRepoImpl) SoftDelete(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"is_deleted": true,
		"deleted_at": deletedAt,
	}}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

// CountByRoom 统计房间内未删除消息总数
func (s *chatMessageRepoImpl) CountByRoom(ctx context.Context, room string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{
		"room":       room,
		"is_deleted": bson.M{"$ne": true},
	})
}
