package repository

import (
	"Atrium/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EngagementRepo 点赞与评论的存取，计数永远查询真实行数
type EngagementRepo interface {
	GetLike(ctx context.Context, userID uint64, targetType string, targetID uint64) (*model.Like, error)
	CreateLike(ctx context.Context, like *model.Like) error
	UpdateLikeActive(ctx context.Context, id uint64, isActive bool) error
	CountActiveLikes(ctx context.Context, targetType string, targetID uint64) (int64, error)
	HasActiveLike(ctx context.Context, userID uint64, targetType string, targetID uint64) (bool, error)
	ListActiveLikeTargets(ctx context.Context, userID uint64, targetType string, targetIDs []uint64) ([]uint64, error)
	ListActiveLikes(ctx context.Context, targetType string, targetID uint64, offset, limit int) ([]*model.Like, int64, error)

	GetCommentById(ctx context.Context, id uint64) (*model.Comment, error)
	ListComments(ctx context.Context, targetType string, targetID uint64, offset, limit int) ([]*model.Comment, int64, error)
	ListReplies(ctx context.Context, parentID uint64, offset, limit int) ([]*model.Comment, int64, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	UpdateCommentContent(ctx context.Context, id uint64, content string, editedAt time.Time) error
	SoftDeleteComment(ctx context.Context, id uint64, deletedAt time.Time) error
	CountActiveComments(ctx context.Context, targetType string, targetID uint64) (int64, error)
	IncrementReplies(ctx context.Context, parentID uint64, delta int) error
	SyncCommentLikesCount(ctx context.Context, id uint64, count int64) error
}

type EngagementRepoImpl struct {
	db *gorm.DB
}

func NewEngagementRepo(db *gorm.DB) EngagementRepo {
	return &EngagementRepoImpl{db: db}
}

func (s *EngagementRepoImpl) GetLike(ctx context.Context, userID uint64, targetType string, targetID uint64) (*model.Like, error) {
	like := &model.Like{}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(like)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return like, nil
}

func (s *EngagementRepoImpl) CreateLike(ctx context.Context, like *model.Like) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *EngagementRepoImpl) UpdateLikeActive(ctx context.Context, id uint64, isActive bool) error {
	return s.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("id = ?", id).
		Update("is_active", isActive).Error
}

func (s *EngagementRepoImpl) CountActiveLikes(ctx context.Context, targetType string, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_type = ? AND target_id = ? AND is_active = ?", targetType, targetID, true).
		Count(&count).Error
	return count, err
}

func (s *EngagementRepoImpl) HasActiveLike(ctx context.Context, userID uint64, targetType string, targetID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND is_active = ?", userID, targetType, targetID, true).
		Count(&count).Error
	return count > 0, err
}

// ListActiveLikeTargets 批量查询用户在一组目标上的有效点赞，一次 IN 查询覆盖整页
func (s *EngagementRepoImpl) ListActiveLikeTargets(ctx context.Context, userID uint64, targetType string, targetIDs []uint64) ([]uint64, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}

	liked := make([]uint64, 0, len(targetIDs))
	err := s.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ? AND is_active = ?", userID, targetType, targetIDs, true).
		Pluck("target_id", &liked).Error
	if err != nil {
		return nil, err
	}
	return liked, nil
}

// ListActiveLikes 分页获取目标的有效点赞，按点赞时间倒序
func (s *EngagementRepoImpl) ListActiveLikes(ctx context.Context, targetType string, targetID uint64, offset, limit int) ([]*model.Like, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_type = ? AND target_id = ? AND is_active = ?", targetType, targetID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	likes := make([]*model.Like, 0)
	result := query.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&likes)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return likes, total, nil
}

func (s *EngagementRepoImpl) GetCommentById(ctx context.Context, id uint64) (*model.Comment, error) {
	comment := &model.Comment{}
	result := s.db.WithContext(ctx).
		Preload("Author").
		First(comment, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return comment, nil
}

// ListComments 分页获取一级评论，软删除的不返回
func (s *EngagementRepoImpl) ListComments(ctx context.Context, targetType string, targetID uint64, offset, limit int) ([]*model.Comment, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ? AND parent_comment_id = 0 AND is_deleted = ?", targetType, targetID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := make([]*model.Comment, 0)
	result := query.
		Preload("Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return comments, total, nil
}

// ListReplies 分页获取某条评论的回复，按时间正序
func (s *EngagementRepoImpl) ListReplies(ctx context.Context, parentID uint64, offset, limit int) ([]*model.Comment, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("parent_comment_id = ? AND is_deleted = ?", parentID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	replies := make([]*model.Comment, 0)
	result := query.
		Preload("Author").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&replies)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return replies, total, nil
}

func (s *EngagementRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *EngagementRepoImpl) UpdateCommentContent(ctx context.Context, id uint64, content string, editedAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
			"edited_at": editedAt,
		}).Error
}

// SoftDeleteComment 软删除，正文保留在行内但不再对外返回
func (s *EngagementRepoImpl) SoftDeleteComment(ctx context.Context, id uint64, deletedAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": deletedAt,
		}).Error
}

// CountActiveComments 统计目标下未删除的评论数，回复也计入
func (s *EngagementRepoImpl) CountActiveComments(ctx context.Context, targetType string, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ? AND is_deleted = ?", targetType, targetID, false).
		Count(&count).Error
	return count, err
}

func (s *EngagementRepoImpl) IncrementReplies(ctx context.Context, parentID uint64, delta int) error {
	return s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", parentID).
		UpdateColumn("replies_count", gorm.Expr("replies_count + ?", delta)).Error
}

// SyncCommentLikesCount 将评论行上的点赞计数对齐为真实行数
func (s *EngagementRepoImpl) SyncCommentLikesCount(ctx context.Context, id uint64, count int64) error {
	return s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", count).Error
}
