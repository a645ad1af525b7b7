package repository

import (
	"Atrium/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentStatRepo interface {
	GetStat(ctx context.Context, contentType string, contentID uint64) (*model.ContentStat, error)
	GetStatsByContent(ctx context.Context, contentType string, contentIDs []uint64) ([]*model.ContentStat, error)
	SaveOrUpdateStat(ctx context.Context, stat *model.ContentStat) error
	IncrementViews(ctx context.Context, contentType string, contentID uint64) error
	IncrementShares(ctx context.Context, contentType string, contentID uint64) error
	DeleteStat(ctx context.Context, contentType string, contentID uint64) error
	ListOrphanStats(ctx context.Context, limit int) ([]*model.ContentStat, error)
}

type ContentStatRepoImpl struct {
	db *gorm.DB
}

func NewContentStatRepo(db *gorm.DB) ContentStatRepo {
	return &ContentStatRepoImpl{db: db}
}

func (s *ContentStatRepoImpl) GetStat(ctx context.Context, contentType string, contentID uint64) (*model.ContentStat, error) {
	stat := &model.ContentStat{}
	result := s.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		First(stat)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return stat, nil
}

func (s *ContentStatRepoImpl) GetStatsByContent(ctx context.Context, contentType string, contentIDs []uint64) ([]*model.ContentStat, error) {
	stats := make([]*model.ContentStat, 0)
	result := s.db.WithContext(ctx).
		Where("content_type = ? AND content_id IN ?", contentType, contentIDs).
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

// SaveOrUpdateStat 采用 Upsert 逻辑。如果 content_type + content_id 已存在，则覆盖计数
func (s *ContentStatRepoImpl) SaveOrUpdateStat(ctx context.Context, stat *model.ContentStat) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_type"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"likes_count",
			"comments_count",
		}),
	}).Create(stat).Error
}

// IncrementViews 浏览数自增，行不存在时先落一行零值
func (s *ContentStatRepoImpl) IncrementViews(ctx context.Context, contentType string, contentID uint64) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_type"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"views_count": gorm.Expr("views_count + 1"),
		}),
	}).Create(&model.ContentStat{
		ContentType: contentType,
		ContentID:   contentID,
		ViewsCount:  1,
	}).Error
}

// IncrementShares 分享数自增，行不存在时先落一行零值
func (s *ContentStatRepoImpl) IncrementShares(ctx context.Context, contentType string, contentID uint64) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_type"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"shares_count": gorm.Expr("shares_count + 1"),
		}),
	}).Create(&model.ContentStat{
		ContentType: contentType,
		ContentID:   contentID,
		SharesCount: 1,
	}).Error
}

func (s *ContentStatRepoImpl) DeleteStat(ctx context.Context, contentType string, contentID uint64) error {
	return s.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Delete(&model.ContentStat{}).Error
}

// ListOrphanStats 找出内容已被删除的计数行，供定时清理
func (s *ContentStatRepoImpl) ListOrphanStats(ctx context.Context, limit int) ([]*model.ContentStat, error) {
	stats := make([]*model.ContentStat, 0)

	articleOrphans := s.db.WithContext(ctx).
		Model(&model.ContentStat{}).
		Where("content_type = ?", model.TargetArticle).
		Where("content_id NOT IN (?)", s.db.Model(&model.Article{}).Select("id"))

	mediaOrphans := s.db.WithContext(ctx).
		Model(&model.ContentStat{}).
		Where("content_type = ?", model.TargetMedia).
		Where("content_id NOT IN (?)", s.db.Model(&model.Media{}).Select("id"))

	commentOrphans := s.db.WithContext(ctx).
		Model(&model.ContentStat{}).
		Where("content_type = ?", model.TargetComment).
		Where("content_id NOT IN (?)", s.db.Model(&model.Comment{}).Select("id"))

	for _, query := range []*gorm.DB{articleOrphans, mediaOrphans, commentOrphans} {
		batch := make([]*model.ContentStat, 0)
		if err := query.Limit(limit).Find(&batch).Error; err != nil {
			return nil, err
		}
		stats = append(stats, batch...)
	}
	return stats, nil
}
