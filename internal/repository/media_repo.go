package repository

import (
	"Atrium/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type MediaQuery struct {
	Keyword    string
	Tag        string
	Type       string
	UploadedBy uint64
	OnlyPublic bool
	Offset     int
	Limit      int
}

type MediaRepo interface {
	GetMediaById(ctx context.Context, id uint64) (*model.Media, error)
	ListMedia(ctx context.Context, q MediaQuery) ([]*model.Media, int64, error)
	ListLatestPublic(ctx context.Context, keyword string, limit int) ([]*model.Media, error)
	CountPublic(ctx context.Context, keyword string) (int64, error)
	CreateMedia(ctx context.Context, media *model.Media) error
	UpdateMedia(ctx context.Context, media *model.Media) error
	IncrementUsage(ctx context.Context, id uint64) error
	DeleteMedia(ctx context.Context, id uint64) (int64, error)
}

type MediaRepoImpl struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) MediaRepo {
	return &MediaRepoImpl{db: db}
}

func (s *MediaRepoImpl) GetMediaById(ctx context.Context, id uint64) (*model.Media, error) {
	media := &model.Media{}
	result := s.db.WithContext(ctx).
		Preload("Uploader").
		First(media, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return media, nil
}

func (s *MediaRepoImpl) ListMedia(ctx context.Context, q MediaQuery) ([]*model.Media, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Media{})

	if q.OnlyPublic {
		query = query.Where("is_public = ?", true)
	}
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.UploadedBy > 0 {
		query = query.Where("uploaded_by = ?", q.UploadedBy)
	}
	if q.Keyword != "" {
		pattern := "%" + q.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR original_name LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if q.Tag != "" {
		query = query.Where("tags LIKE ?", "%\""+q.Tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*model.Media, 0)
	result := query.
		Preload("Uploader").
		Order("created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&items)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return items, total, nil
}

// ListLatestPublic 聚合流取数，按上传时间倒序取前 limit 条
func (s *MediaRepoImpl) ListLatestPublic(ctx context.Context, keyword string, limit int) ([]*model.Media, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Media{}).
		Where("is_public = ?", true)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR original_name LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	items := make([]*model.Media, 0)
	result := query.
		Preload("Uploader").
		Order("created_at DESC").
		Limit(limit).
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// CountPublic 聚合流分页总数，过滤条件与 ListLatestPublic 一致
func (s *MediaRepoImpl) CountPublic(ctx context.Context, keyword string) (int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Media{}).
		Where("is_public = ?", true)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR original_name LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *MediaRepoImpl) CreateMedia(ctx context.Context, media *model.Media) error {
	return s.db.WithContext(ctx).Create(media).Error
}

func (s *MediaRepoImpl) UpdateMedia(ctx context.Context, media *model.Media) error {
	return s.db.WithContext(ctx).Save(media).Error
}

func (s *MediaRepoImpl) IncrementUsage(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Media{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (s *MediaRepoImpl) DeleteMedia(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Media{}, id)
	return result.RowsAffected, result.Error
}
