package repository

import (
	"Atrium/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ArticleQuery struct {
	Keyword       string
	Tag           string
	AuthorID      uint64
	OnlyPublished bool
	Offset        int
	Limit         int
}

type ArticleRepo interface {
	GetArticleById(ctx context.Context, id uint64) (*model.Article, error)
	ListArticles(ctx context.Context, q ArticleQuery) ([]*model.Article, int64, error)
	ListLatestPublished(ctx context.Context, keyword string, limit int) ([]*model.Article, error)
	CountPublished(ctx context.Context, keyword string) (int64, error)
	CreateArticle(ctx context.Context, article *model.Article) error
	UpdateArticle(ctx context.Context, article *model.Article) error
	DeleteArticle(ctx context.Context, id uint64) (int64, error)
}

type ArticleRepoImpl struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepo {
	return &ArticleRepoImpl{db: db}
}

func (s *ArticleRepoImpl) GetArticleById(ctx context.Context, id uint64) (*model.Article, error) {
	article := &model.Article{}
	result := s.db.WithContext(ctx).
		Preload("Author").
		First(article, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return article, nil
}

func (s *ArticleRepoImpl) ListArticles(ctx context.Context, q ArticleQuery) ([]*model.Article, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Article{})

	if q.OnlyPublished {
		query = query.Where("published = ?", true)
	}
	if q.AuthorID > 0 {
		query = query.Where("author_id = ?", q.AuthorID)
	}
	if q.Keyword != "" {
		pattern := "%" + q.Keyword + "%"
		query = query.Where("title LIKE ? OR content LIKE ? OR summary LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if q.Tag != "" {
		query = query.Where("tags LIKE ?", "%\""+q.Tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	articles := make([]*model.Article, 0)
	result := query.
		Preload("Author").
		Order("created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&articles)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return articles, total, nil
}

// ListLatestPublished 聚合流取数，按发布时间倒序取前 limit 条
func (s *ArticleRepoImpl) ListLatestPublished(ctx context.Context, keyword string, limit int) ([]*model.Article, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("published = ?", true)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR content LIKE ? OR summary LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	articles := make([]*model.Article, 0)
	result := query.
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&articles)
	if result.Error != nil {
		return nil, result.Error
	}
	return articles, nil
}

// CountPublished 聚合流分页总数，过滤条件与 ListLatestPublished 一致
func (s *ArticleRepoImpl) CountPublished(ctx context.Context, keyword string) (int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("published = ?", true)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR content LIKE ? OR summary LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ArticleRepoImpl) CreateArticle(ctx context.Context, article *model.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

func (s *ArticleRepoImpl) UpdateArticle(ctx context.Context, article *model.Article) error {
	return s.db.WithContext(ctx).Save(article).Error
}

func (s *ArticleRepoImpl) DeleteArticle(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&model.Article{}, id)
	return result.RowsAffected, result.Error
}
