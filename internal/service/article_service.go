package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/es"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	log "log/slog"
)

// ArticleService 博客文章。已发布的对所有人可见，草稿仅作者与管理员可见
type ArticleService interface {
	GetArticleById(ctx context.Context, id uint64, viewerID uint64, isAdmin bool) (*dto.ArticleDTO, error)
	ListArticles(ctx context.Context, q repository.ArticleQuery, page, limit int) (*dto.ArticleListDTO, error)
	CreateArticle(ctx context.Context, authorID uint64, req *dto.SaveArticleDTO) (*dto.ArticleDTO, error)
	UpdateArticle(ctx context.Context, id uint64, operatorID uint64, isAdmin bool, req *dto.SaveArticleDTO) (*dto.ArticleDTO, error)
	DeleteArticle(ctx context.Context, id uint64, operatorID uint64, isAdmin bool) error
}

type articleServiceImpl struct {
	articleRepo repository.ArticleRepo
	statRepo    repository.ContentStatRepo
	contentRepo es.ContentRepo
	statsSvc    StatsService
}

func NewArticleService(
	articleRepo repository.ArticleRepo,
	statRepo repository.ContentStatRepo,
	contentRepo es.ContentRepo,
	statsSvc StatsService,
) ArticleService {
	return &articleServiceImpl{
		articleRepo: articleRepo,
		statRepo:    statRepo,
		contentRepo: contentRepo,
		statsSvc:    statsSvc,
	}
}

func (s *articleServiceImpl) GetArticleById(ctx context.Context, id uint64, viewerID uint64, isAdmin bool) (*dto.ArticleDTO, error) {
	article, err := s.articleRepo.GetArticleById(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if !article.Published && article.AuthorID != viewerID && !isAdmin {
		return nil, ErrArticleNotFound
	}

	// 详情页阅读计一次浏览
	if article.Published {
		if err = s.statsSvc.RecordView(ctx, model.TargetArticle, id); err != nil {
			log.WarnContext(ctx, "record article view failed", "articleID", id, "err", err)
		}
	}

	item := toArticleDTO(article)
	stats, err := s.statsSvc.GetStats(ctx, model.TargetArticle, id, viewerID)
	if err != nil {
		return nil, err
	}
	item.Stats = stats
	return item, nil
}

func (s *articleServiceImpl) ListArticles(ctx context.Context, q repository.ArticleQuery, page, limit int) (*dto.ArticleListDTO, error) {
	page, limit = util.NormalizePagination(page, limit)
	q.Offset = (page - 1) * limit
	q.Limit = limit

	articles, total, err := s.articleRepo.ListArticles(ctx, q)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ArticleDTO, 0, len(articles))
	for _, article := range articles {
		list = append(list, toArticleDTO(article))
	}
	return &dto.ArticleListDTO{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *articleServiceImpl) CreateArticle(ctx context.Context, authorID uint64, req *dto.SaveArticleDTO) (*dto.ArticleDTO, error) {
	article := &model.Article{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Tags:     util.UniqueStrings(req.Tags),
		AuthorID: authorID,
	}
	if req.Published != nil {
		article.Published = *req.Published
	}

	if err := s.articleRepo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}

	created, err := s.articleRepo.GetArticleById(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	s.syncSearchIndex(ctx, created)
	return toArticleDTO(created), nil
}

func (s *articleServiceImpl) UpdateArticle(ctx context.Context, id uint64, operatorID uint64, isAdmin bool, req *dto.SaveArticleDTO) (*dto.ArticleDTO, error) {
	article, err := s.articleRepo.GetArticleById(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	if article.AuthorID != operatorID && !isAdmin {
		return nil, ErrCapabilityDenied
	}

	article.Title = req.Title
	article.Content = req.Content
	article.Summary = req.Summary
	article.Tags = util.UniqueStrings(req.Tags)
	if req.Published != nil {
		article.Published = *req.Published
	}

	if err = s.articleRepo.UpdateArticle(ctx, article); err != nil {
		return nil, err
	}
	s.syncSearchIndex(ctx, article)
	return toArticleDTO(article), nil
}

func (s *articleServiceImpl) DeleteArticle(ctx context.Context, id uint64, operatorID uint64, isAdmin bool) error {
	article, err := s.articleRepo.GetArticleById(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrArticleNotFound
	}
	if article.AuthorID != operatorID && !isAdmin {
		return ErrCapabilityDenied
	}

	rows, err := s.articleRepo.DeleteArticle(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrArticleNotFound
	}

	if err = s.statRepo.DeleteStat(ctx, model.TargetArticle, id); err != nil {
		log.WarnContext(ctx, "delete article stat failed", "articleID", id, "err", err)
	}
	if err = s.contentRepo.DeleteContent(ctx, model.TargetArticle, id); err != nil {
		log.ErrorContext(ctx, "remove article from search index failed", "articleID", id, "err", err)
	}
	return nil
}

// syncSearchIndex 已发布文章进索引，未发布的从索引摘除
func (s *articleServiceImpl) syncSearchIndex(ctx context.Context, article *model.Article) {
	if !article.Published {
		if err := s.contentRepo.DeleteContent(ctx, model.TargetArticle, article.ID); err != nil {
			log.ErrorContext(ctx, "remove draft from search index failed", "articleID", article.ID, "err", err)
		}
		return
	}

	doc := &es.ContentES{
		ID:          article.ID,
		ContentType: model.TargetArticle,
		Title:       article.Title,
		Content:     util.StripHTML(article.Content),
		Tags:        article.Tags,
		AuthorID:    article.AuthorID,
		AuthorName:  article.Author.Name,
		Published:   article.Published,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
	}
	if err := s.contentRepo.IndexContent(ctx, doc); err != nil {
		log.ErrorContext(ctx, "index article failed", "articleID", article.ID, "err", err)
	}
}

func toArticleDTO(article *model.Article) *dto.ArticleDTO {
	item := &dto.ArticleDTO{
		ID:         article.ID,
		Title:      article.Title,
		Content:    article.Content,
		Summary:    article.Summary,
		Published:  article.Published,
		Tags:       article.Tags,
		AuthorID:   article.AuthorID,
		AuthorName: article.Author.Name,
		CreatedAt:  article.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  article.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if item.Tags == nil {
		item.Tags = make([]string, 0)
	}
	return item
}
