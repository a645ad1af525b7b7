package service

import (
	"Atrium/internal/api/config"
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/minio"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	"math"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const feedExcerptRunes = 200

// FeedService 聚合流。文章与媒体分别取数后按时间归并
type FeedService interface {
	SocialFeed(ctx context.Context, viewerID uint64, page, limit int, search string) (*dto.FeedPageDTO, error)
	UnifiedFeed(ctx context.Context, viewerID uint64, page, limit int, search string, includeArticles, includeMedia bool) (*dto.FeedPageDTO, error)
}

type feedServiceImpl struct {
	articleRepo    repository.ArticleRepo
	mediaRepo      repository.MediaRepo
	statRepo       repository.ContentStatRepo
	engagementRepo repository.EngagementRepo
}

func NewFeedService(
	articleRepo repository.ArticleRepo,
	mediaRepo repository.MediaRepo,
	statRepo repository.ContentStatRepo,
	engagementRepo repository.EngagementRepo,
) FeedService {
	return &feedServiceImpl{
		articleRepo:    articleRepo,
		mediaRepo:      mediaRepo,
		statRepo:       statRepo,
		engagementRepo: engagementRepo,
	}
}

// SocialFeed 首页动态流，两种内容各占一半配比
func (s *feedServiceImpl) SocialFeed(ctx context.Context, viewerID uint64, page, limit int, search string) (*dto.FeedPageDTO, error) {
	feedCfg := config.Cfg.Feed
	return s.buildFeed(ctx, viewerID, page, limit, search,
		feedCfg.ArticleRatio, feedCfg.MediaRatio, true, true)
}

// UnifiedFeed 统一内容流，支持按类型开关过滤
func (s *feedServiceImpl) UnifiedFeed(ctx context.Context, viewerID uint64, page, limit int, search string, includeArticles, includeMedia bool) (*dto.FeedPageDTO, error) {
	feedCfg := config.Cfg.Feed
	return s.buildFeed(ctx, viewerID, page, limit, search,
		feedCfg.UnifiedArticleRatio, feedCfg.UnifiedMediaRatio, includeArticles, includeMedia)
}

// buildFeed 每种内容按 ratio*limit*page 的上界取数，归并排序后切出当前页
// 某一页配比不足时不回填另一种内容，页内条数可能少于 limit
func (s *feedServiceImpl) buildFeed(ctx context.Context, viewerID uint64, page, limit int, search string, articleRatio, mediaRatio float64, includeArticles, includeMedia bool) (*dto.FeedPageDTO, error) {
	page, limit = util.NormalizePagination(page, limit)

	var (
		articles     []*model.Article
		media        []*model.Media
		articleTotal int64
		mediaTotal   int64
	)

	g, gctx := errgroup.WithContext(ctx)

	if includeArticles {
		fetchLimit := int(math.Ceil(articleRatio*float64(limit))) * page
		g.Go(func() error {
			var err error
			articles, err = s.articleRepo.ListLatestPublished(gctx, search, fetchLimit)
			return err
		})
		g.Go(func() error {
			var err error
			articleTotal, err = s.articleRepo.CountPublished(gctx, search)
			return err
		})
	}

	if includeMedia {
		fetchLimit := int(math.Ceil(mediaRatio*float64(limit))) * page
		g.Go(func() error {
			var err error
			media, err = s.mediaRepo.ListLatestPublic(gctx, search, fetchLimit)
			return err
		})
		g.Go(func() error {
			var err error
			mediaTotal, err = s.mediaRepo.CountPublic(gctx, search)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*dto.FeedItemDTO, 0, len(articles)+len(media))
	for _, article := range articles {
		items = append(items, articleFeedItem(article))
	}
	for _, m := range media {
		items = append(items, mediaFeedItem(m))
	}

	// 统一按发布时间倒序，同一时刻文章排在媒体前
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})

	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	items = items[start:end]

	if err := s.attachStats(ctx, viewerID, items); err != nil {
		return nil, err
	}

	total := articleTotal + mediaTotal
	return &dto.FeedPageDTO{
		Items: items,
		Pagination: &dto.FeedPaginationDTO{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func feedAuthor(id uint64, user *model.User) *dto.FeedAuthorDTO {
	author := &dto.FeedAuthorDTO{ID: id}
	if user != nil {
		author.Name = user.Name
		author.Email = user.Email
		author.AvatarURL = minio.GetPublicURL(user.AvatarURL)
		author.Role = user.Role
	}
	return author
}

func articleFeedItem(article *model.Article) *dto.FeedItemDTO {
	excerpt := article.Summary
	if excerpt == "" {
		excerpt = util.ExcerptHTML(article.Content, feedExcerptRunes)
	}

	item := &dto.FeedItemDTO{
		Kind:      model.TargetArticle,
		ID:        article.ID,
		Title:     article.Title,
		Excerpt:   excerpt,
		Tags:      article.Tags,
		Author:    feedAuthor(article.AuthorID, &article.Author),
		CreatedAt: article.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if item.Tags == nil {
		item.Tags = make([]string, 0)
	}
	return item
}

func mediaFeedItem(media *model.Media) *dto.FeedItemDTO {
	item := &dto.FeedItemDTO{
		Kind:         model.TargetMedia,
		ID:           media.ID,
		Title:        media.Title,
		Excerpt:      media.Description,
		URL:          minio.GetPublicURL(media.ObjectKey),
		ThumbnailURL: minio.GetPublicURL(media.ThumbnailKey),
		MediaType:    media.Type,
		Tags:         media.Tags,
		Author:       feedAuthor(media.UploadedBy, &media.Uploader),
		CreatedAt:    media.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if item.Tags == nil {
		item.Tags = make([]string, 0)
	}
	return item
}

// attachStats 批量补上互动计数与 isLiked，缓存行缺失时按零值返回
// 计数与点赞集合都按 kind 整页批量查询，不逐条回表
func (s *feedServiceImpl) attachStats(ctx context.Context, viewerID uint64, items []*dto.FeedItemDTO) error {
	byKind := map[string][]uint64{}
	for _, item := range items {
		byKind[item.Kind] = append(byKind[item.Kind], item.ID)
	}

	statIndex := map[string]*model.ContentStat{}
	likedIndex := map[string]bool{}
	for kind, ids := range byKind {
		stats, err := s.statRepo.GetStatsByContent(ctx, kind, ids)
		if err != nil {
			return err
		}
		for _, stat := range stats {
			statIndex[stat.ContentType+":"+strconv.FormatUint(stat.ContentID, 10)] = stat
		}

		if viewerID > 0 {
			liked, err := s.engagementRepo.ListActiveLikeTargets(ctx, viewerID, kind, ids)
			if err != nil {
				return err
			}
			for _, id := range liked {
				likedIndex[kind+":"+strconv.FormatUint(id, 10)] = true
			}
		}
	}

	for _, item := range items {
		key := item.Kind + ":" + strconv.FormatUint(item.ID, 10)
		if stat, ok := statIndex[key]; ok {
			item.LikesCount = stat.LikesCount
			item.CommentsCount = stat.CommentsCount
			item.ViewsCount = stat.ViewsCount
			item.SharesCount = stat.SharesCount
		}
		item.IsLiked = likedIndex[key]
	}
	return nil
}
