package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/es"
	"Atrium/internal/pkg/util"
	"context"
	"strings"
)

const searchExcerptLength = 200

// SearchService 全站搜索，文章与媒体走同一个内容索引
type SearchService interface {
	Search(ctx context.Context, keyword, kind string, page, limit int) (*dto.SearchPageDTO, error)
}

type searchServiceImpl struct {
	contentRepo es.ContentRepo
}

func NewSearchService(contentRepo es.ContentRepo) SearchService {
	return &searchServiceImpl{
		contentRepo: contentRepo,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, keyword, kind string, page, limit int) (*dto.SearchPageDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrParamInvalid
	}
	switch kind {
	case "", model.TargetArticle, model.TargetMedia:
	default:
		return nil, ErrTargetTypeInvalid
	}

	page, limit = util.NormalizePagination(page, limit)
	docs, err := s.contentRepo.Search(ctx, keyword, kind, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.SearchResultDTO, 0, len(docs))
	for _, doc := range docs {
		tags := doc.Tags
		if tags == nil {
			tags = make([]string, 0)
		}
		list = append(list, &dto.SearchResultDTO{
			Kind:       doc.ContentType,
			ID:         doc.ID,
			Title:      doc.Title,
			Excerpt:    util.ExcerptHTML(doc.Content, searchExcerptLength),
			Tags:       tags,
			AuthorID:   doc.AuthorID,
			AuthorName: doc.AuthorName,
			CreatedAt:  doc.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &dto.SearchPageDTO{
		List:  list,
		Page:  page,
		Limit: limit,
	}, nil
}
