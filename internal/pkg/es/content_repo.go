package es

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type ContentRepo interface {
	Search(ctx context.Context, queryText string, contentType string, from, size int) ([]*ContentES, error)
	IndexContent(ctx context.Context, content *ContentES) error
	DeleteContent(ctx context.Context, contentType string, id uint64) error
	UpdateAuthorName(ctx context.Context, authorID uint64, newName string) error
}

type ContentRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewContentRepo(client *elasticsearch.TypedClient) ContentRepo {
	return &ContentRepoImpl{client: client}
}

// Search 全文检索，queryText 命中标题、正文与标签，contentType 为空时不限类型
func (s *ContentRepoImpl) Search(ctx context.Context, queryText string, contentType string, from, size int) ([]*ContentES, error) {
	if from >= MaxSearchDepth {
		return []*ContentES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Must: []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  queryText,
					Fields: []string{"title^2", "content", "tags"},
				},
			},
		},
		Filter: []types.Query{
			{
				Term: map[string]types.TermQuery{
					"published": {Value: true},
				},
			},
		},
	}

	if contentType != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{
				"content_type": {Value: contentType},
			},
		})
	}

	searchReq := s.client.Search().
		Index(ContentIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	res, err := searchReq.Do(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([]*ContentES, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var c ContentES
		if err = json.Unmarshal(hit.Source_, &c); err != nil {
			return nil, err
		}
		if c.Tags == nil {
			c.Tags = make([]string, 0)
		}
		contents = append(contents, &c)
	}
	return contents, nil
}

// IndexContent 写入或覆盖内容文档
func (s *ContentRepoImpl) IndexContent(ctx context.Context, content *ContentES) error {
	_, err := s.client.Index(ContentIndex).
		Id(content.DocID()).
		Document(content).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// DeleteContent 从索引中移除内容文档
func (s *ContentRepoImpl) DeleteContent(ctx context.Context, contentType string, id uint64) error {
	doc := ContentES{ID: id, ContentType: contentType}

	_, err := s.client.Delete(ContentIndex, doc.DocID()).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// UpdateAuthorName 用户改名后同步其全部内容文档的作者快照
func (s *ContentRepoImpl) UpdateAuthorName(ctx context.Context, authorID uint64, newName string) error {
	nameJSON, _ := json.Marshal(newName)

	params := map[string]json.RawMessage{
		"new_name": json.RawMessage(nameJSON),
	}

	scriptSource := "ctx._source.author_name = params.new_name;"

	req := s.client.UpdateByQuery(ContentIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"author_id": {Value: authorID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return fmt.Errorf("content index: update author name failed: %w", err)
	}

	if len(resp.Failures) != 0 {
		return fmt.Errorf("content index: update author name has failures, count: %d", len(resp.Failures))
	}

	return nil
}
