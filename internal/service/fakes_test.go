package service

import (
	"Atrium/internal/api/config"
	"Atrium/internal/model"
	"Atrium/internal/pkg/es"
	"Atrium/internal/pkg/kafka"
	"Atrium/internal/pkg/minio"
	mongodb "Atrium/internal/pkg/mongo"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/repository"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 单测不依赖外部服务。Redis 指向不可达地址，重算锁拿不到时照常落库
func TestMain(m *testing.M) {
	config.Cfg = &config.Config{
		MinIO: config.MinIOConfig{ExternalEndpoint: "cdn.test.local"},
		Feed: config.FeedConfig{
			ArticleRatio:        0.5,
			MediaRatio:          0.5,
			UnifiedArticleRatio: 0.4,
			UnifiedMediaRatio:   0.5,
		},
		Mail: config.MailConfig{URL: "http://127.0.0.1:1"},
	}
	minio.MainBucket = "atrium"
	redis.Rdb = goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	os.Exit(m.Run())
}

type fakeEngagementRepo struct {
	likes         map[string]*model.Like
	nextLikeID    uint64
	comments      map[uint64]*model.Comment
	nextCommentID uint64

	// 模拟并发竞态：前 N 次 GetLike 假装行不存在
	missLikeReads int
	// 记录逐条点赞查询次数，校验批量路径不退化成 N+1
	hasActiveLikeCalls int
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{
		likes:    map[string]*model.Like{},
		comments: map[uint64]*model.Comment{},
	}
}

func likeKey(userID uint64, targetType string, targetID uint64) string {
	return fmt.Sprintf("%d:%s:%d", userID, targetType, targetID)
}

func (f *fakeEngagementRepo) GetLike(_ context.Context, userID uint64, targetType string, targetID uint64) (*model.Like, error) {
	if f.missLikeReads > 0 {
		f.missLikeReads--
		return nil, nil
	}
	like, ok := f.likes[likeKey(userID, targetType, targetID)]
	if !ok {
		return nil, nil
	}
	cp := *like
	return &cp, nil
}

func (f *fakeEngagementRepo) CreateLike(_ context.Context, like *model.Like) error {
	key := likeKey(like.UserID, like.TargetType, like.TargetID)
	if _, ok := f.likes[key]; ok {
		return &mysql.MySQLError{Number: 1062}
	}
	f.nextLikeID++
	like.ID = f.nextLikeID
	cp := *like
	f.likes[key] = &cp
	return nil
}

func (f *fakeEngagementRepo) UpdateLikeActive(_ context.Context, id uint64, isActive bool) error {
	for _, like := range f.likes {
		if like.ID == id {
			like.IsActive = isActive
		}
	}
	return nil
}

func (f *fakeEngagementRepo) CountActiveLikes(_ context.Context, targetType string, targetID uint64) (int64, error) {
	var count int64
	for _, like := range f.likes {
		if like.TargetType == targetType && like.TargetID == targetID && like.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeEngagementRepo) HasActiveLike(_ context.Context, userID uint64, targetType string, targetID uint64) (bool, error) {
	f.hasActiveLikeCalls++
	like, ok := f.likes[likeKey(userID, targetType, targetID)]
	return ok && like.IsActive, nil
}

func (f *fakeEngagementRepo) ListActiveLikeTargets(_ context.Context, userID uint64, targetType string, targetIDs []uint64) ([]uint64, error) {
	var liked []uint64
	for _, id := range targetIDs {
		if like, ok := f.likes[likeKey(userID, targetType, id)]; ok && like.IsActive {
			liked = append(liked, id)
		}
	}
	return liked, nil
}

func (f *fakeEngagementRepo) ListActiveLikes(_ context.Context, targetType string, targetID uint64, offset, limit int) ([]*model.Like, int64, error) {
	var matched []*model.Like
	for _, like := range f.likes {
		if like.TargetType == targetType && like.TargetID == targetID && like.IsActive {
			cp := *like
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeEngagementRepo) GetCommentById(_ context.Context, id uint64) (*model.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *comment
	return &cp, nil
}

func (f *fakeEngagementRepo) ListComments(_ context.Context, targetType string, targetID uint64, offset, limit int) ([]*model.Comment, int64, error) {
	var matched []*model.Comment
	for _, comment := range f.comments {
		if comment.TargetType == targetType && comment.TargetID == targetID &&
			comment.ParentCommentID == 0 && !comment.IsDeleted {
			cp := *comment
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageComments(matched, offset, limit), int64(len(matched)), nil
}

func (f *fakeEngagementRepo) ListReplies(_ context.Context, parentID uint64, offset, limit int) ([]*model.Comment, int64, error) {
	var matched []*model.Comment
	for _, comment := range f.comments {
		if comment.ParentCommentID == parentID && !comment.IsDeleted {
			cp := *comment
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return pageComments(matched, offset, limit), int64(len(matched)), nil
}

func pageComments(comments []*model.Comment, offset, limit int) []*model.Comment {
	if offset > len(comments) {
		offset = len(comments)
	}
	end := offset + limit
	if end > len(comments) {
		end = len(comments)
	}
	return comments[offset:end]
}

func (f *fakeEngagementRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	f.nextCommentID++
	comment.ID = f.nextCommentID
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().Add(time.Duration(f.nextCommentID) * time.Millisecond)
	}
	cp := *comment
	f.comments[comment.ID] = &cp
	return nil
}

func (f *fakeEngagementRepo) UpdateCommentContent(_ context.Context, id uint64, content string, editedAt time.Time) error {
	if comment, ok := f.comments[id]; ok {
		comment.Content = content
		comment.IsEdited = true
		comment.EditedAt = &editedAt
	}
	return nil
}

func (f *fakeEngagementRepo) SoftDeleteComment(_ context.Context, id uint64, deletedAt time.Time) error {
	if comment, ok := f.comments[id]; ok {
		comment.IsDeleted = true
		comment.DeletedAt = &deletedAt
	}
	return nil
}

func (f *fakeEngagementRepo) CountActiveComments(_ context.Context, targetType string, targetID uint64) (int64, error) {
	var count int64
	for _, comment := range f.comments {
		if comment.TargetType == targetType && comment.TargetID == targetID && !comment.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeEngagementRepo) IncrementReplies(_ context.Context, parentID uint64, delta int) error {
	if comment, ok := f.comments[parentID]; ok {
		comment.RepliesCount += delta
	}
	return nil
}

func (f *fakeEngagementRepo) SyncCommentLikesCount(_ context.Context, id uint64, count int64) error {
	if comment, ok := f.comments[id]; ok {
		comment.LikesCount = int(count)
	}
	return nil
}

type fakeStatRepo struct {
	stats map[string]*model.ContentStat
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{stats: map[string]*model.ContentStat{}}
}

func statKey(contentType string, contentID uint64) string {
	return contentType + ":" + fmt.Sprintf("%d", contentID)
}

func (f *fakeStatRepo) GetStat(_ context.Context, contentType string, contentID uint64) (*model.ContentStat, error) {
	stat, ok := f.stats[statKey(contentType, contentID)]
	if !ok {
		return nil, nil
	}
	cp := *stat
	return &cp, nil
}

func (f *fakeStatRepo) GetStatsByContent(_ context.Context, contentType string, contentIDs []uint64) ([]*model.ContentStat, error) {
	var result []*model.ContentStat
	for _, id := range contentIDs {
		if stat, ok := f.stats[statKey(contentType, id)]; ok {
			cp := *stat
			result = append(result, &cp)
		}
	}
	return result, nil
}

// SaveOrUpdateStat 与真实实现一致：冲突时只覆盖点赞与评论两列
func (f *fakeStatRepo) SaveOrUpdateStat(_ context.Context, stat *model.ContentStat) error {
	key := statKey(stat.ContentType, stat.ContentID)
	if existing, ok := f.stats[key]; ok {
		existing.LikesCount = stat.LikesCount
		existing.CommentsCount = stat.CommentsCount
		return nil
	}
	cp := *stat
	f.stats[key] = &cp
	return nil
}

func (f *fakeStatRepo) IncrementViews(_ context.Context, contentType string, contentID uint64) error {
	key := statKey(contentType, contentID)
	if existing, ok := f.stats[key]; ok {
		existing.ViewsCount++
		return nil
	}
	f.stats[key] = &model.ContentStat{ContentType: contentType, ContentID: contentID, ViewsCount: 1}
	return nil
}

func (f *fakeStatRepo) IncrementShares(_ context.Context, contentType string, contentID uint64) error {
	key := statKey(contentType, contentID)
	if existing, ok := f.stats[key]; ok {
		existing.SharesCount++
		return nil
	}
	f.stats[key] = &model.ContentStat{ContentType: contentType, ContentID: contentID, SharesCount: 1}
	return nil
}

func (f *fakeStatRepo) DeleteStat(_ context.Context, contentType string, contentID uint64) error {
	delete(f.stats, statKey(contentType, contentID))
	return nil
}

func (f *fakeStatRepo) ListOrphanStats(_ context.Context, _ int) ([]*model.ContentStat, error) {
	return nil, nil
}

type fakeArticleRepo struct {
	articles map[uint64]*model.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[uint64]*model.Article{}}
}

func (f *fakeArticleRepo) GetArticleById(_ context.Context, id uint64) (*model.Article, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *article
	return &cp, nil
}

func (f *fakeArticleRepo) ListArticles(_ context.Context, _ repository.ArticleQuery) ([]*model.Article, int64, error) {
	return nil, 0, nil
}

func (f *fakeArticleRepo) ListLatestPublished(_ context.Context, keyword string, limit int) ([]*model.Article, error) {
	var matched []*model.Article
	for _, article := range f.articles {
		if !article.Published {
			continue
		}
		if keyword != "" && !strings.Contains(article.Title, keyword) {
			continue
		}
		cp := *article
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeArticleRepo) CountPublished(_ context.Context, keyword string) (int64, error) {
	var total int64
	for _, article := range f.articles {
		if !article.Published {
			continue
		}
		if keyword != "" && !strings.Contains(article.Title, keyword) {
			continue
		}
		total++
	}
	return total, nil
}

func (f *fakeArticleRepo) CreateArticle(_ context.Context, article *model.Article) error {
	cp := *article
	f.articles[article.ID] = &cp
	return nil
}

func (f *fakeArticleRepo) UpdateArticle(_ context.Context, article *model.Article) error {
	cp := *article
	f.articles[article.ID] = &cp
	return nil
}

func (f *fakeArticleRepo) DeleteArticle(_ context.Context, id uint64) (int64, error) {
	if _, ok := f.articles[id]; !ok {
		return 0, nil
	}
	delete(f.articles, id)
	return 1, nil
}

type fakeMediaRepo struct {
	media map[uint64]*model.Media
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{media: map[uint64]*model.Media{}}
}

func (f *fakeMediaRepo) GetMediaById(_ context.Context, id uint64) (*model.Media, error) {
	media, ok := f.media[id]
	if !ok {
		return nil, nil
	}
	cp := *media
	return &cp, nil
}

func (f *fakeMediaRepo) ListMedia(_ context.Context, _ repository.MediaQuery) ([]*model.Media, int64, error) {
	return nil, 0, nil
}

func (f *fakeMediaRepo) ListLatestPublic(_ context.Context, keyword string, limit int) ([]*model.Media, error) {
	var matched []*model.Media
	for _, m := range f.media {
		if !m.IsPublic {
			continue
		}
		if keyword != "" && !strings.Contains(m.Title, keyword) {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeMediaRepo) CountPublic(_ context.Context, keyword string) (int64, error) {
	var total int64
	for _, m := range f.media {
		if !m.IsPublic {
			continue
		}
		if keyword != "" && !strings.Contains(m.Title, keyword) {
			continue
		}
		total++
	}
	return total, nil
}

func (f *fakeMediaRepo) CreateMedia(_ context.Context, media *model.Media) error {
	cp := *media
	f.media[media.ID] = &cp
	return nil
}

func (f *fakeMediaRepo) UpdateMedia(_ context.Context, media *model.Media) error {
	cp := *media
	f.media[media.ID] = &cp
	return nil
}

func (f *fakeMediaRepo) IncrementUsage(_ context.Context, id uint64) error {
	if m, ok := f.media[id]; ok {
		m.UsageCount++
	}
	return nil
}

func (f *fakeMediaRepo) DeleteMedia(_ context.Context, id uint64) (int64, error) {
	if _, ok := f.media[id]; !ok {
		return 0, nil
	}
	delete(f.media, id)
	return 1, nil
}

type fakeUserRepo struct {
	users map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	var result []*model.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			cp := *user
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context, offset, limit int) ([]*model.User, int64, error) {
	all := make([]*model.User, 0, len(f.users))
	for _, user := range f.users {
		cp := *user
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateUserStatus(_ context.Context, id uint64, status string) (int64, error) {
	if user, ok := f.users[id]; ok {
		user.Status = status
		return 1, nil
	}
	return 0, nil
}

func (f *fakeUserRepo) UpdateUserCaps(_ context.Context, _ uint64, _ map[string]bool) error {
	return nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id uint64) error {
	delete(f.users, id)
	return nil
}

type fakeProducer struct {
	events []*kafka.NotificationEvent
}

func (f *fakeProducer) PublishNotification(_ context.Context, event *kafka.NotificationEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeProducer) Close() error {
	return nil
}

type fakeContentRepo struct {
	authorNames map[uint64]string
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{authorNames: map[uint64]string{}}
}

func (f *fakeContentRepo) Search(_ context.Context, _ string, _ string, _, _ int) ([]*es.ContentES, error) {
	return nil, nil
}

func (f *fakeContentRepo) IndexContent(_ context.Context, _ *es.ContentES) error {
	return nil
}

func (f *fakeContentRepo) DeleteContent(_ context.Context, _ string, _ uint64) error {
	return nil
}

func (f *fakeContentRepo) UpdateAuthorName(_ context.Context, authorID uint64, newName string) error {
	f.authorNames[authorID] = newName
	return nil
}

type fakeChatRepo struct {
	messages map[primitive.ObjectID]*mongodb.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{messages: map[primitive.ObjectID]*mongodb.ChatMessage{}}
}

func (f *fakeChatRepo) SaveMessage(_ context.Context, msg *mongodb.ChatMessage) error {
	cp := *msg
	f.messages[msg.ID] = &cp
	return nil
}

func (f *fakeChatRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongodb.ChatMessage, error) {
	msg, ok := f.messages[id]
	if !ok || msg.IsDeleted {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (f *fakeChatRepo) GetHistory(_ context.Context, room string, before time.Time, pageSize int) ([]*mongodb.ChatMessage, error) {
	var result []*mongodb.ChatMessage
	for _, msg := range f.messages {
		if msg.Room != room || msg.IsDeleted {
			continue
		}
		if !before.IsZero() && !msg.CreatedAt.Before(before) {
			continue
		}
		cp := *msg
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if len(result) > pageSize {
		result = result[:pageSize]
	}
	return result, nil
}

func (f *fakeChatRepo) UpdateContent(_ context.Context, id primitive.ObjectID, content string, editedAt time.Time) error {
	if msg, ok := f.messages[id]; ok {
		msg.Content = content
		msg.IsEdited = true
		msg.EditedAt = &editedAt
	}
	return nil
}

func (f *fakeChatRepo) SoftDelete(_ context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	if msg, ok := f.messages[id]; ok {
		msg.IsDeleted = true
		msg.DeletedAt = &deletedAt
	}
	return nil
}

func (f *fakeChatRepo) CountByRoom(_ context.Context, room string) (int64, error) {
	var count int64
	for _, msg := range f.messages {
		if msg.Room == room && !msg.IsDeleted {
			count++
		}
	}
	return count, nil
}
