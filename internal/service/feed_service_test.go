package service

import (
	"Atrium/internal/model"
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

type feedFixture struct {
	articleRepo *fakeArticleRepo
	mediaRepo   *fakeMediaRepo
	statRepo    *fakeStatRepo
	engRepo     *fakeEngagementRepo
	svc         FeedService
}

func newFeedFixture() *feedFixture {
	f := &feedFixture{
		articleRepo: newFakeArticleRepo(),
		mediaRepo:   newFakeMediaRepo(),
		statRepo:    newFakeStatRepo(),
		engRepo:     newFakeEngagementRepo(),
	}
	f.svc = NewFeedService(f.articleRepo, f.mediaRepo, f.statRepo, f.engRepo)
	return f
}

func feedTime(minutesAgo int) time.Time {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)
	return base.Add(-time.Duration(minutesAgo) * time.Minute)
}

func (f *feedFixture) addArticle(id uint64, title string, published bool, createdAt time.Time) {
	f.articleRepo.articles[id] = &model.Article{
		ID: id, Title: title, Content: "<p>正文</p>", Published: published,
		AuthorID: 10,
		Author: model.User{
			ID: 10, Name: "作者甲", Email: "a@test.local",
			AvatarURL: "avatars/a.png", Role: model.RoleUser,
		},
		CreatedAt: createdAt,
	}
}

func (f *feedFixture) addMedia(id uint64, title string, public bool, createdAt time.Time) {
	f.mediaRepo.media[id] = &model.Media{
		ID: id, Title: title, Type: "image", ObjectKey: "media/image/x.jpg",
		UploadedBy: 11,
		Uploader: model.User{
			ID: 11, Name: "作者乙", Email: "b@test.local",
			AvatarURL: "avatars/b.png", Role: model.RoleAdmin,
		},
		IsPublic: public, CreatedAt: createdAt,
	}
}

func TestSocialFeedMergeByRecency(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "旧文章", true, feedTime(30))
	f.addArticle(2, "新文章", true, feedTime(10))
	f.addMedia(3, "最新照片", true, feedTime(5))
	f.addMedia(4, "旧照片", true, feedTime(20))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if len(page.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(page.Items))
	}

	wantKinds := []string{model.TargetMedia, model.TargetArticle, model.TargetMedia, model.TargetArticle}
	wantIDs := []uint64{3, 2, 4, 1}
	for i, item := range page.Items {
		if item.Kind != wantKinds[i] || item.ID != wantIDs[i] {
			t.Errorf("items[%d] = %s:%d, want %s:%d", i, item.Kind, item.ID, wantKinds[i], wantIDs[i])
		}
	}
}

func TestFeedTieArticleBeforeMedia(t *testing.T) {
	f := newFeedFixture()
	at := feedTime(10)
	f.addMedia(1, "同时照片", true, at)
	f.addArticle(2, "同时文章", true, at)

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Items[0].Kind != model.TargetArticle || page.Items[1].Kind != model.TargetMedia {
		t.Errorf("tie order = %s,%s, want article first", page.Items[0].Kind, page.Items[1].Kind)
	}
}

func TestFeedHidesUnpublished(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "已发布", true, feedTime(10))
	f.addArticle(2, "草稿", false, feedTime(5))
	f.addMedia(3, "私有照片", false, feedTime(1))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 1 {
		t.Fatalf("items = %+v, want only published article 1", page.Items)
	}
}

func TestFeedPagination(t *testing.T) {
	f := newFeedFixture()
	for i := 1; i <= 5; i++ {
		f.addArticle(uint64(i), "文章", true, feedTime(i))
		f.addMedia(uint64(100+i), "照片", true, feedTime(i*2))
	}

	// 每种配比 0.5，limit 4 时第二页的抓取上界是每种 4 条
	page, err := f.svc.SocialFeed(context.Background(), 0, 2, 4, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if page.Pagination.Page != 2 || page.Pagination.Limit != 4 {
		t.Errorf("page meta = %d/%d, want 2/4", page.Pagination.Page, page.Pagination.Limit)
	}
	if page.Pagination.Total != 10 || page.Pagination.Pages != 3 {
		t.Errorf("totals = %d/%d, want total=10 pages=3", page.Pagination.Total, page.Pagination.Pages)
	}
	if len(page.Items) != 4 {
		t.Errorf("items = %d, want 4", len(page.Items))
	}

	// 第一页与第二页无重叠
	first, err := f.svc.SocialFeed(context.Background(), 0, 1, 4, "")
	if err != nil {
		t.Fatalf("SocialFeed page 1: %v", err)
	}
	seen := map[string]bool{}
	for _, item := range first.Items {
		seen[statKey(item.Kind, item.ID)] = true
	}
	for _, item := range page.Items {
		if seen[statKey(item.Kind, item.ID)] {
			t.Errorf("item %s:%d appears on both pages", item.Kind, item.ID)
		}
	}
}

// 配比不足时不回填另一种内容，页内条数允许小于 limit
func TestFeedUnderFillPreserved(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "唯一文章", true, feedTime(1))
	f.addMedia(2, "唯一照片", true, feedTime(2))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 20, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("items = %d, want 2 without padding", len(page.Items))
	}
}

func TestUnifiedFeedKindFilter(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "文章", true, feedTime(1))
	f.addMedia(2, "照片", true, feedTime(2))

	page, err := f.svc.UnifiedFeed(context.Background(), 0, 1, 10, "", true, false)
	if err != nil {
		t.Fatalf("UnifiedFeed: %v", err)
	}
	for _, item := range page.Items {
		if item.Kind != model.TargetArticle {
			t.Errorf("unexpected kind %s with media excluded", item.Kind)
		}
	}

	page, err = f.svc.UnifiedFeed(context.Background(), 0, 1, 10, "", false, true)
	if err != nil {
		t.Fatalf("UnifiedFeed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Kind != model.TargetMedia {
		t.Errorf("items = %+v, want single media item", page.Items)
	}
}

func TestFeedKeywordFilter(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "年度总结", true, feedTime(1))
	f.addArticle(2, "周报", true, feedTime(2))
	f.addMedia(3, "年度合照", true, feedTime(3))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "年度")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2 matching 年度", len(page.Items))
	}
	for _, item := range page.Items {
		if item.ID == 2 {
			t.Error("item 2 should be filtered out by keyword")
		}
	}
}

func TestFeedAttachStats(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "有数据", true, feedTime(1))
	f.addMedia(2, "无数据", true, feedTime(2))

	f.statRepo.stats[statKey(model.TargetArticle, 1)] = &model.ContentStat{
		ContentType: model.TargetArticle, ContentID: 1,
		LikesCount: 3, CommentsCount: 2, ViewsCount: 40,
	}
	f.engRepo.likes[likeKey(7, model.TargetArticle, 1)] = &model.Like{
		ID: 1, UserID: 7, TargetType: model.TargetArticle, TargetID: 1, IsActive: true,
	}

	page, err := f.svc.SocialFeed(context.Background(), 7, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}

	var articleItem, mediaItem = page.Items[0], page.Items[1]
	if articleItem.LikesCount != 3 || articleItem.CommentsCount != 2 || articleItem.ViewsCount != 40 {
		t.Errorf("article counts = %d/%d/%d, want likes=3 comments=2 views=40",
			articleItem.LikesCount, articleItem.CommentsCount, articleItem.ViewsCount)
	}
	if !articleItem.IsLiked {
		t.Error("viewer 7 should see isLiked on article 1")
	}
	// 缓存行缺失时按零值返回
	if mediaItem.LikesCount != 0 || mediaItem.IsLiked {
		t.Errorf("media counts = %d liked=%v, want zero values", mediaItem.LikesCount, mediaItem.IsLiked)
	}
	// isLiked 走整页批量查询，不应逐条回表
	if f.engRepo.hasActiveLikeCalls != 0 {
		t.Errorf("per-item like lookups = %d, want batched query only", f.engRepo.hasActiveLikeCalls)
	}
}

func TestFeedItemAuthorFields(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "文章", true, feedTime(1))
	f.addMedia(2, "照片", true, feedTime(2))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}

	articleAuthor := page.Items[0].Author
	if articleAuthor == nil {
		t.Fatal("article author missing")
	}
	if articleAuthor.ID != 10 || articleAuthor.Name != "作者甲" ||
		articleAuthor.Email != "a@test.local" || articleAuthor.Role != model.RoleUser {
		t.Errorf("article author = %+v, want id=10 name=作者甲 email=a@test.local role=user", articleAuthor)
	}
	if articleAuthor.AvatarURL != "https://cdn.test.local/atrium/avatars/a.png" {
		t.Errorf("avatar = %q, want public url", articleAuthor.AvatarURL)
	}

	mediaAuthor := page.Items[1].Author
	if mediaAuthor == nil || mediaAuthor.ID != 11 || mediaAuthor.Role != model.RoleAdmin {
		t.Errorf("media author = %+v, want uploader 11 with role admin", mediaAuthor)
	}
}

// 序列化后的条目必须带 author 对象与平铺的互动计数字段
func TestFeedItemWireShape(t *testing.T) {
	f := newFeedFixture()
	f.addArticle(1, "文章", true, feedTime(1))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}

	payload, err := json.Marshal(page.Items[0])
	if err != nil {
		t.Fatalf("marshal item: %v", err)
	}
	var decoded map[string]any
	if err = json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal item: %v", err)
	}
	for _, key := range []string{"id", "feedType", "title", "createdAt", "author",
		"likesCount", "commentsCount", "viewsCount", "isLiked"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("field %q missing from feed item payload", key)
		}
	}
	author, ok := decoded["author"].(map[string]any)
	if !ok {
		t.Fatal("author is not an object")
	}
	for _, key := range []string{"id", "name", "email", "avatar", "role"} {
		if _, ok := author[key]; !ok {
			t.Errorf("field %q missing from author payload", key)
		}
	}
}

func TestFeedMediaURLs(t *testing.T) {
	f := newFeedFixture()
	f.addMedia(1, "照片", true, feedTime(1))

	page, err := f.svc.SocialFeed(context.Background(), 0, 1, 10, "")
	if err != nil {
		t.Fatalf("SocialFeed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	want := "https://cdn.test.local/atrium/media/image/x.jpg"
	if page.Items[0].URL != want {
		t.Errorf("url = %q, want %q", page.Items[0].URL, want)
	}
}
