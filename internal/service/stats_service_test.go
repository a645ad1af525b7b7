package service

import (
	"Atrium/internal/model"
	"context"
	"errors"
	"testing"
	"time"
)

func newStatsFixture() (*fakeEngagementRepo, *fakeStatRepo, StatsService) {
	engRepo := newFakeEngagementRepo()
	statRepo := newFakeStatRepo()
	return engRepo, statRepo, NewStatsService(statRepo, engRepo)
}

func TestRecomputeFullRecount(t *testing.T) {
	engRepo, statRepo, svc := newStatsFixture()
	ctx := context.Background()

	engRepo.likes[likeKey(1, model.TargetArticle, 10)] = &model.Like{ID: 1, UserID: 1, TargetType: model.TargetArticle, TargetID: 10, IsActive: true}
	engRepo.likes[likeKey(2, model.TargetArticle, 10)] = &model.Like{ID: 2, UserID: 2, TargetType: model.TargetArticle, TargetID: 10, IsActive: true}
	engRepo.likes[likeKey(3, model.TargetArticle, 10)] = &model.Like{ID: 3, UserID: 3, TargetType: model.TargetArticle, TargetID: 10, IsActive: false}
	engRepo.comments[1] = &model.Comment{ID: 1, TargetType: model.TargetArticle, TargetID: 10, Content: "a"}
	engRepo.comments[2] = &model.Comment{ID: 2, TargetType: model.TargetArticle, TargetID: 10, Content: "b", IsDeleted: true}

	// 预置一行脏数据，重算应当覆盖点赞评论但保留浏览分享
	statRepo.stats[statKey(model.TargetArticle, 10)] = &model.ContentStat{
		ContentType: model.TargetArticle,
		ContentID:   10,
		LikesCount:  99,
		ViewsCount:  7,
	}

	if err := svc.Recompute(ctx, model.TargetArticle, 10); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	stat := statRepo.stats[statKey(model.TargetArticle, 10)]
	if stat.LikesCount != 2 {
		t.Errorf("likes = %d, want 2", stat.LikesCount)
	}
	if stat.CommentsCount != 1 {
		t.Errorf("comments = %d, want 1", stat.CommentsCount)
	}
	if stat.ViewsCount != 7 {
		t.Errorf("views = %d, want 7 (preserved)", stat.ViewsCount)
	}
}

func TestRecomputeConverges(t *testing.T) {
	engRepo, statRepo, svc := newStatsFixture()
	ctx := context.Background()

	engRepo.likes[likeKey(1, model.TargetMedia, 5)] = &model.Like{ID: 1, UserID: 1, TargetType: model.TargetMedia, TargetID: 5, IsActive: true}

	for i := 0; i < 3; i++ {
		if err := svc.Recompute(ctx, model.TargetMedia, 5); err != nil {
			t.Fatalf("Recompute #%d: %v", i, err)
		}
	}

	stat := statRepo.stats[statKey(model.TargetMedia, 5)]
	if stat.LikesCount != 1 || stat.CommentsCount != 0 {
		t.Errorf("stat = %+v, want likes=1 comments=0", stat)
	}
}

func TestRecomputeSyncsCommentLikesColumn(t *testing.T) {
	engRepo, _, svc := newStatsFixture()
	ctx := context.Background()

	engRepo.comments[5] = &model.Comment{ID: 5, TargetType: model.TargetArticle, TargetID: 1, Content: "hi"}
	engRepo.likes[likeKey(1, model.TargetComment, 5)] = &model.Like{ID: 1, UserID: 1, TargetType: model.TargetComment, TargetID: 5, IsActive: true}

	if err := svc.Recompute(ctx, model.TargetComment, 5); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if engRepo.comments[5].LikesCount != 1 {
		t.Errorf("comment likes column = %d, want 1", engRepo.comments[5].LikesCount)
	}
}

func TestRecomputeInvalidTargetType(t *testing.T) {
	_, _, svc := newStatsFixture()
	if err := svc.Recompute(context.Background(), "user", 1); !errors.Is(err, ErrTargetTypeInvalid) {
		t.Fatalf("err = %v, want ErrTargetTypeInvalid", err)
	}
}

func TestGetStatsLazyCreate(t *testing.T) {
	_, statRepo, svc := newStatsFixture()
	ctx := context.Background()

	result, err := svc.GetStats(ctx, model.TargetArticle, 42, 0)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if result.LikesCount != 0 || result.CommentsCount != 0 || result.ViewsCount != 0 || result.SharesCount != 0 {
		t.Errorf("result = %+v, want all zero", result)
	}
	if _, ok := statRepo.stats[statKey(model.TargetArticle, 42)]; !ok {
		t.Error("zero row not created on first read")
	}
}

// 缓存行缺失但互动已存在时，首读按实时重算补建而不是落零值
func TestGetStatsLazyCreateRecounts(t *testing.T) {
	engRepo, statRepo, svc := newStatsFixture()
	ctx := context.Background()

	engRepo.likes[likeKey(7, model.TargetArticle, 43)] = &model.Like{ID: 1, UserID: 7, TargetType: model.TargetArticle, TargetID: 43, IsActive: true}
	engRepo.comments[1] = &model.Comment{ID: 1, AuthorID: 7, TargetType: model.TargetArticle, TargetID: 43, Content: "首评"}

	result, err := svc.GetStats(ctx, model.TargetArticle, 43, 0)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if result.LikesCount != 1 || result.CommentsCount != 1 {
		t.Errorf("result = %+v, want likes=1 comments=1 from recount", result)
	}

	row, ok := statRepo.stats[statKey(model.TargetArticle, 43)]
	if !ok {
		t.Fatal("row not created on first read")
	}
	if row.LikesCount != 1 || row.CommentsCount != 1 {
		t.Errorf("persisted row = %+v, want recounted values", row)
	}
}

func TestGetStatsViewerIsLiked(t *testing.T) {
	engRepo, statRepo, svc := newStatsFixture()
	ctx := context.Background()

	statRepo.stats[statKey(model.TargetArticle, 1)] = &model.ContentStat{
		ContentType: model.TargetArticle, ContentID: 1, LikesCount: 3,
	}
	engRepo.likes[likeKey(7, model.TargetArticle, 1)] = &model.Like{ID: 1, UserID: 7, TargetType: model.TargetArticle, TargetID: 1, IsActive: true}

	result, err := svc.GetStats(ctx, model.TargetArticle, 1, 7)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if result.LikesCount != 3 || !result.IsLiked {
		t.Errorf("result = %+v, want likes=3 isLiked=true", result)
	}

	// 未点赞的访客与匿名访客都不带 isLiked
	result, err = svc.GetStats(ctx, model.TargetArticle, 1, 8)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if result.IsLiked {
		t.Error("viewer 8 should not be marked as liked")
	}
}

func TestRecordViewAndShare(t *testing.T) {
	_, statRepo, svc := newStatsFixture()
	ctx := context.Background()

	if err := svc.RecordView(ctx, model.TargetMedia, 3); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := svc.RecordView(ctx, model.TargetMedia, 3); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := svc.RecordShare(ctx, model.TargetMedia, 3); err != nil {
		t.Fatalf("RecordShare: %v", err)
	}

	stat := statRepo.stats[statKey(model.TargetMedia, 3)]
	if stat.ViewsCount != 2 || stat.SharesCount != 1 {
		t.Errorf("stat = %+v, want views=2 shares=1", stat)
	}

	if err := svc.RecordView(ctx, "bogus", 3); !errors.Is(err, ErrTargetTypeInvalid) {
		t.Errorf("err = %v, want ErrTargetTypeInvalid", err)
	}
	if err := svc.RecordShare(ctx, "bogus", 3); !errors.Is(err, ErrTargetTypeInvalid) {
		t.Errorf("err = %v, want ErrTargetTypeInvalid", err)
	}
}

// 锁服务不可用时重算降级为直接覆盖写入，不返回错误
func TestRecomputeWithoutLock(t *testing.T) {
	engRepo, statRepo, svc := newStatsFixture()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	engRepo.likes[likeKey(1, model.TargetArticle, 1)] = &model.Like{ID: 1, UserID: 1, TargetType: model.TargetArticle, TargetID: 1, IsActive: true}

	if err := svc.Recompute(ctx, model.TargetArticle, 1); err != nil {
		t.Fatalf("Recompute should tolerate lock failure: %v", err)
	}
	if statRepo.stats[statKey(model.TargetArticle, 1)].LikesCount != 1 {
		t.Error("stat row not written when lock unavailable")
	}
}
