package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/kafka"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type engagementFixture struct {
	engRepo     *fakeEngagementRepo
	statRepo    *fakeStatRepo
	articleRepo *fakeArticleRepo
	mediaRepo   *fakeMediaRepo
	userRepo    *fakeUserRepo
	producer    *fakeProducer
	svc         EngagementService
}

// 文章 1 作者 10，媒体 2 上传者 11，普通访客 20
func newEngagementFixture() *engagementFixture {
	f := &engagementFixture{
		engRepo:     newFakeEngagementRepo(),
		statRepo:    newFakeStatRepo(),
		articleRepo: newFakeArticleRepo(),
		mediaRepo:   newFakeMediaRepo(),
		userRepo:    newFakeUserRepo(),
		producer:    &fakeProducer{},
	}

	f.userRepo.users[10] = &model.User{ID: 10, Name: "作者甲", Email: "a@test.local"}
	f.userRepo.users[11] = &model.User{ID: 11, Name: "作者乙", Email: "b@test.local"}
	f.userRepo.users[20] = &model.User{ID: 20, Name: "访客", Email: "c@test.local"}

	f.articleRepo.articles[1] = &model.Article{
		ID: 1, Title: "年度总结", Content: "<p>hello</p>", Published: true,
		AuthorID: 10, CreatedAt: time.Now(),
	}
	f.mediaRepo.media[2] = &model.Media{
		ID: 2, Title: "团建合照", Type: "image", UploadedBy: 11,
		IsPublic: true, CreatedAt: time.Now(),
	}

	statsSvc := NewStatsService(f.statRepo, f.engRepo)
	f.svc = NewEngagementService(f.engRepo, f.articleRepo, f.mediaRepo, f.userRepo, statsSvc, f.producer)
	return f
}

func TestToggleLikeCreateThenFlip(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()
	req := &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}

	result, err := f.svc.ToggleLike(ctx, 20, req)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if result.Action != "liked" || !result.IsLiked || result.LikesCount != 1 {
		t.Errorf("result = %+v, want liked/1", result)
	}
	if stat := f.statRepo.stats[statKey(model.TargetArticle, 1)]; stat == nil || stat.LikesCount != 1 {
		t.Errorf("stat row after like = %+v, want likes=1", stat)
	}

	result, err = f.svc.ToggleLike(ctx, 20, req)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if result.Action != "unliked" || result.IsLiked || result.LikesCount != 0 {
		t.Errorf("result = %+v, want unliked/0", result)
	}
	if stat := f.statRepo.stats[statKey(model.TargetArticle, 1)]; stat.LikesCount != 0 {
		t.Errorf("stat row after unlike = %+v, want likes=0", stat)
	}

	// 点赞行只创建一次，之后只翻转 is_active
	if len(f.engRepo.likes) != 1 {
		t.Errorf("like rows = %d, want 1", len(f.engRepo.likes))
	}
}

func TestToggleLikeTargetMissing(t *testing.T) {
	f := newEngagementFixture()
	_, err := f.svc.ToggleLike(context.Background(), 20, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 99})
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestToggleLikeDuplicateRace(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	// 行已存在但第一次读取落空，插入撞唯一索引后改走翻转
	f.engRepo.likes[likeKey(20, model.TargetArticle, 1)] = &model.Like{
		ID: 1, UserID: 20, TargetType: model.TargetArticle, TargetID: 1, IsActive: true,
	}
	f.engRepo.missLikeReads = 1

	result, err := f.svc.ToggleLike(ctx, 20, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1})
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if result.Action != "unliked" || result.IsLiked {
		t.Errorf("result = %+v, want unliked after racing with an active row", result)
	}
}

func TestToggleLikeNotification(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.ToggleLike(ctx, 20, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if len(f.producer.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.producer.events))
	}
	event := f.producer.events[0]
	if event.Type != kafka.EventLike || event.ReceiverID != 10 || event.SenderName != "访客" {
		t.Errorf("event = %+v, want like event to author 10 from 访客", event)
	}

	// 取消点赞与自己赞自己都不发通知
	if _, err := f.svc.ToggleLike(ctx, 20, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if _, err := f.svc.ToggleLike(ctx, 10, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}); err != nil {
		t.Fatalf("self like: %v", err)
	}
	if len(f.producer.events) != 1 {
		t.Errorf("events = %d, want still 1", len(f.producer.events))
	}
}

func TestCreateCommentValidation(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	_, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{TargetType: model.TargetArticle, TargetID: 1, Content: "   "})
	if !errors.Is(err, ErrCommentEmpty) {
		t.Errorf("blank content err = %v, want ErrCommentEmpty", err)
	}

	_, err = f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: strings.Repeat("字", 1001),
	})
	if !errors.Is(err, ErrCommentTooLong) {
		t.Errorf("long content err = %v, want ErrCommentTooLong", err)
	}

	// 1000 个多字节字符恰好在上限内
	if _, err = f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: strings.Repeat("字", 1000),
	}); err != nil {
		t.Errorf("1000 runes err = %v, want nil", err)
	}
}

func TestCreateCommentAndReply(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	comment, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: " 写得不错 ",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if comment.Content != "写得不错" {
		t.Errorf("content = %q, want trimmed", comment.Content)
	}
	if stat := f.statRepo.stats[statKey(model.TargetArticle, 1)]; stat == nil || stat.CommentsCount != 1 {
		t.Errorf("stat after comment = %+v, want comments=1", stat)
	}

	reply, err := f.svc.CreateComment(ctx, 10, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "谢谢", ParentCommentID: comment.ID,
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ParentCommentID != comment.ID {
		t.Errorf("reply parent = %d, want %d", reply.ParentCommentID, comment.ID)
	}
	if f.engRepo.comments[comment.ID].RepliesCount != 1 {
		t.Errorf("parent replies = %d, want 1", f.engRepo.comments[comment.ID].RepliesCount)
	}
	// 回复计入目标的评论总数
	if stat := f.statRepo.stats[statKey(model.TargetArticle, 1)]; stat.CommentsCount != 2 {
		t.Errorf("stat after reply = %+v, want comments=2", stat)
	}

	// 回复通知楼主
	last := f.producer.events[len(f.producer.events)-1]
	if last.Type != kafka.EventReply || last.ReceiverID != 20 {
		t.Errorf("event = %+v, want reply event to 20", last)
	}
}

func TestCreateReplyParentMismatch(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	comment, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "评论文章",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	// 回复挂到另一个目标下
	_, err = f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetMedia, TargetID: 2, Content: "串楼", ParentCommentID: comment.ID,
	})
	if !errors.Is(err, ErrParentCommentGone) {
		t.Errorf("cross target reply err = %v, want ErrParentCommentGone", err)
	}

	// 父评论已删除
	if err = f.svc.DeleteComment(ctx, 20, false, comment.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	_, err = f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "回复死楼", ParentCommentID: comment.ID,
	})
	if !errors.Is(err, ErrParentCommentGone) {
		t.Errorf("deleted parent err = %v, want ErrParentCommentGone", err)
	}
}

func TestUpdateCommentOnlyAuthor(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	comment, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "原文",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	_, err = f.svc.UpdateComment(ctx, 10, comment.ID, &dto.UpdateCommentDTO{Content: "篡改"})
	if !errors.Is(err, ErrNotCommentAuthor) {
		t.Errorf("err = %v, want ErrNotCommentAuthor", err)
	}

	updated, err := f.svc.UpdateComment(ctx, 20, comment.ID, &dto.UpdateCommentDTO{Content: "改过"})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Content != "改过" || !updated.IsEdited {
		t.Errorf("updated = %+v, want edited content", updated)
	}
}

func TestDeleteComment(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	comment, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "待删",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err = f.svc.DeleteComment(ctx, 11, false, comment.ID); !errors.Is(err, ErrNotCommentAuthor) {
		t.Errorf("other user delete err = %v, want ErrNotCommentAuthor", err)
	}

	// 管理员可删除他人评论
	if err = f.svc.DeleteComment(ctx, 11, true, comment.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if !f.engRepo.comments[comment.ID].IsDeleted {
		t.Error("comment not soft deleted")
	}
	if stat := f.statRepo.stats[statKey(model.TargetArticle, 1)]; stat.CommentsCount != 0 {
		t.Errorf("stat after delete = %+v, want comments=0", stat)
	}

	// 重复删除视为不存在
	if err = f.svc.DeleteComment(ctx, 20, false, comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("double delete err = %v, want ErrCommentNotFound", err)
	}
}

func TestDeleteReplyDecrementsParent(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	parent, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "楼主",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	reply, err := f.svc.CreateComment(ctx, 10, &dto.CreateCommentDTO{
		TargetType: model.TargetArticle, TargetID: 1, Content: "层主", ParentCommentID: parent.ID,
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	if err = f.svc.DeleteComment(ctx, 10, false, reply.ID); err != nil {
		t.Fatalf("delete reply: %v", err)
	}
	if f.engRepo.comments[parent.ID].RepliesCount != 0 {
		t.Errorf("parent replies = %d, want 0", f.engRepo.comments[parent.ID].RepliesCount)
	}
}

func TestListCommentsPagination(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.svc.CreateComment(ctx, 20, &dto.CreateCommentDTO{
			TargetType: model.TargetArticle, TargetID: 1, Content: "评论",
		}); err != nil {
			t.Fatalf("CreateComment #%d: %v", i, err)
		}
	}

	page, err := f.svc.ListComments(ctx, 0, model.TargetArticle, 1, 2, 2)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Total != 5 || len(page.List) != 2 || page.Page != 2 {
		t.Errorf("page = total %d len %d page %d, want 5/2/2", page.Total, len(page.List), page.Page)
	}

	if _, err = f.svc.ListComments(ctx, 0, model.TargetComment, 1, 1, 10); !errors.Is(err, ErrTargetTypeInvalid) {
		t.Errorf("comment target err = %v, want ErrTargetTypeInvalid", err)
	}
}

func TestListLikes(t *testing.T) {
	f := newEngagementFixture()
	ctx := context.Background()

	if _, err := f.svc.ToggleLike(ctx, 20, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if _, err := f.svc.ToggleLike(ctx, 11, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	// 取消的点赞不出现在列表里
	if _, err := f.svc.ToggleLike(ctx, 11, &dto.ToggleLikeDTO{TargetType: model.TargetArticle, TargetID: 1}); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	list, err := f.svc.ListLikes(ctx, model.TargetArticle, 1, 1, 10)
	if err != nil {
		t.Fatalf("ListLikes: %v", err)
	}
	if list.Total != 1 || len(list.List) != 1 || list.List[0].UserID != 20 {
		t.Errorf("list = %+v, want single liker 20", list)
	}

	if _, err = f.svc.ListLikes(ctx, model.TargetArticle, 99, 1, 10); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("missing target err = %v, want ErrTargetNotFound", err)
	}
}

func TestListRepliesParentGone(t *testing.T) {
	f := newEngagementFixture()
	if _, err := f.svc.ListReplies(context.Background(), 0, 77, 1, 10); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("err = %v, want ErrCommentNotFound", err)
	}
}
