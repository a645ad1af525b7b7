package service

import (
	"Atrium/internal/model"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newChatFixture() (ChatService, *fakeChatRepo, *fakeUserRepo) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	userRepo.users[10] = &model.User{ID: 10, Name: "小明", Email: "ming@test.local"}
	userRepo.users[11] = &model.User{ID: 11, Name: "小红", Email: "hong@test.local"}
	svc := NewChatService(chatRepo, userRepo)
	return svc, chatRepo, userRepo
}

func TestChatSendMessage(t *testing.T) {
	svc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 10, "", "  大家好  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.Room != "general" {
		t.Fatalf("expected default room general, got %q", msg.Room)
	}
	if msg.Content != "大家好" {
		t.Fatalf("expected trimmed content, got %q", msg.Content)
	}
	if msg.SenderName != "小明" {
		t.Fatalf("expected sender name snapshot, got %q", msg.SenderName)
	}
	if len(chatRepo.messages) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(chatRepo.messages))
	}

	if _, err = svc.SendMessage(ctx, 10, "general", "   "); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("expected ErrParamInvalid for blank content, got %v", err)
	}
	if _, err = svc.SendMessage(ctx, 99, "general", "你好"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown sender, got %v", err)
	}
}

func TestChatEditMessage(t *testing.T) {
	svc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 10, "general", "原始内容")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	edited, err := svc.EditMessage(ctx, 10, msg.ID, "修改后的内容")
	if err != nil {
		t.Fatalf("EditMessage: %v", err)
	}
	if edited.Content != "修改后的内容" {
		t.Fatalf("expected updated content, got %q", edited.Content)
	}
	if !edited.IsEdited {
		t.Fatal("expected isEdited flag after edit")
	}

	// 非发送者不能编辑
	if _, err = svc.EditMessage(ctx, 11, msg.ID, "别人改的"); !errors.Is(err, ErrNotMessageSender) {
		t.Fatalf("expected ErrNotMessageSender, got %v", err)
	}
	// 非法 ID
	if _, err = svc.EditMessage(ctx, 10, "not-an-object-id", "x"); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("expected ErrParamInvalid for bad id, got %v", err)
	}

	for _, stored := range chatRepo.messages {
		if stored.Content != "修改后的内容" {
			t.Fatalf("stored content not updated, got %q", stored.Content)
		}
	}
}

func TestChatDeleteMessage(t *testing.T) {
	svc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 10, "general", "将被删除")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// 非发送者且非管理员不能删除
	if err = svc.DeleteMessage(ctx, 11, false, msg.ID); !errors.Is(err, ErrNotMessageSender) {
		t.Fatalf("expected ErrNotMessageSender, got %v", err)
	}

	// 管理员可以删除他人消息
	if err = svc.DeleteMessage(ctx, 11, true, msg.ID); err != nil {
		t.Fatalf("admin DeleteMessage: %v", err)
	}

	// 软删除后消息视为不存在
	if err = svc.DeleteMessage(ctx, 10, false, msg.ID); !errors.Is(err, ErrChatMessageNotFound) {
		t.Fatalf("expected ErrChatMessageNotFound after delete, got %v", err)
	}
	if _, err = svc.EditMessage(ctx, 10, msg.ID, "复活"); !errors.Is(err, ErrChatMessageNotFound) {
		t.Fatalf("expected ErrChatMessageNotFound on edit after delete, got %v", err)
	}

	count, err := chatRepo.CountByRoom(ctx, "general")
	if err != nil {
		t.Fatalf("CountByRoom: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 visible messages after delete, got %d", count)
	}
}

func TestChatHistoryExcludesDeleted(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	var deletedID string
	for i := 0; i < 3; i++ {
		msg, err := svc.SendMessage(ctx, 10, "general", "消息"+strings.Repeat("!", i+1))
		if err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		if i == 1 {
			deletedID = msg.ID
		}
		// 保证 CreatedAt 单调递增
		time.Sleep(2 * time.Millisecond)
	}
	if err := svc.DeleteMessage(ctx, 10, false, deletedID); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}

	history, err := svc.GetHistory(ctx, "general", time.Time{}, 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history.List) != 2 {
		t.Fatalf("expected 2 messages after delete, got %d", len(history.List))
	}
	for _, item := range history.List {
		if item.ID == deletedID {
			t.Fatal("deleted message leaked into history")
		}
	}
	if history.HasMore {
		t.Fatal("expected hasMore=false for short history")
	}
}
