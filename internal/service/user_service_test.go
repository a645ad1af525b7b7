package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/kafka"
	"Atrium/internal/pkg/security"
	"Atrium/internal/pkg/util"
	"context"
	"errors"
	"testing"
)

type userFixture struct {
	svc         UserService
	userRepo    *fakeUserRepo
	contentRepo *fakeContentRepo
	producer    *fakeProducer
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		userRepo:    newFakeUserRepo(),
		contentRepo: newFakeContentRepo(),
		producer:    &fakeProducer{},
	}
	f.svc = NewUserService(f.userRepo, f.contentRepo, f.producer, util.NewMailClient())
	return f
}

func TestUpdatePassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	hashed, err := security.HashPassword("old-password-1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	f.userRepo.users[10] = &model.User{ID: 10, Name: "小明", Email: "ming@test.local", Password: hashed}

	// 旧密码错误
	err = f.svc.UpdatePassword(ctx, 10, &dto.UpdatePasswordDTO{OldPassword: "wrong", NewPassword: "new-password-1"})
	if !errors.Is(err, ErrPasswordIncorrect) {
		t.Fatalf("expected ErrPasswordIncorrect, got %v", err)
	}

	// 正确修改
	if err = f.svc.UpdatePassword(ctx, 10, &dto.UpdatePasswordDTO{OldPassword: "old-password-1", NewPassword: "new-password-1"}); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	stored := f.userRepo.users[10]
	if err = security.CheckPasswordHash("new-password-1", stored.Password); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}

	// 未知用户
	if err = f.svc.UpdatePassword(ctx, 99, &dto.UpdatePasswordDTO{OldPassword: "x", NewPassword: "y"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.userRepo.users[1] = &model.User{ID: 1, Name: "管理员", Role: model.RoleAdmin}
	f.userRepo.users[2] = &model.User{ID: 2, Name: "普通用户", Role: model.RoleUser}

	// 不能改自己的角色
	if _, err := f.svc.UpdateRole(ctx, 1, 1, model.RoleUser); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("expected ErrParamInvalid for self role change, got %v", err)
	}

	user, err := f.svc.UpdateRole(ctx, 1, 2, model.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Fatalf("expected role admin, got %q", user.Role)
	}
	if f.userRepo.users[2].Role != model.RoleAdmin {
		t.Fatal("role change not persisted")
	}

	if _, err = f.svc.UpdateRole(ctx, 1, 99, model.RoleUser); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.userRepo.users[1] = &model.User{ID: 1, Name: "管理员甲", Role: model.RoleAdmin}
	f.userRepo.users[2] = &model.User{ID: 2, Name: "管理员乙", Role: model.RoleAdmin}
	f.userRepo.users[3] = &model.User{ID: 3, Name: "普通用户", Role: model.RoleUser}

	if err := f.svc.DeleteUser(ctx, 1, 1); !errors.Is(err, ErrUserBlockSelf) {
		t.Fatalf("expected ErrUserBlockSelf, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, 1, 2); !errors.Is(err, ErrUserBlockAdmin) {
		t.Fatalf("expected ErrUserBlockAdmin, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, 1, 3); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, ok := f.userRepo.users[3]; ok {
		t.Fatal("user not removed")
	}
	if err := f.svc.DeleteUser(ctx, 1, 3); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for double delete, got %v", err)
	}
}

func TestBroadcastSkipsSenderAndBlocked(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.userRepo.users[1] = &model.User{ID: 1, Name: "管理员", Role: model.RoleAdmin, Status: model.StatusActive}
	f.userRepo.users[2] = &model.User{ID: 2, Name: "甲", Status: model.StatusActive}
	f.userRepo.users[3] = &model.User{ID: 3, Name: "乙", Status: model.StatusBlocked}
	f.userRepo.users[4] = &model.User{ID: 4, Name: "丙", Status: model.StatusActive}

	delivered, err := f.svc.Broadcast(ctx, 1, &dto.BroadcastDTO{Content: "系统将于今晚维护"})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}
	if len(f.producer.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(f.producer.events))
	}

	seen := map[uint64]bool{}
	for _, event := range f.producer.events {
		if event.Type != kafka.EventSystem {
			t.Fatalf("expected EventSystem, got %d", event.Type)
		}
		if event.SenderName != "管理员" {
			t.Fatalf("expected sender name snapshot, got %q", event.SenderName)
		}
		if event.Content != "系统将于今晚维护" {
			t.Fatalf("unexpected content %q", event.Content)
		}
		seen[event.ReceiverID] = true
	}
	if !seen[2] || !seen[4] {
		t.Fatalf("expected receivers 2 and 4, got %v", seen)
	}
}

func TestUpdateProfileRenameSyncsIndex(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	f.userRepo.users[10] = &model.User{ID: 10, Name: "旧名字", Email: "ming@test.local"}

	newName := "新名字"
	user, err := f.svc.UpdateProfile(ctx, 10, &dto.UpdateProfileDTO{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.Name != newName {
		t.Fatalf("expected renamed user, got %q", user.Name)
	}
	if f.contentRepo.authorNames[10] != newName {
		t.Fatal("author name not synced to search index")
	}
}
