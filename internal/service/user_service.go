package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/es"
	"Atrium/internal/pkg/kafka"
	"Atrium/internal/pkg/minio"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/pkg/security"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserService interface {
	GetUserById(ctx context.Context, id uint64) (*dto.UserDTO, error)
	ListUsers(ctx context.Context, page, limit int) (*dto.UserListDTO, error)
	UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileDTO) (*dto.UserDTO, error)
	UpdatePassword(ctx context.Context, userID uint64, req *dto.UpdatePasswordDTO) error
	UpdateAvatar(ctx context.Context, userID uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.UserDTO, error)
	UpdateStatus(ctx context.Context, operatorID, targetID uint64, status string) error
	UpdateRole(ctx context.Context, operatorID, targetID uint64, role string) (*dto.UserDTO, error)
	UpdateCaps(ctx context.Context, targetID uint64, req *dto.UpdateCapsDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, operatorID, targetID uint64) error
	Broadcast(ctx context.Context, senderID uint64, req *dto.BroadcastDTO) (int, error)
	ToUserDTO(user *model.User) *dto.UserDTO
}

type userServiceImpl struct {
	userRepo    repository.UserRepo
	contentRepo es.ContentRepo
	producer    kafka.EventProducer
	mail        *util.MailClient
}

func NewUserService(userRepo repository.UserRepo, contentRepo es.ContentRepo, producer kafka.EventProducer, mail *util.MailClient) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		contentRepo: contentRepo,
		producer:    producer,
		mail:        mail,
	}
}

func (s *userServiceImpl) GetUserById(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.ToUserDTO(user), nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, page, limit int) (*dto.UserListDTO, error) {
	page, limit = util.NormalizePagination(page, limit)

	users, total, err := s.userRepo.ListUsers(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		list = append(list, s.ToUserDTO(user))
	}
	return &dto.UserListDTO{
		List:  list,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// UpdateProfile 改名后同步搜索索引里的作者快照
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	renamed := false
	if req.Name != nil && *req.Name != user.Name {
		user.Name = *req.Name
		renamed = true
	}
	if req.NotifyEnabled != nil {
		user.NotifyEnabled = *req.NotifyEnabled
	}

	if err = s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	if renamed {
		if err = s.contentRepo.UpdateAuthorName(ctx, userID, user.Name); err != nil {
			log.ErrorContext(ctx, "sync author name to search index failed", "userID", userID, "err", err)
		}
	}
	return s.ToUserDTO(user), nil
}

// UpdatePassword 修改密码需先校验旧密码，成功后发邮件提醒
func (s *userServiceImpl) UpdatePassword(ctx context.Context, userID uint64, req *dto.UpdatePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err = security.CheckPasswordHash(req.OldPassword, user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	hashed, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err = s.userRepo.UpdateUser(ctx, user); err != nil {
		return err
	}

	// 安全提醒走邮件，发送失败不影响修改结果
	body := "您的账户密码刚刚被修改。如非本人操作，请立即联系管理员。"
	if err = s.mail.Send(ctx, user.Email, "【Atrium】密码已修改", body); err != nil {
		log.ErrorContext(ctx, "send password changed mail failed", "userID", userID, "err", err)
	}
	return nil
}

// UpdateAvatar 头像上传，仅接受图片
func (s *userServiceImpl) UpdateAvatar(ctx context.Context, userID uint64, filename string, reader io.Reader, size int64, contentType string) (*dto.UserDTO, error) {
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return nil, ErrFileNotSupported
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	objectKey := fmt.Sprintf("avatars/%s%s", uuid.NewString(), path.Ext(filename))
	if _, err = minio.UploadFile(ctx, objectKey, reader, size, contentType); err != nil {
		return nil, err
	}

	user.AvatarURL = objectKey
	if err = s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.ToUserDTO(user), nil
}

// UpdateStatus 封禁或恢复用户。封禁立即生效，打一个与 token 同寿命的拦截标记
func (s *userServiceImpl) UpdateStatus(ctx context.Context, operatorID, targetID uint64, status string) error {
	if operatorID == targetID {
		return ErrUserBlockSelf
	}

	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.Role == model.RoleAdmin && status == model.StatusBlocked {
		return ErrUserBlockAdmin
	}

	rows, err := s.userRepo.UpdateUserStatus(ctx, targetID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	bannedKey := consts.UserBannedKey + strconv.FormatUint(targetID, 10)
	if status == model.StatusBlocked {
		if err = redis.SetWithExpiration(ctx, bannedKey, "1", security.JWTExpirationTime); err != nil {
			log.ErrorContext(ctx, "set banned flag failed", "userID", targetID, "err", err)
		}
	} else {
		_ = redis.DeleteKey(ctx, bannedKey)
	}
	return nil
}

// UpdateRole 调整用户角色。不允许修改自己的角色，避免管理员把自己降级后失联
func (s *userServiceImpl) UpdateRole(ctx context.Context, operatorID, targetID uint64, role string) (*dto.UserDTO, error) {
	if operatorID == targetID {
		return nil, ErrParamInvalid
	}

	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	target.Role = role
	if err = s.userRepo.UpdateUser(ctx, target); err != nil {
		return nil, err
	}
	return s.ToUserDTO(target), nil
}

// DeleteUser 删除账户。管理员账户需先降级才能删除
func (s *userServiceImpl) DeleteUser(ctx context.Context, operatorID, targetID uint64) error {
	if operatorID == targetID {
		return ErrUserBlockSelf
	}

	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.Role == model.RoleAdmin {
		return ErrUserBlockAdmin
	}

	if err = s.userRepo.DeleteUser(ctx, targetID); err != nil {
		return err
	}

	// 删除后立即拦截存量 token
	bannedKey := consts.UserBannedKey + strconv.FormatUint(targetID, 10)
	if err = redis.SetWithExpiration(ctx, bannedKey, "1", security.JWTExpirationTime); err != nil {
		log.ErrorContext(ctx, "set banned flag failed", "userID", targetID, "err", err)
	}
	return nil
}

// Broadcast 管理员全员公告。逐页投递系统事件，由通知消费者落收件箱并补发邮件
func (s *userServiceImpl) Broadcast(ctx context.Context, senderID uint64, req *dto.BroadcastDTO) (int, error) {
	sender, err := s.userRepo.GetUserById(ctx, senderID)
	if err != nil {
		return 0, err
	}
	if sender == nil {
		return 0, ErrUserNotFound
	}

	const pageSize = 200
	delivered := 0
	for offset := 0; ; offset += pageSize {
		users, _, err := s.userRepo.ListUsers(ctx, offset, pageSize)
		if err != nil {
			return delivered, err
		}
		for _, user := range users {
			if user.ID == senderID || user.Status == model.StatusBlocked {
				continue
			}
			event := &kafka.NotificationEvent{
				Type:       kafka.EventSystem,
				SenderID:   senderID,
				SenderName: sender.Name,
				ReceiverID: user.ID,
				Content:    req.Content,
				CreatedAt:  time.Now(),
			}
			if err = s.producer.PublishNotification(ctx, event); err != nil {
				log.ErrorContext(ctx, "publish broadcast event failed", "receiverID", user.ID, "err", err)
				continue
			}
			delivered++
		}
		if len(users) < pageSize {
			break
		}
	}

	log.InfoContext(ctx, "broadcast delivered", "senderID", senderID, "count", delivered)
	return delivered, nil
}

// UpdateCaps 调整能力开关。已签发 token 里的能力快照直到重新登录才会收窄
func (s *userServiceImpl) UpdateCaps(ctx context.Context, targetID uint64, req *dto.UpdateCapsDTO) (*dto.UserDTO, error) {
	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	caps := map[string]bool{}
	if req.CanCreateArticles != nil {
		caps["can_create_articles"] = *req.CanCreateArticles
	}
	if req.CanManageEmployees != nil {
		caps["can_manage_employees"] = *req.CanManageEmployees
	}
	if req.CanAccessMedia != nil {
		caps["can_access_media"] = *req.CanAccessMedia
	}
	if req.CanAccessAnalytics != nil {
		caps["can_access_analytics"] = *req.CanAccessAnalytics
	}

	if err = s.userRepo.UpdateUserCaps(ctx, targetID, caps); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.ToUserDTO(updated), nil
}

func (s *userServiceImpl) ToUserDTO(user *model.User) *dto.UserDTO {
	if user == nil {
		return nil
	}
	return &dto.UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		AvatarURL:     minio.GetPublicURL(user.AvatarURL),
		Role:          user.Role,
		Status:        user.Status,
		IsVerified:    user.IsVerified,
		NotifyEnabled: user.NotifyEnabled,
		Caps:          user.CapabilityStrings(),
		CreatedAt:     user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
