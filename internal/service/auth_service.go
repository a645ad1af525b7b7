package service

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/redis"
	"Atrium/internal/pkg/security"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

const (
	otpLength = 6
	otpTTL    = 10 * time.Minute
)

// AuthService 邮箱验证码注册登录
type AuthService interface {
	SendOtp(ctx context.Context, req *dto.SendOtpDTO) error
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error)
	LoginPassword(ctx context.Context, req *dto.PasswordLoginDTO) (*dto.TokenDTO, error)
	LoginOtp(ctx context.Context, req *dto.OtpLoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
}

type authServiceImpl struct {
	userRepo repository.UserRepo
	userSvc  UserService
	mail     *util.MailClient
}

func NewAuthService(userRepo repository.UserRepo, userSvc UserService, mail *util.MailClient) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		userSvc:  userSvc,
		mail:     mail,
	}
}

func otpKey(purpose, email string) string {
	if purpose == "register" {
		return consts.OtpRegisterKey + email
	}
	return consts.OtpLoginKey + email
}

// SendOtp 发送验证码。注册要求邮箱未占用，登录要求邮箱已注册
func (s *authServiceImpl) SendOtp(ctx context.Context, req *dto.SendOtpDTO) error {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	switch req.Purpose {
	case "register":
		if user != nil {
			return ErrUserEmailExist
		}
	case "login":
		if user == nil {
			return ErrUserEmailNotFound
		}
	default:
		return ErrParamInvalid
	}

	code := util.GenerateCode(otpLength)
	if err = redis.SetWithExpiration(ctx, otpKey(req.Purpose, req.Email), code, otpTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("您的验证码为 %s，%d 分钟内有效。", code, int(otpTTL.Minutes()))
	if err = s.mail.Send(ctx, req.Email, "【Atrium】验证码", body); err != nil {
		return err
	}

	log.InfoContext(ctx, "otp sent", "email", req.Email, "purpose", req.Purpose)
	return nil
}

func (s *authServiceImpl) checkOtp(ctx context.Context, purpose, email, code string) error {
	stored, err := redis.GetValue(ctx, otpKey(purpose, email))
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return ErrCodeIncorrect
	}
	_ = redis.DeleteKey(ctx, otpKey(purpose, email))
	return nil
}

// Register 验证码注册，注册成功直接返回登录态
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error) {
	if err := s.checkOtp(ctx, "register", req.Email, req.Code); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserEmailExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:         req.Email,
		Name:          req.Name,
		Password:      hashed,
		AvatarURL:     consts.DefaultAvatarURL,
		Role:          model.RoleUser,
		Status:        model.StatusActive,
		IsVerified:    true,
		NotifyEnabled: true,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if isDuplicateError(err) {
			return nil, ErrUserEmailExist
		}
		return nil, err
	}

	return s.issueToken(user)
}

// LoginPassword 密码登录
func (s *authServiceImpl) LoginPassword(ctx context.Context, req *dto.PasswordLoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserEmailNotFound
	}
	if user.Status == model.StatusBlocked {
		return nil, ErrUserBlocked
	}

	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	return s.issueToken(user)
}

// LoginOtp 验证码登录，顺带补全邮箱验证标记
func (s *authServiceImpl) LoginOtp(ctx context.Context, req *dto.OtpLoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserEmailNotFound
	}
	if user.Status == model.StatusBlocked {
		return nil, ErrUserBlocked
	}

	if err = s.checkOtp(ctx, "login", req.Email, req.Code); err != nil {
		return nil, err
	}

	if !user.IsVerified {
		user.IsVerified = true
		if err = s.userRepo.UpdateUser(ctx, user); err != nil {
			log.WarnContext(ctx, "mark user verified failed", "userID", user.ID, "err", err)
		}
	}

	return s.issueToken(user)
}

// Logout 将当前 token 的签名拉黑到过期为止
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrTokenInvalid
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlockKey+signature, "1", security.JWTExpirationTime)
}

func (s *authServiceImpl) issueToken(user *model.User) (*dto.TokenDTO, error) {
	token, err := security.GenerateToken(user.ID, user.Role, user.CapabilityStrings())
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{
		Token: token,
		User:  s.userSvc.ToUserDTO(user),
	}, nil
}
