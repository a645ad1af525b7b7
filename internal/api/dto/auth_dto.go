package dto

// SendOtpDTO 请求验证码
type SendOtpDTO struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required,oneof=register login"`
}

// RegisterDTO 验证码注册
type RegisterDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// PasswordLoginDTO 密码登录
type PasswordLoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OtpLoginDTO 验证码登录
type OtpLoginDTO struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// TokenDTO 登录成功返回
type TokenDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}
