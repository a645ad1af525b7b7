package dto

// UserDTO 对外用户信息，不含密码哈希
type UserDTO struct {
	ID            uint64   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	AvatarURL     string   `json:"avatarUrl"`
	Role          string   `json:"role"`
	Status        string   `json:"status"`
	IsVerified    bool     `json:"isVerified"`
	NotifyEnabled bool     `json:"notifyEnabled"`
	Caps          []string `json:"caps"`
	CreatedAt     string   `json:"createdAt"`
}

// UpdateProfileDTO 用户自助更新资料
type UpdateProfileDTO struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=50"`
	NotifyEnabled *bool   `json:"notifyEnabled"`
}

// UpdatePasswordDTO 用户自助修改密码
type UpdatePasswordDTO struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// UpdateRoleDTO 管理员调整用户角色
type UpdateRoleDTO struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// BroadcastDTO 管理员全员公告
type BroadcastDTO struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// BroadcastResultDTO 公告投递结果
type BroadcastResultDTO struct {
	Delivered int `json:"delivered"`
}

// UpdateCapsDTO 管理员授予或回收能力
type UpdateCapsDTO struct {
	CanCreateArticles  *bool `json:"canCreateArticles"`
	CanManageEmployees *bool `json:"canManageEmployees"`
	CanAccessMedia     *bool `json:"canAccessMedia"`
	CanAccessAnalytics *bool `json:"canAccessAnalytics"`
}

// UpdateStatusDTO 管理员封禁或解封
type UpdateStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=active blocked suspended"`
}

// UserListDTO 用户分页
type UserListDTO struct {
	List  []*UserDTO `json:"list"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
