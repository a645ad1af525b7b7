package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusActive    = "active"
	StatusBlocked   = "blocked"
	StatusSuspended = "suspended"
)

type User struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	Email      string `gorm:"type:varchar(255);not null;uniqueIndex:idx_email" json:"email"`
	Name       string `gorm:"type:varchar(100);not null;default:''" json:"name"`
	Password   string `gorm:"type:varchar(255);not null;default:''" json:"-"`
	AvatarURL  string `gorm:"type:varchar(512);not null;default:''" json:"avatar"`
	Role       string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status     string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	IsVerified bool   `gorm:"type:tinyint(1);not null;default:0" json:"isVerified"`
	// 通知订阅开关
	NotifyEnabled bool `gorm:"type:tinyint(1);not null;default:1" json:"notifyEnabled"`

	// 能力开关，由管理员授予
	CanCreateArticles  bool `gorm:"type:tinyint(1);not null;default:0" json:"canCreateArticles"`
	CanManageEmployees bool `gorm:"type:tinyint(1);not null;default:0" json:"canManageEmployees"`
	CanAccessMedia     bool `gorm:"type:tinyint(1);not null;default:0" json:"canAccessMedia"`
	CanAccessAnalytics bool `gorm:"type:tinyint(1);not null;default:0" json:"canAccessAnalytics"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
