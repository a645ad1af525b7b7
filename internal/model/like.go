package model

import (
	"time"
)

// TargetType 点赞/评论的多态目标类型
const (
	TargetArticle = "article"
	TargetMedia   = "media"
	TargetComment = "comment"
)

type Like struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_user_target" json:"userId"`
	TargetType string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_target;index:idx_target" json:"targetType"`
	TargetID   uint64    `gorm:"not null;uniqueIndex:idx_user_target;index:idx_target" json:"targetId"`
	IsActive   bool      `gorm:"type:tinyint(1);not null;default:1" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
