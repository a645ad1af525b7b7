package model

import (
	"time"
)

type Comment struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	Content         string     `gorm:"type:varchar(1000);not null" json:"content"`
	AuthorID        uint64     `gorm:"not null;index:idx_author_id" json:"authorId"`
	TargetType      string     `gorm:"type:varchar(20);not null;index:idx_target" json:"targetType"`
	TargetID        uint64     `gorm:"not null;index:idx_target" json:"targetId"`
	ParentCommentID uint64     `gorm:"not null;default:0;index:idx_parent" json:"parentCommentId"` // 0 表示一级评论
	IsEdited        bool       `gorm:"type:tinyint(1);not null;default:0" json:"isEdited"`
	EditedAt        *time.Time `json:"editedAt,omitempty"`
	IsDeleted       bool       `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
	LikesCount      int        `gorm:"not null;default:0" json:"likesCount"`
	RepliesCount    int        `gorm:"not null;default:0" json:"repliesCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Author User `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
