package model

import (
	"time"
)

type Article struct {
	ID        uint64   `gorm:"primaryKey" json:"id"`
	Title     string   `gorm:"type:varchar(255);not null" json:"title"`
	Content   string   `gorm:"type:mediumtext;not null" json:"content"` // HTML 正文
	Summary   string   `gorm:"type:varchar(1000);not null;default:''" json:"summary"`
	Published bool     `gorm:"type:tinyint(1);not null;default:0;index:idx_published" json:"published"`
	Tags      []string `gorm:"type:json;serializer:json" json:"tags"`
	AuthorID  uint64   `gorm:"not null;index:idx_author_id" json:"authorId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author User `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
}

func (Article) TableName() string {
	return "articles"
}
