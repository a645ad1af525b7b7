package model

import (
	"time"
)

const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeAudio    = "audio"
	MediaTypeDocument = "document"
)

type Media struct {
	ID           uint64   `gorm:"primaryKey" json:"id"`
	Title        string   `gorm:"type:varchar(255);not null" json:"title"`
	Description  string   `gorm:"type:varchar(1000);not null;default:''" json:"description"`
	Filename     string   `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName string   `gorm:"type:varchar(255);not null" json:"originalName"`
	ObjectKey    string   `gorm:"type:varchar(512);not null" json:"url"`
	ThumbnailKey string   `gorm:"type:varchar(512);not null;default:''" json:"thumbnailUrl"`
	MimeType     string   `gorm:"type:varchar(100);not null" json:"mimetype"`
	Size         int64    `gorm:"not null;default:0" json:"size"`
	Type         string   `gorm:"type:varchar(20);not null;index:idx_uploader_type" json:"type"`
	Tags         []string `gorm:"type:json;serializer:json" json:"tags"`
	UploadedBy   uint64   `gorm:"not null;index:idx_uploader_type" json:"uploadedBy"`
	IsPublic     bool     `gorm:"type:tinyint(1);not null;default:1;index:idx_public" json:"isPublic"`
	UsageCount   int      `gorm:"not null;default:0" json:"usageCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Uploader User `gorm:"foreignKey:UploadedBy;references:ID" json:"-"`
}

func (Media) TableName() string {
	return "media"
}
