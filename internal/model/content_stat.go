package model

import (
	"time"
)

// ContentStat 内容互动计数缓存，按 (content_type, content_id) 唯一。
// 每次点赞/评论变更后全量重算写入，不做增量修改。
type ContentStat struct {
	ID            uint64    `gorm:"primaryKey" json:"-"`
	ContentType   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_content" json:"contentType"`
	ContentID     uint64    `gorm:"not null;uniqueIndex:idx_content" json:"contentId"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"`
	ViewsCount    int64     `gorm:"not null;default:0" json:"viewsCount"`
	SharesCount   int64     `gorm:"not null;default:0" json:"sharesCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (ContentStat) TableName() string {
	return "content_stats"
}
