package es

import (
	"strconv"
	"time"
)

// ContentES 写入 ES 的内容文档，文章与媒体共用一个索引
type ContentES struct {
	ID          uint64    `json:"id"`
	ContentType string    `json:"content_type"` // article / media
	Title       string    `json:"title"`
	Content     string    `json:"content"` // 文章纯文本正文或媒体描述
	Tags        []string  `json:"tags"`
	AuthorID    uint64    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DocID ES 文档主键，避免文章与媒体的自增 ID 相互覆盖
func (c *ContentES) DocID() string {
	return c.ContentType + "-" + strconv.FormatUint(c.ID, 10)
}
