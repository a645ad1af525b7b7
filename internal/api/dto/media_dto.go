package dto

// MediaDTO 媒体详情
type MediaDTO struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	Tags         []string  `json:"tags"`
	IsPublic     bool      `json:"isPublic"`
	UsageCount   int64     `json:"usageCount"`
	UploaderID   uint64    `json:"uploaderId"`
	UploaderName string    `json:"uploaderName"`
	Stats        *StatsDTO `json:"stats,omitempty"`
	CreatedAt    string    `json:"createdAt"`
}

// UpdateMediaDTO 更新媒体元信息
type UpdateMediaDTO struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

// MediaListDTO 媒体分页
type MediaListDTO struct {
	List  []*MediaDTO `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
