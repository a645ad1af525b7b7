package dto

// FeedAuthorDTO 聚合流条目的作者信息
type FeedAuthorDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar"`
	Role      string `json:"role"`
}

// FeedItemDTO 聚合流条目，文章与媒体统一成一种形状，互动计数平铺在条目上
type FeedItemDTO struct {
	Kind         string         `json:"feedType"` // article / media
	ID           uint64         `json:"id"`
	Title        string         `json:"title"`
	Excerpt      string         `json:"excerpt,omitempty"`
	URL          string         `json:"url,omitempty"`
	ThumbnailURL string         `json:"thumbnailUrl,omitempty"`
	MediaType    string         `json:"mediaType,omitempty"`
	Tags         []string       `json:"tags"`
	Author       *FeedAuthorDTO `json:"author"`

	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
	ViewsCount    int64 `json:"viewsCount"`
	SharesCount   int64 `json:"sharesCount"`
	IsLiked       bool  `json:"isLiked"`

	CreatedAt string `json:"createdAt"`
}

// FeedPaginationDTO 聚合流分页信息，total 为可见内容总数
type FeedPaginationDTO struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// FeedPageDTO 聚合流分页
type FeedPageDTO struct {
	Items      []*FeedItemDTO     `json:"items"`
	Pagination *FeedPaginationDTO `json:"pagination"`
}
