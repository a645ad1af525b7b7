package dto

// ArticleDTO 文章详情
type ArticleDTO struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	Published  bool      `json:"published"`
	Tags       []string  `json:"tags"`
	AuthorID   uint64    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Stats      *StatsDTO `json:"stats,omitempty"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

// SaveArticleDTO 新建或更新文章
type SaveArticleDTO struct {
	Title     string   `json:"title" binding:"required,max=200"`
	Content   string   `json:"content" binding:"required"`
	Summary   string   `json:"summary" binding:"max=500"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

// ArticleListDTO 文章分页
type ArticleListDTO struct {
	List  []*ArticleDTO `json:"list"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
