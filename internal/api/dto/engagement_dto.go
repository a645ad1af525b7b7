package dto

// ToggleLikeDTO 点赞开关请求
type ToggleLikeDTO struct {
	TargetType string `json:"targetType" binding:"required,oneof=article media comment"`
	TargetID   uint64 `json:"targetId" binding:"required"`
}

// LikeResultDTO 点赞开关结果
type LikeResultDTO struct {
	Action     string `json:"action"` // liked / unliked
	LikesCount int64  `json:"likesCount"`
	IsLiked    bool   `json:"isLiked"`
}

// CreateCommentDTO 发表评论或回复
type CreateCommentDTO struct {
	TargetType      string `json:"targetType" binding:"required,oneof=article media"`
	TargetID        uint64 `json:"targetId" binding:"required"`
	Content         string `json:"content" binding:"required"`
	ParentCommentID uint64 `json:"parentCommentId"`
}

// UpdateCommentDTO 编辑评论
type UpdateCommentDTO struct {
	Content string `json:"content" binding:"required"`
}

// CommentDTO 评论详情
type CommentDTO struct {
	ID              uint64 `json:"id"`
	Content         string `json:"content"`
	AuthorID        uint64 `json:"authorId"`
	AuthorName      string `json:"authorName"`
	AuthorAvatarURL string `json:"authorAvatarUrl"`
	TargetType      string `json:"targetType"`
	TargetID        uint64 `json:"targetId"`
	ParentCommentID uint64 `json:"parentCommentId,omitempty"`
	IsEdited        bool   `json:"isEdited"`
	LikesCount      int64  `json:"likesCount"`
	RepliesCount    int64  `json:"repliesCount"`
	IsLiked         bool   `json:"isLiked"`
	CreatedAt       string `json:"createdAt"`
}

// CommentListDTO 评论分页
type CommentListDTO struct {
	List  []*CommentDTO `json:"list"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// LikerDTO 点赞者摘要
type LikerDTO struct {
	UserID    uint64 `json:"userId"`
	UserName  string `json:"userName"`
	AvatarURL string `json:"avatarUrl"`
	LikedAt   string `json:"likedAt"`
}

// LikerListDTO 点赞者分页
type LikerListDTO struct {
	List  []*LikerDTO `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// StatsDTO 内容互动计数
type StatsDTO struct {
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
	ViewsCount    int64 `json:"viewsCount"`
	SharesCount   int64 `json:"sharesCount"`
	IsLiked       bool  `json:"isLiked"`
}
