package dto

// NotificationDTO 站内通知
type NotificationDTO struct {
	ID         string `json:"id"`
	Type       int8   `json:"type"`
	SenderID   uint64 `json:"senderId"`
	TargetType string `json:"targetType"`
	TargetID   uint64 `json:"targetId"`
	Content    string `json:"content"`
	IsRead     bool   `json:"isRead"`
	CreatedAt  string `json:"createdAt"`
}

// NotificationListDTO 通知分页
type NotificationListDTO struct {
	List        []*NotificationDTO `json:"list"`
	UnreadCount int64              `json:"unreadCount"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
}

// PresenceDTO 在线状态
type PresenceDTO struct {
	OnlineCount int      `json:"onlineCount"`
	OnlineNames []string `json:"onlineNames"`
}

// SearchResultDTO 全站搜索结果
type SearchResultDTO struct {
	Kind       string   `json:"kind"`
	ID         uint64   `json:"id"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Tags       []string `json:"tags"`
	AuthorID   uint64   `json:"authorId"`
	AuthorName string   `json:"authorName"`
	CreatedAt  string   `json:"createdAt"`
}

// SearchPageDTO 全站搜索分页
type SearchPageDTO struct {
	List  []*SearchResultDTO `json:"list"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
