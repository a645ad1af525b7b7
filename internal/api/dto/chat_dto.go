package dto

// SendChatMessageDTO 发送群聊消息
type SendChatMessageDTO struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// EditChatMessageDTO 编辑群聊消息
type EditChatMessageDTO struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// ChatMessageDTO 群聊消息
type ChatMessageDTO struct {
	ID         string `json:"id"`
	Room       string `json:"room"`
	SenderID   uint64 `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	IsEdited   bool   `json:"isEdited"`
	CreatedAt  string `json:"createdAt"`
}

// ChatEventDTO 群聊总线上的广播事件，客户端按 Event 分流处理
type ChatEventDTO struct {
	Event     string          `json:"event"` // message / edited / deleted
	Message   *ChatMessageDTO `json:"message,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Room      string          `json:"room,omitempty"`
}

// ChatHistoryDTO 群聊历史
type ChatHistoryDTO struct {
	List    []*ChatMessageDTO `json:"list"`
	HasMore bool              `json:"hasMore"`
}
