package handler

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/consts"
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

func (s *ChatHandler) SendMessage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.SendChatMessageDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	room := c.DefaultQuery("room", "")
	msg, err := s.chatSvc.SendMessage(c.Request.Context(), userID, room, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *ChatHandler) EditMessage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	messageID := c.Param("id")

	var req dto.EditChatMessageDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	msg, err := s.chatSvc.EditMessage(c.Request.Context(), userID, messageID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *ChatHandler) DeleteMessage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin
	messageID := c.Param("id")

	if err := s.chatSvc.DeleteMessage(c.Request.Context(), userID, isAdmin, messageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetHistory before 传毫秒时间戳，不传取最新一页
func (s *ChatHandler) GetHistory(c *gin.Context) {
	room := c.DefaultQuery("room", "")

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		millis, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		before = time.UnixMilli(millis)
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(consts.DefaultLimit)))
	if err != nil {
		pageSize = consts.DefaultLimit
	}

	history, err := s.chatSvc.GetHistory(c.Request.Context(), room, before, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}
