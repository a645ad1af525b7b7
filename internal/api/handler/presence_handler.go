package handler

import (
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presenceSvc service.PresenceService
}

func NewPresenceHandler(presenceSvc service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceSvc: presenceSvc}
}

// Heartbeat 前端轮询续约，掉线靠 TTL 自然过期
func (s *PresenceHandler) Heartbeat(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.presenceSvc.Heartbeat(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PresenceHandler) Offline(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.presenceSvc.Offline(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PresenceHandler) Online(c *gin.Context) {
	result, err := s.presenceSvc.Online(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
