package handler

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
)

type EngagementHandler struct {
	engagementSvc service.EngagementService
	statsSvc      service.StatsService
}

func NewEngagementHandler(engagementSvc service.EngagementService, statsSvc service.StatsService) *EngagementHandler {
	return &EngagementHandler{
		engagementSvc: engagementSvc,
		statsSvc:      statsSvc,
	}
}

func (s *EngagementHandler) ToggleLike(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.ToggleLikeDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.engagementSvc.ToggleLike(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *EngagementHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateCommentDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.engagementSvc.CreateComment(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *EngagementHandler) UpdateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateCommentDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.engagementSvc.UpdateComment(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *EngagementHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.engagementSvc.DeleteComment(c.Request.Context(), userID, isAdmin, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *EngagementHandler) ListComments(c *gin.Context) {
	page, limit := parsePagination(c)
	viewerID := c.GetUint64("user_id")
	targetType := c.Param("targetType")
	targetID, err := parseIDParam(c, "targetId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.engagementSvc.ListComments(c.Request.Context(), viewerID, targetType, targetID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *EngagementHandler) ListReplies(c *gin.Context) {
	page, limit := parsePagination(c)
	viewerID := c.GetUint64("user_id")
	parentID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.engagementSvc.ListReplies(c.Request.Context(), viewerID, parentID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *EngagementHandler) ListLikes(c *gin.Context) {
	page, limit := parsePagination(c)
	targetType := c.Param("targetType")
	targetID, err := parseIDParam(c, "targetId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.engagementSvc.ListLikes(c.Request.Context(), targetType, targetID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *EngagementHandler) GetStats(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	targetType := c.Param("targetType")
	targetID, err := parseIDParam(c, "targetId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	stats, err := s.statsSvc.GetStats(c.Request.Context(), targetType, targetID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// RecordShare 分享计数，内容方向不限制重复分享
func (s *EngagementHandler) RecordShare(c *gin.Context) {
	targetType := c.Param("targetType")
	targetID, err := parseIDParam(c, "targetId")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.statsSvc.RecordShare(c.Request.Context(), targetType, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
