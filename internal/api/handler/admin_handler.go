package handler

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 用户管理，仅管理员路由组挂载
type AdminHandler struct {
	userSvc service.UserService
}

func NewAdminHandler(userSvc service.UserService) *AdminHandler {
	return &AdminHandler{userSvc: userSvc}
}

func (s *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := s.userSvc.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *AdminHandler) UpdateStatus(c *gin.Context) {
	operatorID := c.GetUint64("user_id")
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateStatusDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.userSvc.UpdateStatus(c.Request.Context(), operatorID, targetID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdminHandler) UpdateRole(c *gin.Context) {
	operatorID := c.GetUint64("user_id")
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateRoleDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.UpdateRole(c.Request.Context(), operatorID, targetID, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AdminHandler) DeleteUser(c *gin.Context) {
	operatorID := c.GetUint64("user_id")
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.userSvc.DeleteUser(c.Request.Context(), operatorID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdminHandler) Broadcast(c *gin.Context) {
	senderID := c.GetUint64("user_id")
	var req dto.BroadcastDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	delivered, err := s.userSvc.Broadcast(c.Request.Context(), senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BroadcastResultDTO{Delivered: delivered})
}

func (s *AdminHandler) UpdateCaps(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateCapsDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.UpdateCaps(c.Request.Context(), targetID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
