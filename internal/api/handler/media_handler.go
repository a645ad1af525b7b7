package handler

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/response"
	"Atrium/internal/repository"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

func (s *MediaHandler) Upload(c *gin.Context) {
	uploaderID := c.GetUint64("user_id")

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType := file.Header.Get("Content-Type")
	title := c.PostForm("title")

	media, err := s.mediaSvc.Upload(c.Request.Context(), uploaderID, title, file.Filename, reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, media)
}

func (s *MediaHandler) ListMedia(c *gin.Context) {
	page, limit := parsePagination(c)
	viewerID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	q := repository.MediaQuery{
		Keyword:    c.Query("keyword"),
		Tag:        c.Query("tag"),
		Type:       c.Query("type"),
		OnlyPublic: true,
	}
	// mine=1 查看自己上传的全部媒体
	if c.Query("mine") == "1" && viewerID > 0 {
		q.UploadedBy = viewerID
		q.OnlyPublic = false
	} else if isAdmin && c.Query("all") == "1" {
		q.OnlyPublic = false
	}

	list, err := s.mediaSvc.ListMedia(c.Request.Context(), q, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *MediaHandler) GetMedia(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	media, err := s.mediaSvc.GetMediaById(c.Request.Context(), id, viewerID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, media)
}

func (s *MediaHandler) UpdateMedia(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	operatorID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	var req dto.UpdateMediaDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	media, err := s.mediaSvc.UpdateMedia(c.Request.Context(), id, operatorID, isAdmin, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, media)
}

func (s *MediaHandler) TrackUsage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.mediaSvc.TrackUsage(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MediaHandler) DeleteMedia(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	operatorID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	if err = s.mediaSvc.DeleteMedia(c.Request.Context(), id, operatorID, isAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
