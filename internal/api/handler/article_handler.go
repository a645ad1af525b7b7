package handler

import (
	"Atrium/internal/api/dto"
	"Atrium/internal/model"
	"Atrium/internal/pkg/response"
	"Atrium/internal/repository"
	"Atrium/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleSvc service.ArticleService
}

func NewArticleHandler(articleSvc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleSvc: articleSvc}
}

func (s *ArticleHandler) ListArticles(c *gin.Context) {
	page, limit := parsePagination(c)
	viewerID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	q := repository.ArticleQuery{
		Keyword:       c.Query("keyword"),
		Tag:           c.Query("tag"),
		OnlyPublished: true,
	}
	// mine=1 查看自己的文章，包含草稿
	if c.Query("mine") == "1" && viewerID > 0 {
		q.AuthorID = viewerID
		q.OnlyPublished = false
	} else if isAdmin && c.Query("all") == "1" {
		q.OnlyPublished = false
	}
	if authorID, err := strconv.ParseUint(c.Query("authorId"), 10, 64); err == nil && authorID > 0 {
		q.AuthorID = authorID
	}

	list, err := s.articleSvc.ListArticles(c.Request.Context(), q, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	article, err := s.articleSvc.GetArticleById(c.Request.Context(), id, viewerID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) CreateArticle(c *gin.Context) {
	authorID := c.GetUint64("user_id")
	var req dto.SaveArticleDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	article, err := s.articleSvc.CreateArticle(c.Request.Context(), authorID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	operatorID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	var req dto.SaveArticleDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	article, err := s.articleSvc.UpdateArticle(c.Request.Context(), id, operatorID, isAdmin, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	operatorID := c.GetUint64("user_id")
	isAdmin := c.GetString("role") == model.RoleAdmin

	if err = s.articleSvc.DeleteArticle(c.Request.Context(), id, operatorID, isAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
