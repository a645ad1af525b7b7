package handler

import (
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchSvc service.SearchService
}

func NewSearchHandler(searchSvc service.SearchService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc}
}

func (s *SearchHandler) Search(c *gin.Context) {
	page, limit := parsePagination(c)
	keyword := c.Query("q")
	kind := c.Query("kind")

	result, err := s.searchSvc.Search(c.Request.Context(), keyword, kind, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
