package handler

import (
	"Atrium/internal/pkg/response"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

// SocialFeed 首页动态流，文章与媒体五五开
func (s *FeedHandler) SocialFeed(c *gin.Context) {
	page, limit := parsePagination(c)
	viewerID := c.GetUint64("user_id")
	search := c.Query("search")

	feed, err := s.feedSvc.SocialFeed(c.Request.Context(), viewerID, page, limit, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// UnifiedFeed 全站内容流，kind 参数可只看文章或只看媒体
func (s *FeedHandler) UnifiedFeed(c *gin.Context) {
	page, limit := parsePagination(c)
	viewerID := c.GetUint64("user_id")
	search := c.Query("search")

	includeArticles, includeMedia := true, true
	switch c.Query("kind") {
	case "article":
		includeMedia = false
	case "media":
		includeArticles = false
	case "":
	default:
		response.Error(c, service.ErrTargetTypeInvalid)
		return
	}

	feed, err := s.feedSvc.UnifiedFeed(c.Request.Context(), viewerID, page, limit, search, includeArticles, includeMedia)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}
