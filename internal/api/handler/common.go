package handler

import (
	"Atrium/internal/pkg/consts"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePagination 从查询参数取分页，非法值交给服务层兜底
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(consts.DefaultPage)))
	if err != nil {
		page = consts.DefaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(consts.DefaultLimit)))
	if err != nil {
		limit = consts.DefaultLimit
	}
	return page, limit
}

// parseIDParam 解析路径上的数字 ID
func parseIDParam(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
