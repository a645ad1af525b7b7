package middleware

import (
	"Atrium/internal/model"
	"Atrium/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireCapability 检查当前用户是否拥有指定能力，管理员整体放行
func RequireCapability(required model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") == model.RoleAdmin {
			c.Next()
			return
		}

		for _, cap := range c.GetStringSlice("caps") {
			if cap == string(required) {
				c.Next()
				return
			}
		}

		response.Fail(c, response.Forbidden, "权限不足：无权访问该资源")
		c.Abort()
	}
}

// RequireAdmin 仅管理员可访问
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != model.RoleAdmin {
			response.Fail(c, response.Forbidden, "权限不足：无权访问该资源")
			c.Abort()
			return
		}
		c.Next()
	}
}
