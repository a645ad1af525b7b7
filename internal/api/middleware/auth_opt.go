package middleware

import (
	"Atrium/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权。游客与校验失败都按匿名放行，
// 匿名请求的 user_id 固定注入 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseBearer(c.GetHeader("Authorization"))
		if claims == nil {
			c.Set("user_id", uint64(0))
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), "user_id", claims.UserID))
		c.Next()
	}
}

// parseBearer 解析 Bearer 头，任何一步失败都按匿名处理
func parseBearer(header string) *security.UserClaims {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil
	}
	return claims
}
