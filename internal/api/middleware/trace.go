package middleware

import (
	"Atrium/internal/pkg/logger"
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceMiddleware 透传或生成请求追踪号，写进 gin 键、请求上下文与响应头
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.TraceIDKey, traceID))
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}
