package logger

import (
	"Atrium/internal/api/config"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupGin 接入访问日志与 panic 恢复。访问日志直接写 LogWriter，
// 格式与 slog 的 JSON 行保持一致方便 Logstash 解析
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		Formatter: accessLogLine,
	}))
	r.Use(gin.Recovery())
}

func accessLogLine(p gin.LogFormatterParams) string {
	var traceID string
	if p.Keys != nil {
		if id, ok := p.Keys[TraceIDKey].(string); ok {
			traceID = id
		}
	}
	if traceID == "" && p.Request != nil {
		if id, ok := p.Request.Context().Value(TraceIDKey).(string); ok {
			traceID = id
		}
	}

	return fmt.Sprintf(
		`{"time":"%s","level":"INFO","msg":"GIN_ACCESS","trace_id":"%s","log_token":"%s","target_index":"%s","method":"%s","path":"%s","status":%d,"client_ip":"%s","latency":"%v"}`+"\n",
		p.TimeStamp.Format(time.RFC3339),
		traceID,
		config.Cfg.Logstash.Token,
		config.Cfg.Logstash.Index,
		p.Method,
		p.Path,
		p.StatusCode,
		p.ClientIP,
		p.Latency,
	)
}
