package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey 链路追踪号在 gin Keys 与 Context 中共用这个键
const TraceIDKey = "trace_id"

// TraceHandler 在日志记录落盘前补上 ctx 里携带的 trace_id
type TraceHandler struct {
	log.Handler
}

func (s *TraceHandler) Handle(ctx context.Context, r log.Record) error {
	if id := traceIDFrom(ctx); id != "" {
		r.AddAttrs(log.String(TraceIDKey, id))
	}
	return s.Handler.Handle(ctx, r)
}

func traceIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}
