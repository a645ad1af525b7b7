package logger

import (
	"Atrium/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
)

// LogWriter 供 gin 访问日志复用，远端不可达时退回 stdout
var LogWriter io.Writer

// InitLogger 组装默认 Logger。本地始终输出 JSON 到 stdout，
// Logstash 可连通时同时写远端，远端只收带 trace_id 的记录
func InitLogger() {
	cfg := config.Cfg.Logstash

	local := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})
	LogWriter = os.Stdout

	var root log.Handler = local
	if conn, err := net.Dial("tcp", cfg.Address); err == nil {
		root = &TeeHandler{handlers: []log.Handler{local, remoteHandler(conn, cfg)}}
		LogWriter = conn
	} else {
		log.Warn("Logstash 连接失败，仅输出到 stdout", "addr", cfg.Address, "err", err)
	}

	log.SetDefault(log.New(&TraceHandler{root}))
}

func remoteHandler(conn net.Conn, cfg config.LogstashConfig) log.Handler {
	h := log.NewJSONHandler(conn, &log.HandlerOptions{Level: log.LevelInfo}).
		WithAttrs([]log.Attr{
			log.String("target_index", cfg.Index),
			log.String("log_token", cfg.Token),
		})
	return &RemoteFilterHandler{next: h}
}
