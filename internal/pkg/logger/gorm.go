package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

const gormSlowThreshold = 200 * time.Millisecond

// GormLoggerHook 把 GORM 的日志接到 slog 上，SQL 按首个动词归类
type GormLoggerHook struct {
	level logger.LogLevel
}

func NewGormLogger() *GormLoggerHook {
	return &GormLoggerHook{level: logger.Info}
}

func (s *GormLoggerHook) LogMode(level logger.LogLevel) logger.Interface {
	s.level = level
	return s
}

func (s *GormLoggerHook) Info(ctx context.Context, msg string, data ...interface{}) {
	if s.level >= logger.Info {
		slog.InfoContext(ctx, msg, "data", data)
	}
}

func (s *GormLoggerHook) Warn(ctx context.Context, msg string, data ...interface{}) {
	if s.level >= logger.Warn {
		slog.WarnContext(ctx, msg, "data", data)
	}
}

func (s *GormLoggerHook) Error(ctx context.Context, msg string, data ...interface{}) {
	if s.level >= logger.Error {
		slog.ErrorContext(ctx, msg, "data", data)
	}
}

func (s *GormLoggerHook) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if s.level <= logger.Silent {
		return
	}

	sql, rows := fc()
	cost := time.Since(begin)
	msg := "MySQL " + sqlVerb(sql)

	attrs := []any{
		slog.String("sql", sql),
		slog.Duration("cost", cost),
		slog.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound):
		slog.ErrorContext(ctx, msg+" 执行失败", append(attrs, slog.Any("err", err))...)
	case cost > gormSlowThreshold:
		slog.WarnContext(ctx, msg+" 慢查询", attrs...)
	default:
		slog.InfoContext(ctx, msg, attrs...)
	}
}

// sqlVerb 取语句的首个关键字，单词语句归为 Query
func sqlVerb(sql string) string {
	verb, _, found := strings.Cut(sql, " ")
	if !found || verb == "" {
		return "Query"
	}
	return verb
}
