package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redis 命令慢查询阈值
const redisSlowThreshold = 100 * time.Millisecond

type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

// DialHook 只记录建连失败
func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "redis dial failed",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

// ProcessHook 记录失败命令与慢命令
func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err != nil {
			if ignorableRedisError(cmd.Name(), err) {
				return err
			}
			log.ErrorContext(ctx, "redis command failed",
				log.String("command", cmd.Name()),
				log.String("args", redisArgs(cmd)),
				log.Duration("latency", elapsed),
				log.Any("err", err),
			)
			return err
		}

		if elapsed > redisSlowThreshold {
			log.WarnContext(ctx, "redis slow command",
				log.String("command", cmd.Name()),
				log.String("args", redisArgs(cmd)),
				log.Duration("latency", elapsed),
			)
		}
		return nil
	}
}

// ProcessPipelineHook 管道只在整体失败时记录
func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil {
			log.ErrorContext(ctx, "redis pipeline failed",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return err
	}
}

// ignorableRedisError 过滤预期内的错误：键不存在与旧版本服务端不认识的 setinfo
func ignorableRedisError(cmdName string, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	msg := err.Error()
	if msg == "ERR no such key" {
		return true
	}
	return cmdName == "client" && strings.Contains(msg, "setinfo")
}

// redisArgs 脱敏后的命令参数
func redisArgs(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	return fmt.Sprint(cmd.Args())
}
