package redis

import (
	"Atrium/internal/api/config"
	"Atrium/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

var Rdb *redis.Client

const redisPingTimeout = 5 * time.Second

// InitRedis 建连并验证连通性，命令日志通过 Hook 接入
func InitRedis(cfg config.RedisConfig) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	client.AddHook(logger.NewRedisLogger())

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	Rdb = client
	log.Info("Redis 连接就绪", "addr", cfg.Addr, "db", cfg.DB)
	return nil
}
