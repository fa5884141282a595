package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/config"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RDB 是一个全局的Redis客户端实例。未配置Redis时为nil，所有缓存都会回退到数据库。
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接
func InitRedis(cfg config.RedisConfig) error {
	if cfg.Address == "" {
		logger.Log.Info("未配置Redis，缓存已关闭")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	if err := client.Ping(Ctx).Err(); err != nil {
		return fmt.Errorf("无法连接到Redis: %w", err)
	}

	RDB = client
	logger.Log.Info("Redis 连接成功", zap.String("address", cfg.Address))
	return nil
}

// RedisAvailable 判断缓存是否可用：已配置且健康
func RedisAvailable() bool {
	return RDB != nil && IsRedisHealthy()
}
