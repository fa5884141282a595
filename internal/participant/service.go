package participant

import (
	"context"
	"errors"
	"strconv"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Name 返回参与者的展示名。顺序：Redis缓存、数据库、占位名。
func Name(ctx context.Context, id uint) string {
	field := strconv.FormatUint(uint64(id), 10)
	if database.RedisAvailable() {
		name, err := database.RDB.HGet(ctx, NamesKey, field).Result()
		if err == nil {
			return name
		}
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("读取参与者名称缓存失败", zap.Uint("participantID", id), zap.Error(err))
		}
	}

	p, err := ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Log.Warn("读取参与者名称失败", zap.Uint("participantID", id), zap.Error(err))
		}
		return FallbackName(id)
	}
	cacheName(ctx, id, p.Name)
	return p.Name
}

// cacheName 把名称写入Redis。失败只记录日志。
func cacheName(ctx context.Context, id uint, name string) {
	if !database.RedisAvailable() {
		return
	}
	field := strconv.FormatUint(uint64(id), 10)
	if err := database.RDB.HSet(ctx, NamesKey, field, name).Err(); err != nil {
		logger.Log.Warn("写入参与者名称缓存失败", zap.Uint("participantID", id), zap.Error(err))
	}
}
