package game

import (
	"context"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// submissionGuard 是提交令牌的两层防重放：Redis Set做快速拦截，数据库唯一约束兜底。
type submissionGuard struct {
	rdb *redis.Client
}

func (g submissionGuard) available() bool {
	return g.rdb != nil && database.IsRedisHealthy()
}

// seen 查询Redis中是否已有该令牌。Redis不可用或出错时返回false，交给数据库判断。
func (g submissionGuard) seen(ctx context.Context, token string) bool {
	if !g.available() {
		return false
	}
	ok, err := g.rdb.SIsMember(ctx, SubmissionsKey, token).Result()
	if err != nil {
		logger.Log.Warn("查询提交令牌缓存失败", zap.Error(err))
		return false
	}
	return ok
}

// remember 在数据库提交成功后记录令牌
func (g submissionGuard) remember(ctx context.Context, token string) {
	if !g.available() {
		return
	}
	if err := g.rdb.SAdd(ctx, SubmissionsKey, token).Err(); err != nil {
		// 数据库中已有记录，下次重建时会补上
		logger.Log.Warn("写入提交令牌缓存失败", zap.String("token", token), zap.Error(err))
	}
}

// RebuildSubmissionCache 从数据库分批重建提交令牌Set，包含已作废的Spiele
func RebuildSubmissionCache(ctx context.Context, db *gorm.DB, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, SubmissionsKey).Err(); err != nil {
		return fmt.Errorf("擦除旧的提交令牌缓存失败: %w", err)
	}

	const batchSize = 10000
	total := 0
	var lastID uint
	for i := 1; ; i++ {
		var batch []Game
		err := db.WithContext(ctx).Unscoped().Select("id", "submission_token").
			Where("id > ?", lastID).Order("id asc").Limit(batchSize).Find(&batch).Error
		if err != nil {
			return fmt.Errorf("分批读取提交令牌失败 (batch %d): %w", i, err)
		}
		if len(batch) == 0 {
			break
		}

		members := make([]any, len(batch))
		for j, g := range batch {
			members[j] = g.SubmissionToken
		}
		if err := rdb.SAdd(ctx, SubmissionsKey, members...).Err(); err != nil {
			return fmt.Errorf("批量写回提交令牌失败 (batch %d): %w", i, err)
		}

		total += len(batch)
		if len(batch) < batchSize {
			break
		}
		lastID = batch[len(batch)-1].ID
	}

	logger.Log.Info("提交令牌缓存重建完成", zap.Int("count", total))
	return nil
}
