package metadata

import (
	"context"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
)

// MigrateDB 负责自动迁移metadata表结构
func MigrateDB() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	logger.Log.Info("Metadata数据库表迁移成功。")
	return nil
}

// WarmupCache 把metadata表整体写入Redis
func WarmupCache(ctx context.Context) error {
	if database.RDB == nil {
		return nil
	}
	var metas []Metadata
	if err := database.DB.WithContext(ctx).Find(&metas).Error; err != nil {
		return fmt.Errorf("无法读取元数据: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Del(ctx, RedisHashKey)
	for _, m := range metas {
		pipe.HSet(ctx, RedisHashKey, m.Key, m.Value)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("预热元数据到Redis失败: %w", err)
	}
	return nil
}

// PrimeCachedDB 是metadata模块的初始化总入口
func PrimeCachedDB(ctx context.Context) error {
	if err := MigrateDB(); err != nil {
		return err
	}
	return WarmupCache(ctx)
}
