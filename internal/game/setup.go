package game

import (
	"context"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
)

// MigrateDB 负责自动迁移数据库表结构
func MigrateDB() error {
	if err := database.DB.AutoMigrate(&Game{}, &Result{}, &Doubling{}); err != nil {
		return fmt.Errorf("无法迁移game表: %w", err)
	}
	logger.Log.Info("Game数据库表迁移成功。")
	return nil
}

// WarmupCache 从数据库重建提交令牌缓存
func WarmupCache(ctx context.Context) error {
	return RebuildSubmissionCache(ctx, database.DB, database.RDB)
}

// PrimeCachedDB 是game模块的初始化总入口
func PrimeCachedDB(ctx context.Context) error {
	if err := MigrateDB(); err != nil {
		return err
	}
	return WarmupCache(ctx)
}
