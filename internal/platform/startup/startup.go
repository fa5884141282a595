package startup

import (
	"context"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/game"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/metadata"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
)

// InitializeApplication 是应用启动时执行的总入口：迁移所有表并预热缓存
func InitializeApplication(ctx context.Context) error {
	logger.Log.Info("开始应用初始化...")

	if err := metadata.PrimeCachedDB(ctx); err != nil {
		return err
	}
	if err := participant.PrimeCachedDB(ctx); err != nil {
		return err
	}
	if err := round.PrimeDB(ctx); err != nil {
		return err
	}
	if err := game.PrimeCachedDB(ctx); err != nil {
		return err
	}

	logger.Log.Info("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时从数据库热重建Redis缓存
func RebuildCache(ctx context.Context) error {
	logger.Log.Info("开始缓存热重建...")

	if err := metadata.WarmupCache(ctx); err != nil {
		return err
	}
	if err := participant.WarmupCache(ctx); err != nil {
		return err
	}
	if err := game.WarmupCache(ctx); err != nil {
		return err
	}

	logger.Log.Info("缓存热重建完成。")
	return nil
}
