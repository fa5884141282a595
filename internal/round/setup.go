package round

import (
	"context"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
)

// MigrateDB 负责自动迁移数据库表结构
func MigrateDB() error {
	if err := database.DB.AutoMigrate(&PointsConfig{}, &Round{}); err != nil {
		return fmt.Errorf("无法迁移round表: %w", err)
	}
	logger.Log.Info("Round数据库表迁移成功。")
	return nil
}

// PrimeDB 是round模块的初始化总入口，迁移后写入默认计分表
func PrimeDB(ctx context.Context) error {
	if err := MigrateDB(); err != nil {
		return err
	}
	return EnsureDefaultPointsConfig(ctx)
}
