package participant

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"go.uber.org/zap"
)

// MigrateDB 负责自动迁移数据库表结构
func MigrateDB() error {
	if err := database.DB.AutoMigrate(&Participant{}); err != nil {
		return fmt.Errorf("无法迁移participant表: %w", err)
	}
	logger.Log.Info("Participant数据库表迁移成功。")
	return nil
}

// WarmupCache 从数据库加载所有参与者的名称，并预热到Redis的Hash中
func WarmupCache(ctx context.Context) error {
	if database.RDB == nil {
		return nil
	}

	var ps []Participant
	// 1. 从数据库读取所有参与者的ID和名称
	if err := database.DB.WithContext(ctx).Select("id", "name").Find(&ps).Error; err != nil {
		return fmt.Errorf("无法从数据库读取参与者名称: %w", err)
	}

	// 2. 先清空旧的缓存，再一次性写入
	pipe := database.RDB.TxPipeline()
	pipe.Del(ctx, NamesKey)
	if len(ps) > 0 {
		fields := make(map[string]any, len(ps))
		for _, p := range ps {
			fields[strconv.FormatUint(uint64(p.ID), 10)] = p.Name
		}
		pipe.HSet(ctx, NamesKey, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("预热参与者名称到Redis失败: %w", err)
	}

	logger.Log.Info("参与者名称缓存预热完成", zap.Int("count", len(ps)))
	return nil
}

// PrimeCachedDB 是participant模块的初始化总入口
func PrimeCachedDB(ctx context.Context) error {
	if err := MigrateDB(); err != nil {
		return err
	}
	return WarmupCache(ctx)
}
