package health

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/lifecycle"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// Checker 定期检查Redis，在Redis重启或恢复后从数据库重建缓存。
type Checker struct {
	rdb     *redis.Client
	rebuild func(ctx context.Context) error
	status  *statusManager
}

// NewChecker 创建检查器。rebuild负责把数据库中的状态重新写入Redis。
func NewChecker(rdb *redis.Client, rebuild func(ctx context.Context) error) *Checker {
	return &Checker{rdb: rdb, rebuild: rebuild, status: newStatusManager()}
}

// State 返回当前的缓存健康状态
func (c *Checker) State() State {
	return c.status.State()
}

// runID 从Redis服务器信息中提取run_id
func (c *Checker) runID(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	info, err := c.rdb.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", errors.New("无法在Redis INFO中找到run_id")
	}
	return matches[1], nil
}

// InitializeRunID 在应用启动时执行一次，获取并设置初始的run_id。
func (c *Checker) InitializeRunID(ctx context.Context) error {
	runID, err := c.runID(ctx)
	if err != nil {
		return err
	}
	c.status.SetInitialRunID(runID)
	logger.Log.Info("获取初始Redis Run ID成功", zap.String("run_id", runID))
	return nil
}

// PerformCheck 执行一次完整的健康检查和可能的修复操作。
func (c *Checker) PerformCheck(ctx context.Context) {
	runID, err := c.runID(ctx)
	connected := err == nil

	if c.status.Assess(connected, runID) {
		logger.Log.Info("健康检查: 正在触发缓存热重建...")
		rebuildErr := c.rebuild(ctx)
		if rebuildErr != nil {
			logger.Log.Error("健康检查: 缓存热重建失败", zap.Error(rebuildErr))
		}
		after, err := c.runID(ctx)
		c.status.MarkRebuildComplete(rebuildErr == nil && err == nil, after)
	}

	database.SetRedisHealthy(c.status.State() == StateHealthy)
}

// Run 阻塞式地定期执行健康检查，直到收到停机信号。
func (c *Checker) Run(handle *lifecycle.Handle) {
	defer handle.Close()
	logger.Log.Info("Redis健康检查器已启动。")

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			logger.Log.Info("Redis健康检查器已停止。")
			return
		}
		c.PerformCheck(handle.Ctx())
	}
}
