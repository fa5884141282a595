package database

import (
	"sync"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
)

// statusManager 负责线程安全地记录Redis缓存是否可用。
// 状态由health模块的检查器写入，业务模块只读。
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
}

// 全局的状态管理器实例
var globalStatus = &statusManager{
	isRedisHealthy: true, // 默认启动时是健康的
}

// IsRedisHealthy 返回当前Redis的健康状态。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// SetRedisHealthy 用于线程安全地更新健康状态。
func SetRedisHealthy(isHealthy bool) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	// 只有当状态发生变化时才打印日志
	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			logger.Log.Info("Redis缓存状态已更新为 [可用]")
		} else {
			logger.Log.Warn("Redis缓存状态已更新为 [不可用]，读写将回退到数据库")
		}
	}
}
