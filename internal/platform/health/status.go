package health

import (
	"sync"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"go.uber.org/zap"
)

// State 定义了缓存健康状态的枚举类型
type State int

const (
	StateHealthy State = iota
	StateDegraded
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "健康"
	case StateDegraded:
		return "降级"
	case StateRebuilding:
		return "重建中"
	}
	return "未知"
}

// statusManager 是缓存健康状态机，线程安全。
type statusManager struct {
	mu             sync.RWMutex
	currentState   State
	lastKnownRunID string
}

func newStatusManager() *statusManager {
	return &statusManager{currentState: StateHealthy}
}

// State 返回当前的状态。
func (sm *statusManager) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// SetInitialRunID 在应用启动时设置初始的Redis run_id。
func (sm *statusManager) SetInitialRunID(runID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastKnownRunID = runID
}

func (sm *statusManager) transition(to State) {
	if sm.currentState == to {
		return
	}
	logger.Log.Info("健康检查: 状态变更",
		zap.Stringer("from", sm.currentState), zap.Stringer("to", to))
	sm.currentState = to
}

// Assess 根据一次检查的结果决定下一个状态，并返回是否需要重建缓存。
func (sm *statusManager) Assess(isCurrentlyConnected bool, newRunID string) (needsRebuild bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	restarted := sm.lastKnownRunID != "" && sm.lastKnownRunID != newRunID

	switch sm.currentState {
	case StateHealthy:
		if !isCurrentlyConnected {
			sm.transition(StateDegraded)
		} else if restarted {
			logger.Log.Warn("健康检查: 检测到Redis重启",
				zap.String("old_run_id", sm.lastKnownRunID), zap.String("new_run_id", newRunID))
			sm.transition(StateRebuilding)
			needsRebuild = true
		}
	case StateDegraded:
		if isCurrentlyConnected {
			// 降级期间的写入只进了数据库，恢复时总要重建
			sm.transition(StateRebuilding)
			needsRebuild = true
		}
	case StateRebuilding:
		if !isCurrentlyConnected {
			sm.transition(StateDegraded)
		} else {
			// 连接正常但仍在重建中，说明上次重建失败了
			needsRebuild = true
		}
	}

	if isCurrentlyConnected {
		sm.lastKnownRunID = newRunID
	}
	return needsRebuild
}

// MarkRebuildComplete 在一次重建尝试之后调用。
func (sm *statusManager) MarkRebuildComplete(success bool, runIDAfterRebuild string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.currentState != StateRebuilding {
		return
	}

	// 重建期间Redis再次重启，重建结果无效
	if success && sm.lastKnownRunID != runIDAfterRebuild {
		logger.Log.Error("健康检查: 缓存重建期间Redis再次重启，保持[重建中]",
			zap.String("old_run_id", sm.lastKnownRunID), zap.String("new_run_id", runIDAfterRebuild))
		sm.lastKnownRunID = runIDAfterRebuild
		return
	}

	if success {
		sm.transition(StateHealthy)
	} else {
		logger.Log.Error("健康检查: 缓存重建失败，保持[重建中]以待重试")
	}
}
