package shutdown

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/lifecycle"
	"go.uber.org/zap"
)

const (
	httpTimeout     = 15 * time.Second
	gracefulTimeout = 30 * time.Second
	forcefulTimeout = 1 * time.Second
)

// Coordinator 负责编排应用程序的优雅停机流程。
type Coordinator struct {
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager
	// Finally 在所有后台服务停止后执行，例如最后一次备份。可以为nil。
	Finally func(ctx context.Context) error
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
	}
}

// ListenForSignalsAndShutdown 阻塞直到收到停机信号，然后执行停机流程。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info("收到关闭信号，开始优雅停机...", zap.Stringer("signal", sig))

	c.Shutdown(server)
}

// Shutdown 关闭HTTP服务器并分两阶段停止后台服务。
func (c *Coordinator) Shutdown(server *http.Server) {
	// 关闭HTTP服务器，允许正在进行的请求完成
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Gin服务器关闭错误", zap.Error(err))
	} else {
		logger.Log.Info("Gin服务器已关闭。")
	}

	// --- 阶段一: 优雅停机 ---
	logger.Log.Info("第一阶段停机：等待后台服务完成任务...", zap.Duration("timeout", gracefulTimeout))
	c.GracefulManager.Shutdown()

	remaining := c.GracefulManager.WaitWithTimeout(gracefulTimeout)
	if len(remaining) == 0 {
		logger.Log.Info("所有服务已在第一阶段优雅关闭。")
	} else {
		// --- 阶段二: 强制停机 ---
		logger.Log.Warn("第一阶段超时，发送第二停机信号", zap.Strings("remaining", remaining))
		c.ForcefulManager.Shutdown()
		c.ForcefulManager.WaitWithTimeout(forcefulTimeout)
	}

	// --- 最终步骤 ---
	if c.Finally != nil {
		if err := c.Finally(context.Background()); err != nil {
			logger.Log.Error("停机收尾失败", zap.Error(err))
		}
	}

	logger.Log.Info("优雅停机完成。")
}
