package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/metadata"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUnsupported 表示当前数据库不支持文件级备份
var ErrUnsupported = errors.New("备份只支持SQLite")

const timestampLayout = "20060102_150405"

var backupMutex sync.Mutex // 避免两次备份写同一个文件

// FileName 返回给定时间的备份文件名
func FileName(at time.Time) string {
	return fmt.Sprintf("schafkopf_%s.db", at.UTC().Format(timestampLayout))
}

// CreateBackup 使用VACUUM INTO把SQLite数据库完整复制到dir中，并记录备份时间。
// 返回备份文件的路径。
func CreateBackup(ctx context.Context, db *gorm.DB, dir string) (string, error) {
	if db.Dialector.Name() != "sqlite" {
		return "", ErrUnsupported
	}

	backupMutex.Lock()
	defer backupMutex.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("无法创建备份目录: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, FileName(now))
	// VACUUM INTO 不接受参数绑定
	quoted := strings.ReplaceAll(path, "'", "''")
	if err := db.WithContext(ctx).Exec(fmt.Sprintf("VACUUM INTO '%s'", quoted)).Error; err != nil {
		return "", fmt.Errorf("执行VACUUM INTO失败: %w", err)
	}

	if err := metadata.SetLastBackupAt(db.WithContext(ctx), now); err != nil {
		return path, fmt.Errorf("更新元数据 LastBackupAt 失败: %w", err)
	}
	return path, nil
}

// StartBackupScheduler 在后台定期执行数据库备份，直到handle被取消。
func StartBackupScheduler(handle *lifecycle.Handle, interval time.Duration, dir string) {
	defer handle.Close() // 确保在退出时通知管理器

	if database.DB.Dialector.Name() != "sqlite" {
		logger.Log.Info("备份调度器: 当前数据库不是SQLite，调度器不启动。")
		return
	}
	logger.Log.Info("备份调度器已启动。", zap.Duration("interval", interval), zap.String("dir", dir))

	for {
		// 可中断的休眠，收到停机信号时立刻退出
		if err := handle.Sleep(interval); err != nil {
			logger.Log.Info("备份调度器: 休眠被中断，正在关闭...")
			return
		}

		path, err := CreateBackup(handle.Ctx(), database.DB, dir)
		if err != nil {
			// 如果错误是由于停机信号导致的，则静默退出
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				logger.Log.Error("备份调度器: 备份失败", zap.Error(err))
			}
			continue
		}
		logger.Log.Info("备份调度器: 备份成功。", zap.String("path", path))
	}
}
