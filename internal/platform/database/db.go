package database

import (
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/config"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Dialector 根据配置选择数据库驱动
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSqlite:
		return sqlite.Open(cfg.Sqlite.Path), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.Postgres.DSN), nil
	}
	return nil, fmt.Errorf("不支持的数据库类型: %q", cfg.Driver)
}

// Open 打开一个数据库连接。TranslateError让重复键统一变成gorm.ErrDuplicatedKey。
func Open(dialector gorm.Dialector, release bool) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(release),
		TranslateError: true,
	})
}

// InitDB 初始化数据库连接
func InitDB(cfg config.DatabaseConfig, release bool) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}
	db, err := Open(dialector, release)
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	if cfg.Driver == config.DriverSqlite {
		// SQLite只允许一个写者，避免database is locked
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("获取底层连接失败: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("开启外键约束失败: %w", err)
		}
	}

	DB = db
	logger.Log.Info("数据库连接成功", zap.String("driver", string(cfg.Driver)))
	return nil
}
