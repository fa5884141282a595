package logger

import (
	"log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// Log 是全局的结构化日志实例。Init之前为Nop，测试中无需初始化。
var Log = zap.NewNop()

// Init 按运行模式初始化全局日志
func Init(release bool) error {
	var cfg zap.Config
	if release {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	zap.ReplaceGlobals(l)
	return nil
}

// Sync 在退出前刷新缓冲区
func Sync() {
	_ = Log.Sync()
}

// Gorm 返回一个写入zap的GORM日志器。release模式下只记录慢查询和错误。
func Gorm(release bool) gormlogger.Interface {
	level := gormlogger.Info
	if release {
		level = gormlogger.Warn
	}
	stdLog, err := zap.NewStdLogAt(Log.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		stdLog = log.New(log.Writer(), "\r\n", log.LstdFlags)
	}
	return gormlogger.New(stdLog, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
