package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/api"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/game"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/backup"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/config"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/health"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/shutdown"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/startup"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/lifecycle"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("加载配置失败: " + err.Error())
	}
	release := cfg.Server.IsRelease()
	if err := logger.Init(release); err != nil {
		panic("初始化日志失败: " + err.Error())
	}
	defer logger.Sync()
	log := logger.Log

	if err := database.InitDB(cfg.Database, release); err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}
	if err := database.InitRedis(cfg.Database.Redis); err != nil {
		log.Fatal("Redis初始化失败", zap.Error(err))
	}

	signer, err := token.NewRandomSigner()
	if err != nil {
		log.Fatal("生成签名密钥失败", zap.Error(err))
	}

	// 1. 执行应用启动初始化流程
	ctx := context.Background()
	if err := startup.InitializeApplication(ctx); err != nil {
		log.Fatal("应用初始化失败，无法启动", zap.Error(err))
	}

	gracefulManager := lifecycle.NewManager("graceful", log)
	forcefulManager := lifecycle.NewManager("forceful", log)

	// 2. 配置了Redis时启动健康检查器
	if database.RDB != nil {
		checker := health.NewChecker(database.RDB, startup.RebuildCache)
		if err := checker.InitializeRunID(ctx); err != nil {
			log.Fatal("无法在启动时获取Redis Run ID", zap.Error(err))
		}
		checker.PerformCheck(ctx)
		handle, err := gracefulManager.NewServiceHandle("redis-health")
		if err != nil {
			log.Fatal("注册健康检查器失败", zap.Error(err))
		}
		go checker.Run(handle)
	}

	// 3. 定时备份
	if cfg.Backup.Interval > 0 {
		handle, err := gracefulManager.NewServiceHandle("backup")
		if err != nil {
			log.Fatal("注册备份调度器失败", zap.Error(err))
		}
		go backup.StartBackupScheduler(handle, cfg.Backup.Interval, cfg.Backup.Directory)
	}

	if release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	games := game.NewHandler(game.NewService(database.DB, database.RDB, signer))
	if err := api.SetupRoutes(r, cfg.Auth, games); err != nil {
		log.Fatal("注册路由失败", zap.Error(err))
	}

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		log.Info("服务器已准备就绪，开始监听", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)
	coordinator.Finally = func(ctx context.Context) error {
		// 停机前做最后一次备份
		path, err := backup.CreateBackup(ctx, database.DB, cfg.Backup.Directory)
		if errors.Is(err, backup.ErrUnsupported) {
			return nil
		}
		if err == nil {
			log.Info("最终备份成功", zap.String("path", path))
		}
		return err
	}
	coordinator.ListenForSignalsAndShutdown(server)
}
