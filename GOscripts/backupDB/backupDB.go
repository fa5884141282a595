package main

import (
	"context"
	"os"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/backup"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/config"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/metadata"
	"github.com/pterm/pterm"
)

// 一次性备份当前配置的SQLite数据库
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := database.InitDB(cfg.Database, true); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := metadata.MigrateDB(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	if last, err := metadata.GetLastBackupAt(database.DB); err == nil && !last.IsZero() {
		pterm.Info.Printfln("上次备份时间: %s", last.Local().Format("2006-01-02 15:04:05"))
	}

	spinner, _ := pterm.DefaultSpinner.Start("正在备份数据库...")
	path, err := backup.CreateBackup(context.Background(), database.DB, cfg.Backup.Directory)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success("备份完成: " + path)
}
