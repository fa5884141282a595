package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/backup"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/config"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/metadata"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/pterm/pterm"
)

func main() {
	file := flag.String("file", "seed.yaml", "种子文件路径")
	flag.Parse()

	if err := run(*file); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(file string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// 1. 已有SQLite数据库时先备份
	existed := false
	if cfg.Database.Driver == config.DriverSqlite {
		_, statErr := os.Stat(cfg.Database.Sqlite.Path)
		existed = statErr == nil
	}
	if err := database.InitDB(cfg.Database, true); err != nil {
		return err
	}
	if err := metadata.MigrateDB(); err != nil {
		return err
	}
	if existed {
		path, err := backup.CreateBackup(ctx, database.DB, cfg.Backup.Directory)
		if err != nil && !errors.Is(err, backup.ErrUnsupported) {
			return err
		}
		pterm.Info.Printfln("已备份现有数据库到 %s", path)
	}

	// 2. 迁移表结构
	if err := participant.MigrateDB(); err != nil {
		return err
	}
	if err := round.MigrateDB(); err != nil {
		return err
	}

	// 3. 读取并导入种子文件
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	seed, err := loadSeed(f)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("正在导入种子数据...")
	sum, err := apply(ctx, seed)
	if err != nil {
		spinner.Fail("导入失败")
		return err
	}
	spinner.Success("导入完成")

	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"类型", "新建", "已存在"},
		{"Punktekonfiguration", strconv.Itoa(sum.PointsConfigs), "-"},
		{"Teilnehmer", strconv.Itoa(sum.ParticipantsCreated), strconv.Itoa(sum.ParticipantsExisting)},
		{"Runde", strconv.Itoa(sum.RoundsCreated), strconv.Itoa(sum.RoundsExisting)},
	}).Render()
}
