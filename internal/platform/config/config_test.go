package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != DriverSqlite || cfg.Database.Sqlite.Path != "schafkopf.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Backup.Interval != 6*time.Hour {
		t.Errorf("backup interval = %v", cfg.Backup.Interval)
	}
	if Cfg != cfg {
		t.Error("global Cfg not set")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "server:\n  mode: release\ndatabase:\n  driver: sqlite\n  sqlite:\n    path: runde.db\nbackup:\n  interval: 30m\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AUTH_USERNAME", "kassier")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Server.IsRelease() || cfg.Database.Sqlite.Path != "runde.db" || cfg.Backup.Interval != 30*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Auth.Username != "kassier" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}

func TestLoadConfigRejectsPostgresWithoutDSN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_DRIVER", "postgres")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}
