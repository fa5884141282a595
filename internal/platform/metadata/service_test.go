package metadata

import (
	"testing"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
)

func setupDB(t *testing.T) {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	if err := MigrateDB(); err != nil {
		t.Fatal(err)
	}
}

func TestValueUpsert(t *testing.T) {
	setupDB(t)

	if v, err := GetValue(database.DB, "missing"); err != nil || v != "" {
		t.Fatalf("GetValue(missing) = %q, %v", v, err)
	}
	if err := SetValue(database.DB, "k", "1"); err != nil {
		t.Fatal(err)
	}
	if err := SetValue(database.DB, "k", "2"); err != nil {
		t.Fatal(err)
	}
	if v, _ := GetValue(database.DB, "k"); v != "2" {
		t.Fatalf("GetValue = %q, want 2", v)
	}
	var count int64
	database.DB.Model(&Metadata{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
}

func TestLastBackupAt(t *testing.T) {
	setupDB(t)

	got, err := GetLastBackupAt(database.DB)
	if err != nil || !got.IsZero() {
		t.Fatalf("GetLastBackupAt = %v, %v", got, err)
	}
	at := time.Date(2024, 11, 3, 18, 30, 0, 0, time.UTC)
	if err := SetLastBackupAt(database.DB, at); err != nil {
		t.Fatal(err)
	}
	got, err = GetLastBackupAt(database.DB)
	if err != nil || !got.Equal(at) {
		t.Fatalf("GetLastBackupAt = %v, %v", got, err)
	}

	if err := SetValue(database.DB, LastBackupAtKey, "gestern"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetLastBackupAt(database.DB); err == nil {
		t.Fatal("expected parse error")
	}
}
