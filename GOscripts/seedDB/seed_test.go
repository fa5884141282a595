package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/metadata"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
)

func TestApplyExampleSeedTwice(t *testing.T) {
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	for _, migrate := range []func() error{metadata.MigrateDB, participant.MigrateDB, round.MigrateDB} {
		if err := migrate(); err != nil {
			t.Fatal(err)
		}
	}

	f, err := os.Open("seed.example.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	seed, err := loadSeed(f)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	first, err := apply(ctx, seed)
	if err != nil {
		t.Fatal(err)
	}
	if first.ParticipantsCreated != 4 || first.RoundsCreated != 2 || first.PointsConfigs != 1 {
		t.Errorf("first run = %+v", first)
	}
	second, err := apply(ctx, seed)
	if err != nil {
		t.Fatal(err)
	}
	if second.ParticipantsExisting != 4 || second.RoundsExisting != 2 || second.RoundsCreated != 0 {
		t.Errorf("second run = %+v", second)
	}

	rounds, _ := round.List(ctx)
	if len(rounds) != 2 || rounds[1].PointsConfig.Name != "kurze_runde" {
		t.Errorf("rounds = %+v", rounds)
	}
	if at, err := metadata.GetTime(db, metadata.LastSeedAtKey); err != nil || at.IsZero() {
		t.Errorf("last seed = %v, %v", at, err)
	}
}

func TestLoadSeedRejectsUnknownFields(t *testing.T) {
	if _, err := loadSeed(strings.NewReader("spieler:\n  - Sepp\n")); err == nil {
		t.Fatal("expected error for unknown field")
	}
}
