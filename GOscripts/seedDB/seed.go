package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/metadata"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"gopkg.in/yaml.v3"
)

// SeedFile 是种子文件的结构
type SeedFile struct {
	PointsConfigs []scoring.PointsConfig `yaml:"points_configs"`
	Participants  []struct {
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
	} `yaml:"participants"`
	Rounds []struct {
		Name         string `yaml:"name"`
		Location     string `yaml:"location"`
		PointsConfig string `yaml:"points_config"`
	} `yaml:"rounds"`
}

// Summary 统计一次导入中新建和跳过的条目
type Summary struct {
	PointsConfigs        int
	ParticipantsCreated  int
	ParticipantsExisting int
	RoundsCreated        int
	RoundsExisting       int
}

func loadSeed(r io.Reader) (SeedFile, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return SeedFile{}, fmt.Errorf("解析种子文件失败: %w", err)
	}
	return seed, nil
}

// apply 导入种子数据。重复执行时已有的参与者和Runden会被跳过。
func apply(ctx context.Context, seed SeedFile) (Summary, error) {
	var sum Summary

	// 1. 计分表，默认计分表总是存在
	if err := round.EnsureDefaultPointsConfig(ctx); err != nil {
		return sum, err
	}
	for _, pc := range seed.PointsConfigs {
		if pc.Name == "" {
			return sum, errors.New("计分表缺少name")
		}
		if err := round.EnsurePointsConfig(ctx, pc); err != nil {
			return sum, err
		}
		sum.PointsConfigs++
	}

	// 2. 参与者
	for _, p := range seed.Participants {
		_, err := participant.Create(ctx, p.FirstName, p.LastName)
		switch {
		case errors.Is(err, participant.ErrDuplicate):
			sum.ParticipantsExisting++
		case err != nil:
			return sum, err
		default:
			sum.ParticipantsCreated++
		}
	}

	// 3. Runden，名称和地点都相同的视为已存在
	existing, err := round.List(ctx)
	if err != nil {
		return sum, err
	}
	for _, r := range seed.Rounds {
		if slices.ContainsFunc(existing, func(e round.Round) bool {
			return e.Name == r.Name && e.Location == r.Location
		}) {
			sum.RoundsExisting++
			continue
		}
		created, err := round.Create(ctx, r.Name, r.Location, r.PointsConfig)
		if err != nil {
			return sum, fmt.Errorf("Runde %q: %w", r.Name, err)
		}
		existing = append(existing, created)
		sum.RoundsCreated++
	}

	if err := metadata.SetTime(database.DB.WithContext(ctx), metadata.LastSeedAtKey, time.Now()); err != nil {
		return sum, err
	}
	return sum, nil
}
