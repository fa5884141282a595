package round

import (
	"context"
	"errors"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound 表示Runde不存在
	ErrNotFound = errors.New("Runde nicht gefunden")
	// ErrUnknownPointsConfig 表示引用的计分表不存在
	ErrUnknownPointsConfig = errors.New("unbekannte Punktekonfiguration")
)

// EnsurePointsConfig 按名称写入计分表，已存在时不做改动
func EnsurePointsConfig(ctx context.Context, pc scoring.PointsConfig) error {
	row := fromScoring(pc)
	err := database.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("写入计分表 %s 失败: %w", pc.Name, err)
	}
	return nil
}

// EnsureDefaultPointsConfig 确保默认计分表存在
func EnsureDefaultPointsConfig(ctx context.Context) error {
	return EnsurePointsConfig(ctx, scoring.DefaultPointsConfig())
}

// PointsConfigs 返回所有计分表
func PointsConfigs(ctx context.Context) ([]PointsConfig, error) {
	var pcs []PointsConfig
	if err := database.DB.WithContext(ctx).Order("name asc").Find(&pcs).Error; err != nil {
		return nil, fmt.Errorf("读取计分表失败: %w", err)
	}
	return pcs, nil
}

// Create 新建一个Runde，pointsConfig为空时使用默认计分表
func Create(ctx context.Context, name, location, pointsConfig string) (Round, error) {
	if pointsConfig == "" {
		pointsConfig = scoring.DefaultPointsConfigName
	}

	var r Round
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pc PointsConfig
		if err := tx.Where("name = ?", pointsConfig).First(&pc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownPointsConfig
			}
			return err
		}
		r = Round{Name: name, Location: location, Active: true, PointsConfigID: pc.ID, PointsConfig: pc}
		return tx.Omit(clause.Associations).Create(&r).Error
	})
	if err != nil {
		if errors.Is(err, ErrUnknownPointsConfig) {
			return Round{}, err
		}
		return Round{}, fmt.Errorf("写入Runde失败: %w", err)
	}
	return r, nil
}

// List 按创建时间返回所有活跃的Runden
func List(ctx context.Context) ([]Round, error) {
	var rs []Round
	err := database.DB.WithContext(ctx).Preload("PointsConfig").
		Where("active = ?", true).Order("created_at asc, id asc").Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("读取Runden失败: %w", err)
	}
	return rs, nil
}

// ByID 读取一个Runde
func ByID(ctx context.Context, id uint) (Round, error) {
	var r Round
	err := database.DB.WithContext(ctx).Preload("PointsConfig").First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Round{}, ErrNotFound
	}
	if err != nil {
		return Round{}, fmt.Errorf("读取Runde %d 失败: %w", id, err)
	}
	return r, nil
}

// PointsConfigByRoundID 返回Runde使用的计分表。Runde或其计分表不存在（含已软删除）时返回scoring.ErrNotFound。
func PointsConfigByRoundID(ctx context.Context, roundID uint) (scoring.PointsConfig, error) {
	r, err := ByID(ctx, roundID)
	if errors.Is(err, ErrNotFound) {
		return scoring.PointsConfig{}, scoring.ErrNotFound
	}
	if err != nil {
		return scoring.PointsConfig{}, err
	}
	// Preload找不到计分表时留下零值，不能当作有效配置
	if r.PointsConfig.ID == 0 {
		return scoring.PointsConfig{}, scoring.ErrNotFound
	}
	return r.PointsConfig.Scoring(), nil
}
