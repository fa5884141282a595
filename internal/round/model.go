package round

import (
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"gorm.io/gorm"
)

// PointsConfig 是持久化的计分表 (Punkteconfig)
type PointsConfig struct {
	gorm.Model
	Name      string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Rufspiel  int     `gorm:"not null;default:20"`
	Hochzeit  int     `gorm:"not null;default:30"`
	Solo      int     `gorm:"not null;default:50"`
	Ramsch    int     `gorm:"not null;default:20"`
	Laufende  float64 `gorm:"not null;default:10"`
	Schneider float64 `gorm:"not null;default:10"`
	Schwarz   float64 `gorm:"not null;default:10"`
}

// Scoring 转换为计分核心使用的值类型
func (p PointsConfig) Scoring() scoring.PointsConfig {
	return scoring.PointsConfig{
		Name:      p.Name,
		Rufspiel:  p.Rufspiel,
		Hochzeit:  p.Hochzeit,
		Solo:      p.Solo,
		Ramsch:    p.Ramsch,
		Laufende:  p.Laufende,
		Schneider: p.Schneider,
		Schwarz:   p.Schwarz,
	}
}

func fromScoring(pc scoring.PointsConfig) PointsConfig {
	return PointsConfig{
		Name:      pc.Name,
		Rufspiel:  pc.Rufspiel,
		Hochzeit:  pc.Hochzeit,
		Solo:      pc.Solo,
		Ramsch:    pc.Ramsch,
		Laufende:  pc.Laufende,
		Schneider: pc.Schneider,
		Schwarz:   pc.Schwarz,
	}
}

// Round 是一次Runde，例如某晚在某个Wirtshaus的牌局
type Round struct {
	gorm.Model
	Name           string `gorm:"type:varchar(100);not null"`
	Location       string `gorm:"type:varchar(100);not null"`
	Active         bool   `gorm:"not null;default:true;index"`
	PointsConfigID uint   `gorm:"not null"`
	PointsConfig   PointsConfig
}
