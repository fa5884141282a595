package game

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Game 是一局已录入的Einzelspiel。软删除即为"作废"。
type Game struct {
	gorm.Model
	RoundID     uint  `gorm:"not null;index"`
	AnnouncerID *uint // Ramsch没有叫牌方
	PartnerID   *uint
	DealerID    uint `gorm:"not null"`
	// 四个座位：Ausspieler, Mittelhand, Hinterhand, Geberhand
	LeadID       uint   `gorm:"not null"`
	MiddleID     uint   `gorm:"not null"`
	RearID       uint   `gorm:"not null"`
	DealerHandID uint   `gorm:"not null"`
	Suit         string `gorm:"type:varchar(20)"`
	Laufende     int    `gorm:"not null;default:0"`
	GameType     string `gorm:"type:varchar(20);not null"`
	Schneider    bool   `gorm:"not null;default:false"`
	Schwarz      bool   `gorm:"not null;default:false"`
	Durchmarsch  bool   `gorm:"not null;default:false"`
	Tout         bool   `gorm:"not null;default:false"`
	// Points 是翻倍后一份的分数（Spielpunkte）
	Points float64 `gorm:"not null"`
	// SubmissionToken 保证同一次预览只能写入一次
	SubmissionToken string `gorm:"type:varchar(36);uniqueIndex;not null"`
	RawInput        datatypes.JSON

	Results   []Result
	Doublings []Doubling
}

// Seats 按座位顺序返回四名玩家
func (g Game) Seats() [4]uint {
	return [4]uint{g.LeadID, g.MiddleID, g.RearID, g.DealerHandID}
}

// Result 是某名玩家在一局中的结果 (Resultat)
type Result struct {
	ID            uint    `gorm:"primaryKey"`
	ParticipantID uint    `gorm:"not null;uniqueIndex:idx_result_participant_game"`
	GameID        uint    `gorm:"not null;uniqueIndex:idx_result_participant_game"`
	Eyes          int     `gorm:"not null"`
	Points        float64 `gorm:"not null"`
	Won           bool    `gorm:"not null"`
	CreatedAt     time.Time
}

// Doubling 是一次翻倍事件 (Verdopplung)：gelegt, kontriert, re 或 jungfrau
type Doubling struct {
	ID            uint   `gorm:"primaryKey"`
	ParticipantID uint   `gorm:"not null;uniqueIndex:idx_doubling_participant_game_kind"`
	GameID        uint   `gorm:"not null;uniqueIndex:idx_doubling_participant_game_kind"`
	Kind          string `gorm:"type:varchar(20);not null;uniqueIndex:idx_doubling_participant_game_kind"`
	CreatedAt     time.Time
}
