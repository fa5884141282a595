package participant

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Participant 是一名Teilnehmer
type Participant struct {
	gorm.Model
	FirstName string `gorm:"type:varchar(64);not null"`
	LastName  string `gorm:"type:varchar(64);not null"`
	// Name 是展示用的全名 "Nachname, Vorname"，全局唯一
	Name string `gorm:"type:varchar(160);uniqueIndex;not null"`
}

// FullName 按 "Nachname, Vorname" 拼出展示名
func FullName(firstName, lastName string) string {
	return fmt.Sprintf("%s, %s", strings.TrimSpace(lastName), strings.TrimSpace(firstName))
}

// FallbackName 是找不到玩家时使用的占位名
func FallbackName(id uint) string {
	return fmt.Sprintf("#%d", id)
}
