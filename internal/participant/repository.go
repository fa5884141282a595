package participant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 表示参与者不存在
	ErrNotFound = errors.New("Teilnehmer nicht gefunden")
	// ErrDuplicate 表示同名参与者已存在
	ErrDuplicate = errors.New("Teilnehmer existiert bereits")
)

// Create 新建一名参与者
func Create(ctx context.Context, firstName, lastName string) (Participant, error) {
	p := Participant{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Name:      FullName(firstName, lastName),
	}
	if err := database.DB.WithContext(ctx).Create(&p).Error; err != nil {
		if database.IsDuplicateKeyError(err) {
			return Participant{}, ErrDuplicate
		}
		return Participant{}, fmt.Errorf("写入参与者失败: %w", err)
	}
	cacheName(ctx, p.ID, p.Name)
	return p, nil
}

// List 按展示名排序返回所有参与者
func List(ctx context.Context) ([]Participant, error) {
	var ps []Participant
	if err := database.DB.WithContext(ctx).Order("name asc").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("读取参与者失败: %w", err)
	}
	return ps, nil
}

// ByID 按ID读取一名参与者
func ByID(ctx context.Context, id uint) (Participant, error) {
	var p Participant
	err := database.DB.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Participant{}, ErrNotFound
	}
	if err != nil {
		return Participant{}, fmt.Errorf("读取参与者 %d 失败: %w", id, err)
	}
	return p, nil
}

// Exists 判断参与者是否存在
func Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := database.DB.WithContext(ctx).Model(&Participant{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("查询参与者 %d 失败: %w", id, err)
	}
	return n > 0, nil
}
