package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Generic Accessors ---

// GetValue 读取一个元数据。键不存在时返回空字符串。
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue 写入或更新一个元数据 (upsert)。
func SetValue(db *gorm.DB, key, value string) error {
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		return err
	}
	mirror(db.Statement.Context, key, value)
	return nil
}

// mirror 把元数据同步到Redis。失败只记录日志，下次重建时会修正。
func mirror(ctx context.Context, key, value string) {
	if !database.RedisAvailable() {
		return
	}
	if ctx == nil {
		ctx = database.Ctx
	}
	if err := database.RDB.HSet(ctx, RedisHashKey, key, value).Err(); err != nil {
		logger.Log.Warn("同步元数据到Redis失败", zap.String("key", key), zap.Error(err))
	}
}

// --- Specific Helpers for Type Conversion ---

// GetTime 读取一个时间类型的元数据。键不存在时返回零值。
func GetTime(db *gorm.DB, key string) (time.Time, error) {
	valueStr, err := GetValue(db, key)
	if err != nil || valueStr == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, valueStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析元数据 '%s' 的值: %w", key, err)
	}
	return t, nil
}

// SetTime 写入一个时间类型的元数据
func SetTime(db *gorm.DB, key string, t time.Time) error {
	return SetValue(db, key, t.UTC().Format(time.RFC3339))
}

// GetLastBackupAt 返回最近一次成功备份的时间
func GetLastBackupAt(db *gorm.DB) (time.Time, error) {
	return GetTime(db, LastBackupAtKey)
}

// SetLastBackupAt 记录一次成功的备份
func SetLastBackupAt(db *gorm.DB, t time.Time) error {
	return SetTime(db, LastBackupAtKey, t)
}
