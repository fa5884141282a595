package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/logger"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrReplay 表示该提交令牌已经写入过
	ErrReplay = errors.New("Spiel wurde bereits gespeichert")
	// ErrNoActiveGame 表示没有可以作废的Spiel
	ErrNoActiveGame = errors.New("kein aktives Spiel vorhanden")
)

const (
	maxWriteRetry   = 3
	writeRetryDelay = 50 * time.Millisecond
)

// sleepCtx 等待d，ctx先结束时立刻返回ctx的错误
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doublerOrder 固定了写入Verdopplung的顺序
var doublerOrder = []scoring.Doubler{
	scoring.DoublerGelegt, scoring.DoublerKontriert, scoring.DoublerRe, scoring.DoublerJungfrau,
}

// Writer 把一局已计分的Spiel写入数据库
type Writer struct {
	db    *gorm.DB
	guard submissionGuard
}

// NewWriter 创建Writer。rdb可以为nil，此时只依赖数据库唯一约束防重放。
func NewWriter(db *gorm.DB, rdb *redis.Client) *Writer {
	return &Writer{db: db, guard: submissionGuard{rdb: rdb}}
}

// Write 在一个事务中写入Spiel、四条Resultat和所有Verdopplung。
// 令牌已被使用时返回已有Spiel的ID和ErrReplay。
func (w *Writer) Write(ctx context.Context, submissionToken string, cfg scoring.Config, res scoring.Result, raw any) (uint, error) {
	// 1. Redis快速拦截
	if w.guard.seen(ctx, submissionToken) {
		if id, err := w.gameIDByToken(ctx, submissionToken); err == nil {
			return id, ErrReplay
		}
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return 0, fmt.Errorf("无法序列化原始输入: %w", err)
	}

	// 2. 写入数据库，锁冲突时整体重试
	var g Game
	for i := 0; i < maxWriteRetry; i++ {
		g = buildGame(submissionToken, cfg, res, rawJSON)
		err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&g).Error
		})
		if err == nil || !database.IsRetryableError(err) || i == maxWriteRetry-1 {
			break
		}
		if waitErr := sleepCtx(ctx, writeRetryDelay); waitErr != nil {
			err = waitErr
			break
		}
	}
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			id, lookupErr := w.gameIDByToken(ctx, submissionToken)
			if lookupErr != nil {
				return 0, fmt.Errorf("重复提交但无法找到已有Spiel: %w", lookupErr)
			}
			// Redis中缺失，说明缓存曾丢失
			w.guard.remember(ctx, submissionToken)
			return id, ErrReplay
		}
		return 0, fmt.Errorf("写入Spiel失败: %w", err)
	}

	// 3. 数据库提交成功后再写Redis
	w.guard.remember(ctx, submissionToken)
	logger.Log.Info("Spiel已写入",
		zap.Uint("gameID", g.ID), zap.Uint("roundID", g.RoundID), zap.String("gameType", g.GameType))
	return g.ID, nil
}

func (w *Writer) gameIDByToken(ctx context.Context, token string) (uint, error) {
	var g Game
	err := w.db.WithContext(ctx).Unscoped().Select("id").Where("submission_token = ?", token).First(&g).Error
	if err != nil {
		return 0, err
	}
	return g.ID, nil
}

// InactivateLatest 作废所有活跃Runden中最新的一局Spiel，返回其ID
func (w *Writer) InactivateLatest(ctx context.Context) (uint, error) {
	var id uint
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g Game
		err := tx.Model(&Game{}).
			Joins("JOIN rounds ON rounds.id = games.round_id").
			Where("rounds.active = ? AND rounds.deleted_at IS NULL", true).
			Order("games.id desc").First(&g).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveGame
		}
		if err != nil {
			return err
		}
		id = g.ID
		return tx.Delete(&Game{}, g.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrNoActiveGame) {
			return 0, err
		}
		return 0, fmt.Errorf("作废Spiel失败: %w", err)
	}
	logger.Log.Info("Spiel已作废", zap.Uint("gameID", id))
	return id, nil
}

// buildGame 把配置和结果展开为待写入的行
func buildGame(token string, cfg scoring.Config, res scoring.Result, rawJSON []byte) Game {
	t := scoring.TableOf(cfg)
	g := Game{
		RoundID:         t.RoundID,
		DealerID:        t.DealerID,
		LeadID:          t.Seats[0],
		MiddleID:        t.Seats[1],
		RearID:          t.Seats[2],
		DealerHandID:    t.Seats[3],
		Laufende:        res.Laufende,
		GameType:        string(res.GameType),
		Schneider:       res.Schneider,
		Schwarz:         res.Schwarz,
		Durchmarsch:     res.Durchmarsch,
		Points:          res.Points,
		SubmissionToken: token,
		RawInput:        datatypes.JSON(rawJSON),
	}

	switch c := cfg.(type) {
	case scoring.RufspielConfig:
		g.AnnouncerID, g.PartnerID = idPtr(c.AnnouncerID), idPtr(c.PartnerID)
		g.Suit = string(c.Rufsau)
	case scoring.HochzeitConfig:
		g.AnnouncerID, g.PartnerID = idPtr(c.AnnouncerID), idPtr(c.PartnerID)
	case scoring.SoloConfig:
		g.AnnouncerID = idPtr(c.AnnouncerID)
		g.Suit = string(c.Suit)
		g.Tout = c.Tout != scoring.ToutNone
	}

	eyes := eyesBySeat(cfg)
	for i, id := range t.Seats {
		g.Results = append(g.Results, Result{
			ParticipantID: id,
			Eyes:          eyes[i],
			Points:        res.PerPlayer[id],
			Won:           res.Won(id),
		})
	}

	doublings := scoring.Doublings(cfg)
	for _, kind := range doublerOrder {
		for _, id := range doublings[kind] {
			g.Doublings = append(g.Doublings, Doubling{ParticipantID: id, Kind: string(kind)})
		}
	}
	return g
}

// eyesBySeat 返回每个座位的点数。叫牌类变体中同一方的玩家记录同一方的点数。
func eyesBySeat(cfg scoring.Config) [4]int {
	var p scoring.Play
	side := map[uint]bool{}
	switch c := cfg.(type) {
	case scoring.RamschConfig:
		return c.Eyes
	case scoring.RufspielConfig:
		p, side[c.AnnouncerID], side[c.PartnerID] = c.Play, true, true
	case scoring.HochzeitConfig:
		p, side[c.AnnouncerID], side[c.PartnerID] = c.Play, true, true
	case scoring.SoloConfig:
		p, side[c.AnnouncerID] = c.Play, true
	}

	var eyes [4]int
	for i, id := range scoring.TableOf(cfg).Seats {
		if side[id] {
			eyes[i] = p.SpielerAugen
		} else {
			eyes[i] = p.NichtSpielerAugen()
		}
	}
	return eyes
}

func idPtr(id uint) *uint {
	if id == scoring.NoPlayer {
		return nil
	}
	return &id
}
