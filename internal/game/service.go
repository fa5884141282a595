package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/token"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrMalformed 表示原始输入不是合法的JSON
	ErrMalformed = errors.New("ungültiges Eingabeformat")
	// ErrUnknownVariant 表示路由中的变体未知
	ErrUnknownVariant = errors.New("unbekannte Spielart")
	// ErrNoGames 表示Runde中还没有Spiel
	ErrNoGames = errors.New("Runde hat noch keine Spiele")
)

// Preview 是一次试算的结果，附带提交所需的令牌和签名
type Preview struct {
	Variant scoring.Variant `json:"variant"`
	Result  scoring.Result  `json:"result"`
	Presentation
	Token     string `json:"token"`
	Signature string `json:"signature"`
}

// Seating 是下一局的座位建议
type Seating struct {
	DealerID uint    `json:"dealer_id"`
	SeatIDs  [4]uint `json:"seat_ids"`
}

// Service 串起校验、计分、展示和写入
type Service struct {
	db     *gorm.DB
	lookup scoring.Lookup
	writer *Writer
	signer *token.Signer
}

// NewService 创建Service。rdb可以为nil。
func NewService(db *gorm.DB, rdb *redis.Client, signer *token.Signer) *Service {
	return &Service{db: db, lookup: Lookup{}, writer: NewWriter(db, rdb), signer: signer}
}

// evaluation 是一次校验加计分的中间结果
type evaluation struct {
	raw    any
	digest string
	cfg    scoring.Config
	res    scoring.Result
}

func (s *Service) evaluate(ctx context.Context, variant scoring.Variant, rawJSON []byte) (evaluation, error) {
	switch variant {
	case scoring.VariantRufspiel:
		return evaluateAs(ctx, rawJSON, s.lookup, scoring.ValidateRufspiel)
	case scoring.VariantHochzeit:
		return evaluateAs(ctx, rawJSON, s.lookup, scoring.ValidateHochzeit)
	case scoring.VariantSolo:
		return evaluateAs(ctx, rawJSON, s.lookup, scoring.ValidateSolo)
	case scoring.VariantRamsch:
		return evaluateAs(ctx, rawJSON, s.lookup, scoring.ValidateRamsch)
	}
	return evaluation{}, ErrUnknownVariant
}

func evaluateAs[R any, C scoring.Config](ctx context.Context, rawJSON []byte, lk scoring.Lookup,
	validate func(context.Context, R, scoring.Lookup) (C, error)) (evaluation, error) {
	var raw R
	if err := json.Unmarshal(rawJSON, &raw); err != nil {
		return evaluation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// 摘要基于重新序列化的输入，与客户端的空白和字段顺序无关
	canonical, err := json.Marshal(raw)
	if err != nil {
		return evaluation{}, err
	}
	cfg, err := validate(ctx, raw, lk)
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{raw: raw, digest: token.Digest(canonical), cfg: cfg, res: scoring.Calculate(cfg)}, nil
}

// Preview 校验并计分，但不写入
func (s *Service) Preview(ctx context.Context, variant scoring.Variant, rawJSON []byte) (Preview, error) {
	ev, err := s.evaluate(ctx, variant, rawJSON)
	if err != nil {
		return Preview{}, err
	}

	tok, err := token.NewToken()
	if err != nil {
		return Preview{}, fmt.Errorf("生成提交令牌失败: %w", err)
	}
	sig, err := s.signer.Sign(token.SubmissionPayload{Token: tok, Variant: string(variant), Digest: ev.digest})
	if err != nil {
		return Preview{}, err
	}

	return Preview{
		Variant:      variant,
		Result:       ev.res,
		Presentation: Present(ctx, ev.cfg, ev.res, s.lookup.PlayerName),
		Token:        tok,
		Signature:    sig,
	}, nil
}

// Confirm 重新校验、计分并写入。输入必须与预览时一致。
// 令牌已使用时返回已有Spiel的ID和ErrReplay。
func (s *Service) Confirm(ctx context.Context, variant scoring.Variant, rawJSON []byte, tok, signature string) (uint, error) {
	ev, err := s.evaluate(ctx, variant, rawJSON)
	if err != nil {
		return 0, err
	}
	payload := token.SubmissionPayload{Token: tok, Variant: string(variant), Digest: ev.digest}
	if err := s.signer.Verify(payload, signature); err != nil {
		return 0, err
	}
	return s.writer.Write(ctx, tok, ev.cfg, ev.res, ev.raw)
}

// InactivateLatest 作废最新的一局Spiel
func (s *Service) InactivateLatest(ctx context.Context) (uint, error) {
	return s.writer.InactivateLatest(ctx)
}

// GamesByRound 返回Runde中所有活跃的Spiele及其结果
func (s *Service) GamesByRound(ctx context.Context, roundID uint) ([]Game, error) {
	if _, err := round.ByID(ctx, roundID); err != nil {
		return nil, err
	}
	var games []Game
	err := s.db.WithContext(ctx).Preload("Results").Preload("Doublings").
		Where("round_id = ?", roundID).Order("id asc").Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("读取Runde %d 的Spiele失败: %w", roundID, err)
	}
	return games, nil
}

// NextSeating 根据Runde中最新的一局推算下一局的座位
func (s *Service) NextSeating(ctx context.Context, roundID uint) (Seating, error) {
	if _, err := round.ByID(ctx, roundID); err != nil {
		return Seating{}, err
	}
	var last Game
	err := s.db.WithContext(ctx).Where("round_id = ?", roundID).Order("id desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Seating{}, ErrNoGames
	}
	if err != nil {
		return Seating{}, fmt.Errorf("读取Runde %d 的最新Spiel失败: %w", roundID, err)
	}
	return rotate(last), nil
}

// rotate 让Ausspieler成为新的Geber，其余座位前移一位。
// 上一局的Geber没有上桌时（五人桌）由他坐回Geberhand。
func rotate(last Game) Seating {
	next := Seating{
		DealerID: last.LeadID,
		SeatIDs:  [4]uint{last.MiddleID, last.RearID, last.DealerHandID, last.LeadID},
	}
	if last.DealerID != last.DealerHandID {
		next.SeatIDs[3] = last.DealerID
	}
	return next
}
