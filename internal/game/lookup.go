package game

import (
	"context"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
)

// Lookup 用数据库和缓存实现scoring.Lookup
type Lookup struct{}

var _ scoring.Lookup = Lookup{}

func (Lookup) PointsConfigByRoundID(ctx context.Context, roundID uint) (scoring.PointsConfig, error) {
	return round.PointsConfigByRoundID(ctx, roundID)
}

func (Lookup) ParticipantExists(ctx context.Context, id uint) (bool, error) {
	return participant.Exists(ctx, id)
}

func (Lookup) PlayerName(ctx context.Context, id uint) string {
	return participant.Name(ctx, id)
}
