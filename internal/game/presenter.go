package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
)

// Row 是结果表中的一行：名称、细节、数值
type Row struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
	Value  string `json:"value"`
}

// Presentation 是一局Spiel的展示：明细表和每名玩家的消息
type Presentation struct {
	Breakdown []Row    `json:"breakdown"`
	Messages  []string `json:"messages"`
}

// NameFunc 把玩家ID解析为展示名
type NameFunc func(ctx context.Context, id uint) string

// Present 生成结果明细和胜负消息。消息先列赢家再列输家，各自按座位顺序。
func Present(ctx context.Context, cfg scoring.Config, res scoring.Result, name NameFunc) Presentation {
	names := func(ids []uint) string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = name(ctx, id)
		}
		return strings.Join(out, "; ")
	}

	rows := []Row{{Label: "Grundpunkte", Value: formatPoints(float64(res.BasePoints))}}
	if res.Durchmarsch {
		rows = append(rows, Row{Label: "Durchmarsch", Detail: "ja"})
	}
	if res.Schneider {
		rows = append(rows, Row{Label: "Schneider", Detail: "ja", Value: "+" + formatPoints(res.SchneiderPoints)})
	}
	if res.Schwarz {
		rows = append(rows, Row{Label: "Schwarz", Detail: "ja", Value: "+" + formatPoints(res.SchwarzPoints)})
	}
	if res.Laufende > 0 {
		rows = append(rows, Row{Label: "Laufende", Detail: strconv.Itoa(res.Laufende), Value: "+" + formatPoints(res.LaufendePoints)})
	}

	doublings := scoring.Doublings(cfg)
	if ids := doublings[scoring.DoublerGelegt]; len(ids) > 0 {
		rows = append(rows, Row{Label: "Gelegt", Detail: names(ids), Value: multiplier(len(ids))})
	}
	if ids := doublings[scoring.DoublerKontriert]; len(ids) > 0 {
		rows = append(rows, Row{Label: "Kontriert", Detail: names(ids), Value: multiplier(1)})
	}
	if ids := doublings[scoring.DoublerRe]; len(ids) > 0 {
		rows = append(rows, Row{Label: "Re", Detail: names(ids), Value: multiplier(1)})
	}
	if solo, ok := cfg.(scoring.SoloConfig); ok && solo.Tout != scoring.ToutNone {
		rows = append(rows, Row{Label: "Tout", Value: multiplier(1)})
	}
	if ids := doublings[scoring.DoublerJungfrau]; len(ids) > 0 {
		rows = append(rows, Row{Label: "Jungfrau", Detail: names(ids), Value: multiplier(len(ids))})
	}
	rows = append(rows, Row{Label: "Summe", Value: formatPoints(res.Points)})

	// 赢家在前，两组内部都按座位顺序
	seats := scoring.TableOf(cfg).Seats
	var winners, losers []string
	for _, id := range seats {
		v := res.PerPlayer[id]
		switch {
		case v > 0:
			winners = append(winners, fmt.Sprintf("%s gewinnt %s Punkte!", name(ctx, id), formatPoints(v)))
		case v < 0:
			losers = append(losers, fmt.Sprintf("%s verliert %s Punkte!", name(ctx, id), formatPoints(-v)))
		}
	}

	return Presentation{Breakdown: rows, Messages: append(winners, losers...)}
}

func multiplier(n int) string {
	return "x" + strconv.Itoa(1<<n)
}

// formatPoints 去掉多余的小数位，例如 40 而不是 40.000000
func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
