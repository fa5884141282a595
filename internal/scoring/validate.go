package scoring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrNotFound 由Lookup返回，表示查询的对象不存在
var ErrNotFound = errors.New("scoring: not found")

// Lookup 是校验时需要的外部查询
type Lookup interface {
	// PointsConfigByRoundID 返回一局的计分表，不存在时返回 ErrNotFound
	PointsConfigByRoundID(ctx context.Context, roundID uint) (PointsConfig, error)
	// ParticipantExists 判断参与者是否已登记
	ParticipantExists(ctx context.Context, id uint) (bool, error)
	// PlayerName 返回玩家名称，只用于拼装提示信息
	PlayerName(ctx context.Context, id uint) string
}

// ValidationError 汇总了一次校验中发现的全部问题
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "ungültige Eingabe: " + strings.Join(e.Messages, " ")
}

var (
	laufendeNormal    = []int{0, 3, 4, 5, 6, 7, 8}
	laufendeTrumpOnly = []int{0, 2, 3, 4}
)

// checker 在一次校验调用内收集提示信息
type checker struct {
	ctx  context.Context
	lk   Lookup
	msgs []string
}

func newChecker(ctx context.Context, lk Lookup) *checker {
	return &checker{ctx: ctx, lk: lk}
}

func (c *checker) fail(format string, args ...any) {
	c.msgs = append(c.msgs, fmt.Sprintf(format, args...))
}

func (c *checker) name(id uint) string {
	return c.lk.PlayerName(c.ctx, id)
}

func (c *checker) names(ids []uint) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = c.name(id)
	}
	// 名称本身是 "Nachname, Vorname"，所以用分号分隔
	return strings.Join(out, "; ")
}

// result 在没有任何提示时返回nil
func (c *checker) result() error {
	if len(c.msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: c.msgs}
}

func (c *checker) mandatory(present bool, field string) {
	if !present {
		c.fail("Kein/e %s gewählt.", field)
	}
}

// checkTable 校验座位。返回的bool表示四个座位是否确定（齐全且互不相同），确定时才做依赖座位的检查。
// 返回的error只用于基础设施故障。
func (c *checker) checkTable(raw TableRaw) (Table, bool, error) {
	var t Table

	if raw.RoundID == nil {
		c.fail("Bitte wählen Sie eine Runde.")
	} else {
		t.RoundID = *raw.RoundID
		points, err := c.lk.PointsConfigByRoundID(c.ctx, t.RoundID)
		switch {
		case errors.Is(err, ErrNotFound):
			c.fail("Keine Punktekonfiguration für Runde %d gefunden.", t.RoundID)
		case err != nil:
			return Table{}, false, fmt.Errorf("计分表查询失败: %w", err)
		default:
			t.Points = points
		}
	}

	if raw.DealerID == nil || *raw.DealerID == NoPlayer {
		c.fail("Bitte wählen Sie einen Geber.")
	} else {
		t.DealerID = *raw.DealerID
	}

	seated := len(raw.SeatIDs) == len(t.Seats)
	if seated {
		for i, id := range raw.SeatIDs {
			if id == nil || *id == NoPlayer {
				seated = false
				break
			}
			t.Seats[i] = *id
		}
	}
	if err := c.checkRegistered(t.DealerID, raw.SeatIDs); err != nil {
		return Table{}, false, err
	}
	if !seated {
		c.fail("Bitte wählen Sie vier Teilnehmer.")
		return t, false, nil
	}

	distinct := true
	for i := range t.Seats {
		if slices.Contains(t.Seats[i+1:], t.Seats[i]) {
			distinct = false
		}
	}
	if !distinct {
		c.fail("Bitte wählen Sie eindeutige Teilnehmer.")
	}

	// 座位有重复时，"是否在桌上"仍然有意义，下面两项照常检查
	// 发牌人可以坐在Geberhand，也可以不在桌上（五人桌），但不能占用其他座位
	if t.DealerID != NoPlayer && slices.Contains(t.Seats[:3], t.DealerID) {
		c.fail("Bitte positionieren Sie den Geber eindeutig auf die Geberhand.")
	}

	seen := make(map[uint]bool, len(raw.RaisedIDs))
	for _, id := range raw.RaisedIDs {
		switch {
		case !t.Seated(id):
			c.fail("%s sitzt nicht am Tisch und kann nicht legen.", c.name(id))
		case seen[id]:
			c.fail("%s kann nur einmal legen.", c.name(id))
		default:
			seen[id] = true
			t.Raised = append(t.Raised, id)
		}
	}

	return t, distinct, nil
}

// checkRegistered 确认发牌人和座位上的人都是已登记的参与者
func (c *checker) checkRegistered(dealerID uint, seatIDs []*uint) error {
	var ids []uint
	if dealerID != NoPlayer {
		ids = append(ids, dealerID)
	}
	for _, id := range seatIDs {
		if id != nil && *id != NoPlayer && !slices.Contains(ids, *id) {
			ids = append(ids, *id)
		}
	}
	for _, id := range ids {
		ok, err := c.lk.ParticipantExists(c.ctx, id)
		if err != nil {
			return fmt.Errorf("参与者查询失败: %w", err)
		}
		if !ok {
			c.fail("Teilnehmer %d ist nicht registriert.", id)
		}
	}
	return nil
}

// checkSeated 确认某个角色坐在桌上
func (c *checker) checkSeated(t Table, id uint) {
	if !t.Seated(id) {
		c.fail("%s sitzt nicht am Tisch.", c.name(id))
	}
}

// checkDoubling 校验Kontra和Re。side 是叫牌方，叫牌方不能Kontra，只有叫牌方能Re。
// 人数规则总是检查；seatsKnown为false时跳过依赖座位的规则。
func (c *checker) checkDoubling(t Table, seatsKnown bool, kontra, re []uint, side []uint) (kontraID, reID uint) {
	if len(kontra) > 1 {
		c.fail("Maximal ein Teilnehmer kann Kontra geben. Momentan: %d.", len(kontra))
	}
	if len(re) > 1 {
		c.fail("Maximal ein Teilnehmer kann Re geben. Momentan: %d.", len(re))
	}
	if len(re) > 0 && len(kontra) == 0 {
		c.fail("Re darf nicht ohne Kontra gegeben werden. Momentan Re: %s.", c.names(re))
	}
	if !seatsKnown {
		return NoPlayer, NoPlayer
	}

	if len(kontra) == 1 {
		kontraID = kontra[0]
		switch {
		case !t.Seated(kontraID):
			c.fail("%s sitzt nicht am Tisch und kann nicht Kontra geben.", c.name(kontraID))
		case slices.Contains(side, kontraID):
			c.fail("Spieler darf nicht Kontra geben. Momentan: %s.", c.name(kontraID))
		}
	}
	if len(re) == 1 {
		reID = re[0]
		if !slices.Contains(side, reID) {
			c.fail("Nicht-Spieler darf nicht Re geben. Momentan: %s.", c.name(reID))
		}
	}
	return kontraID, reID
}

// checkEyes 校验点数并换算成叫牌方的点数
func (c *checker) checkEyes(raw PlayRaw) (spielerAugen int, ok bool) {
	if raw.Eyes == nil {
		c.fail("Keine Augen angegeben.")
		return 0, false
	}
	eyes := *raw.Eyes
	if eyes < 0 || eyes > TotalEyes {
		c.fail("Ungültige Augen angegeben. Bitte eine Zahl von 0 - 120 angeben.")
		return 0, false
	}
	spielerAugen = TotalEyes - eyes
	if raw.EyesOfAnnouncer != nil && *raw.EyesOfAnnouncer {
		spielerAugen = eyes
	}
	if raw.Schwarz && spielerAugen != 0 && spielerAugen != TotalEyes {
		c.fail("Ein Spiel kann nur Schwarz sein, wenn 0 oder 120 Augen erreicht werden.")
		return spielerAugen, false
	}
	return spielerAugen, true
}

// checkLaufende 校验Laufende的数量，缺失时按0处理
func (c *checker) checkLaufende(raw *int, allowed []int) int {
	if raw == nil {
		return 0
	}
	if !slices.Contains(allowed, *raw) {
		c.fail("Ungültige Anzahl an Laufenden. Bitte %s wählen.", joinChoices(allowed))
	}
	return *raw
}

// joinChoices 把 [0 3 4] 拼成 "0, 3 oder 4"
func joinChoices(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " oder " + parts[len(parts)-1]
}

func deref(id *uint) uint {
	if id == nil {
		return NoPlayer
	}
	return *id
}
