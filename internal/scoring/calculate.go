package scoring

import (
	"fmt"
	"slices"
)

const (
	// winThreshold 是叫牌方获胜所需的最少点数
	winThreshold = 61
	// schneiderLow 与 schneiderHigh 之外（含边界）算Schneider
	schneiderLow  = 30
	schneiderHigh = 91
	// soloWeight 是Solo玩家和Ramsch中单独一方的份额
	soloWeight = 3
)

// Result 是一局的计分结果
type Result struct {
	Variant  Variant  `json:"variant"`
	GameType GameType `json:"game_type"`
	// BasePoints 是计分表中该变体的基础分
	BasePoints      int     `json:"base_points"`
	Schneider       bool    `json:"schneider"`
	SchneiderPoints float64 `json:"schneider_points"`
	Schwarz         bool    `json:"schwarz"`
	SchwarzPoints   float64 `json:"schwarz_points"`
	Laufende        int     `json:"laufende"`
	LaufendePoints  float64 `json:"laufende_points"`
	// Exponent 是翻倍次数，总倍数为 2^Exponent
	Exponent int `json:"exponent"`
	// Points 是翻倍后一份的分数（Spielpunkte）
	Points      float64          `json:"points"`
	Durchmarsch bool             `json:"durchmarsch"`
	Winners     []uint           `json:"winners"`
	PerPlayer   map[uint]float64 `json:"per_player"`
}

// Multiplier 返回总倍数
func (r Result) Multiplier() int {
	return 1 << r.Exponent
}

// Won 判断玩家是否属于赢家
func (r Result) Won(id uint) bool {
	return slices.Contains(r.Winners, id)
}

// Calculate 按配置的具体类型计分
func Calculate(cfg Config) Result {
	switch c := cfg.(type) {
	case RufspielConfig:
		return CalculateRufspiel(c)
	case HochzeitConfig:
		return CalculateHochzeit(c)
	case SoloConfig:
		return CalculateSolo(c)
	case RamschConfig:
		return CalculateRamsch(c)
	}
	panic(fmt.Sprintf("scoring: unbekannte Konfiguration %T", cfg))
}

// CalculateRufspiel 计算Rufspiel的分数
func CalculateRufspiel(c RufspielConfig) Result {
	mustTable(c.Table)
	mustPlay(c.Table, c.Play, c.AnnouncerID, c.PartnerID)
	r := normalspiel(c.Table, c.Play, c.Points.Rufspiel, 0, true)
	r.Variant, r.GameType = c.Variant(), c.GameType()
	distributeTeam(&r, c.Table, c.Play, c.AnnouncerID, c.PartnerID)
	return r
}

// CalculateHochzeit 计算Hochzeit的分数
func CalculateHochzeit(c HochzeitConfig) Result {
	mustTable(c.Table)
	mustPlay(c.Table, c.Play, c.AnnouncerID, c.PartnerID)
	r := normalspiel(c.Table, c.Play, c.Points.Hochzeit, 0, true)
	r.Variant, r.GameType = c.Variant(), c.GameType()
	distributeTeam(&r, c.Table, c.Play, c.AnnouncerID, c.PartnerID)
	return r
}

// CalculateSolo 计算Solo的分数。Tout额外翻倍一次，不计Schneider，胜负由Tout结果决定。
func CalculateSolo(c SoloConfig) Result {
	mustTable(c.Table)
	mustPlay(c.Table, c.Play, c.AnnouncerID)

	extra := 0
	if c.Tout != ToutNone {
		extra = 1
	}
	r := normalspiel(c.Table, c.Play, c.Points.Solo, extra, c.Tout == ToutNone)
	r.Variant, r.GameType = c.Variant(), c.GameType()

	won := c.SpielerAugen >= winThreshold
	switch c.Tout {
	case ToutWon:
		won = true
	case ToutLost:
		won = false
	}

	sign := -1.0
	if won {
		sign = 1.0
		r.Winners = []uint{c.AnnouncerID}
	}
	r.PerPlayer = make(map[uint]float64, len(c.Seats))
	for _, id := range c.Seats {
		if id == c.AnnouncerID {
			r.PerPlayer[id] = sign * soloWeight * r.Points
			continue
		}
		r.PerPlayer[id] = -sign * r.Points
		if !won {
			r.Winners = append(r.Winners, id)
		}
	}
	return r
}

// CalculateRamsch 计算Ramsch的分数。
// 普通Ramsch中输家付三份，其余三人各得一份；Durchmarsch时通吃者得三份，其余三人各付一份。
func CalculateRamsch(c RamschConfig) Result {
	mustTable(c.Table)
	mustRamsch(c)

	r := Result{Variant: c.Variant(), GameType: c.GameType(), Durchmarsch: c.Durchmarsch()}
	r.BasePoints = c.Points.Rufspiel
	if r.Durchmarsch {
		r.BasePoints = c.Points.Solo
	}
	r.Exponent = len(c.Raised) + len(c.JungfrauIDs)
	r.Points = float64(r.BasePoints) * float64(r.Multiplier())

	single, sign := c.LoserID, -1.0
	if r.Durchmarsch {
		single, sign = c.DurchmarschID, 1.0
	}
	r.PerPlayer = make(map[uint]float64, len(c.Seats))
	for _, id := range c.Seats {
		if id == single {
			r.PerPlayer[id] = sign * soloWeight * r.Points
			if r.Durchmarsch {
				r.Winners = append(r.Winners, id)
			}
			continue
		}
		r.PerPlayer[id] = -sign * r.Points
		if !r.Durchmarsch {
			r.Winners = append(r.Winners, id)
		}
	}
	return r
}

// normalspiel 是Rufspiel、Hochzeit和Solo共享的计分骨架，只算出一份的分数
func normalspiel(t Table, p Play, base int, extraExponent int, schneiderAllowed bool) Result {
	pc := t.Points
	r := Result{BasePoints: base, Laufende: p.Laufende, Schwarz: p.Schwarz}

	subtotal := float64(base)
	if schneiderAllowed && (p.SpielerAugen <= schneiderLow || p.SpielerAugen >= schneiderHigh) {
		r.Schneider = true
		r.SchneiderPoints = pc.Schneider
		subtotal += pc.Schneider
	}
	if p.Schwarz {
		r.SchwarzPoints = pc.Schwarz
		subtotal += pc.Schwarz
	}
	r.LaufendePoints = pc.Laufende * float64(p.Laufende)
	subtotal += r.LaufendePoints

	r.Exponent = len(t.Raised) + extraExponent
	if p.KontraID != NoPlayer {
		r.Exponent++
	}
	if p.ReID != NoPlayer {
		r.Exponent++
	}
	r.Points = subtotal * float64(r.Multiplier())
	return r
}

// distributeTeam 在二对二的游戏中分配分数
func distributeTeam(r *Result, t Table, p Play, announcerID, partnerID uint) {
	announcerWon := p.SpielerAugen >= winThreshold
	r.PerPlayer = make(map[uint]float64, len(t.Seats))
	for _, id := range t.Seats {
		onTeam := id == announcerID || id == partnerID
		if onTeam == announcerWon {
			r.Winners = append(r.Winners, id)
			r.PerPlayer[id] = r.Points
		} else {
			r.PerPlayer[id] = -r.Points
		}
	}
}

// mustTable 检查座位是否满足计分的前提，不满足说明调用方跳过了校验
func mustTable(t Table) {
	for i, id := range t.Seats {
		if id == NoPlayer || slices.Contains(t.Seats[i+1:], id) {
			panic(fmt.Sprintf("scoring: ungültige Sitzordnung %v", t.Seats))
		}
	}
	for _, id := range t.Raised {
		if !t.Seated(id) {
			panic(fmt.Sprintf("scoring: gelegt von %d, der nicht am Tisch sitzt", id))
		}
	}
}

func mustPlay(t Table, p Play, side ...uint) {
	if p.SpielerAugen < 0 || p.SpielerAugen > TotalEyes {
		panic(fmt.Sprintf("scoring: spieler_augen %d außerhalb von 0..120", p.SpielerAugen))
	}
	if slices.Contains(side, NoPlayer) {
		panic("scoring: Spielerseite unvollständig")
	}
	for _, id := range side {
		if !t.Seated(id) {
			panic(fmt.Sprintf("scoring: Spieler %d sitzt nicht am Tisch", id))
		}
	}
}

func mustRamsch(c RamschConfig) {
	sum := 0
	for _, e := range c.Eyes {
		sum += e
	}
	if sum != TotalEyes {
		panic(fmt.Sprintf("scoring: Ramsch-Augen ergeben %d statt 120", sum))
	}
	if (c.LoserID == NoPlayer) == (c.DurchmarschID == NoPlayer) {
		panic("scoring: Ramsch braucht genau einen Verlierer oder einen Durchmarsch")
	}
	single := c.LoserID
	if single == NoPlayer {
		single = c.DurchmarschID
	}
	if !c.Seated(single) {
		panic(fmt.Sprintf("scoring: Spieler %d sitzt nicht am Tisch", single))
	}
}
