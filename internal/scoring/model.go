package scoring

import "slices"

// TotalEyes 是一副牌的总点数（Augen）
const TotalEyes = 120

// NoPlayer 表示某个可选的玩家位置为空，例如没有人Kontra
const NoPlayer uint = 0

// Suit 定义了四种花色
type Suit string

const (
	SuitEichel   Suit = "EICHEL"
	SuitBlatt    Suit = "BLATT"
	SuitHerz     Suit = "HERZ"
	SuitSchellen Suit = "SCHELLEN"
)

// Valid 判断花色是否属于四种已知花色之一
func (s Suit) Valid() bool {
	switch s {
	case SuitEichel, SuitBlatt, SuitHerz, SuitSchellen:
		return true
	}
	return false
}

// Label 返回用于展示的花色名称
func (s Suit) Label() string {
	switch s {
	case SuitEichel:
		return "Eichel"
	case SuitBlatt:
		return "Blatt"
	case SuitHerz:
		return "Herz"
	case SuitSchellen:
		return "Schellen"
	}
	return string(s)
}

// SoloKind 定义了Solo的子类型
type SoloKind string

const (
	SoloFarbsolo SoloKind = "FARBSOLO"
	SoloWenz     SoloKind = "WENZ"
	SoloGeier    SoloKind = "GEIER"
)

// Valid 判断Solo子类型是否已知
func (k SoloKind) Valid() bool {
	switch k {
	case SoloFarbsolo, SoloWenz, SoloGeier:
		return true
	}
	return false
}

// Label 返回用于展示的Solo名称
func (k SoloKind) Label() string {
	switch k {
	case SoloFarbsolo:
		return "Farbsolo"
	case SoloWenz:
		return "Wenz"
	case SoloGeier:
		return "Geier"
	}
	return string(k)
}

// trumpOnly 表示该Solo只有Unter或Ober作为将牌，因此不选花色
func (k SoloKind) trumpOnly() bool {
	return k == SoloWenz || k == SoloGeier
}

// Variant 定义了四种计分方式
type Variant string

const (
	VariantRufspiel Variant = "rufspiel"
	VariantSolo     Variant = "solo"
	VariantHochzeit Variant = "hochzeit"
	VariantRamsch   Variant = "ramsch"
)

// ParseVariant 将路由参数解析为Variant
func ParseVariant(s string) (Variant, bool) {
	v := Variant(s)
	switch v {
	case VariantRufspiel, VariantSolo, VariantHochzeit, VariantRamsch:
		return v, true
	}
	return "", false
}

// GameType 是持久化时使用的游戏类型（Spielart）
type GameType string

const (
	GameRufspiel GameType = "RUFSPIEL"
	GameFarbsolo GameType = "FARBSOLO"
	GameWenz     GameType = "WENZ"
	GameGeier    GameType = "GEIER"
	GameRamsch   GameType = "RAMSCH"
	GameHochzeit GameType = "HOCHZEIT"
)

// Doubler 定义了所有会让分数翻倍的事件
type Doubler string

const (
	DoublerGelegt    Doubler = "GELEGT"
	DoublerKontriert Doubler = "KONTRIERT"
	DoublerRe        Doubler = "RE"
	DoublerJungfrau  Doubler = "JUNGFRAU"
)

// Tout 是Solo的Tout结果。三态取值保证"赢"和"输"不可能同时成立。
type Tout int

const (
	ToutNone Tout = iota
	ToutWon
	ToutLost
)

// PointsConfig 是一局（Runde）所使用的计分表
type PointsConfig struct {
	Name      string  `json:"name"`
	Rufspiel  int     `json:"rufspiel"`
	Hochzeit  int     `json:"hochzeit"`
	Solo      int     `json:"solo"`
	Ramsch    int     `json:"ramsch"`
	Laufende  float64 `json:"laufende"`
	Schneider float64 `json:"schneider"`
	Schwarz   float64 `json:"schwarz"`
}

// DefaultPointsConfigName 是默认计分表的名称
const DefaultPointsConfigName = "sauspiel_config_plus_hochzeit"

// DefaultPointsConfig 返回默认计分表
func DefaultPointsConfig() PointsConfig {
	return PointsConfig{
		Name:      DefaultPointsConfigName,
		Rufspiel:  20,
		Hochzeit:  30,
		Solo:      50,
		Ramsch:    20,
		Laufende:  10,
		Schneider: 10,
		Schwarz:   10,
	}
}

// Table 是所有变体共享的、已校验的座位信息
type Table struct {
	RoundID  uint
	DealerID uint
	// Seats 按固定顺序：Ausspieler, Mittelhand, Hinterhand, Geberhand
	Seats  [4]uint
	Raised []uint
	Points PointsConfig
}

// SeatIndex 返回玩家所在的座位，不在桌上时返回 -1
func (t Table) SeatIndex(id uint) int {
	for i, s := range t.Seats {
		if s == id {
			return i
		}
	}
	return -1
}

// Seated 判断玩家是否在桌上
func (t Table) Seated(id uint) bool {
	return t.SeatIndex(id) >= 0
}

func (t Table) table() Table { return t }

// Play 是Rufspiel、Hochzeit和Solo共享的叫牌方信息
type Play struct {
	AnnouncerID  uint
	KontraID     uint
	ReID         uint
	Laufende     int
	SpielerAugen int
	Schwarz      bool
}

// NichtSpielerAugen 返回对手方的点数
func (p Play) NichtSpielerAugen() int {
	return TotalEyes - p.SpielerAugen
}

// Config 是经过校验的、可直接计分的配置。只有本包内的四种类型实现它。
type Config interface {
	Variant() Variant
	GameType() GameType
	table() Table
}

// RufspielConfig 是已校验的Rufspiel
type RufspielConfig struct {
	Table
	Play
	PartnerID uint
	Rufsau    Suit
}

func (RufspielConfig) Variant() Variant   { return VariantRufspiel }
func (RufspielConfig) GameType() GameType { return GameRufspiel }

// HochzeitConfig 是已校验的Hochzeit
type HochzeitConfig struct {
	Table
	Play
	PartnerID uint
}

func (HochzeitConfig) Variant() Variant   { return VariantHochzeit }
func (HochzeitConfig) GameType() GameType { return GameHochzeit }

// SoloConfig 是已校验的Solo
type SoloConfig struct {
	Table
	Play
	Kind SoloKind
	// Suit 只在Farbsolo时有值
	Suit Suit
	Tout Tout
}

func (SoloConfig) Variant() Variant { return VariantSolo }

func (c SoloConfig) GameType() GameType {
	switch c.Kind {
	case SoloWenz:
		return GameWenz
	case SoloGeier:
		return GameGeier
	}
	return GameFarbsolo
}

// RamschConfig 是已校验的Ramsch。LoserID 与 DurchmarschID 恰有一个非空。
type RamschConfig struct {
	Table
	// Eyes 按座位顺序
	Eyes          [4]int
	JungfrauIDs   []uint
	LoserID       uint
	DurchmarschID uint
}

func (RamschConfig) Variant() Variant   { return VariantRamsch }
func (RamschConfig) GameType() GameType { return GameRamsch }

// Durchmarsch 判断是否有人通吃
func (c RamschConfig) Durchmarsch() bool {
	return c.DurchmarschID != NoPlayer
}

// TableOf 返回任意配置的座位信息
func TableOf(c Config) Table {
	return c.table()
}

// Doublings 列出配置中所有翻倍事件，按玩家展开
func Doublings(c Config) map[Doubler][]uint {
	t := c.table()
	out := map[Doubler][]uint{}
	if len(t.Raised) > 0 {
		out[DoublerGelegt] = slices.Clone(t.Raised)
	}
	var p *Play
	switch cfg := c.(type) {
	case RufspielConfig:
		p = &cfg.Play
	case HochzeitConfig:
		p = &cfg.Play
	case SoloConfig:
		p = &cfg.Play
	case RamschConfig:
		if len(cfg.JungfrauIDs) > 0 {
			out[DoublerJungfrau] = slices.Clone(cfg.JungfrauIDs)
		}
	}
	if p != nil {
		if p.KontraID != NoPlayer {
			out[DoublerKontriert] = []uint{p.KontraID}
		}
		if p.ReID != NoPlayer {
			out[DoublerRe] = []uint{p.ReID}
		}
	}
	return out
}
