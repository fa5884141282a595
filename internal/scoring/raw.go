package scoring

// TableRaw 是录入表单中与座位相关的原始数据，所有字段都可能缺失或互相矛盾
type TableRaw struct {
	RoundID  *uint `json:"round_id"`
	DealerID *uint `json:"dealer_id"`
	// SeatIDs 按固定顺序：Ausspieler, Mittelhand, Hinterhand, Geberhand
	SeatIDs   []*uint `json:"seat_ids"`
	RaisedIDs []uint  `json:"raised_ids"`
}

// PlayRaw 是叫牌类变体共享的原始数据
type PlayRaw struct {
	AnnouncerID *uint  `json:"announcer_id"`
	KontraIDs   []uint `json:"kontra_ids"`
	ReIDs       []uint `json:"re_ids"`
	Laufende    *int   `json:"laufende"`
	Eyes        *int   `json:"eyes"`
	// EyesOfAnnouncer 为 true 时 Eyes 属于叫牌方，否则属于对手方
	EyesOfAnnouncer *bool `json:"eyes_of_announcer"`
	Schwarz         bool  `json:"schwarz"`
}

// RufspielRaw 是Rufspiel的原始录入
type RufspielRaw struct {
	TableRaw
	PlayRaw
	Rufsau    *Suit `json:"rufsau"`
	PartnerID *uint `json:"partner_id"`
}

// HochzeitRaw 是Hochzeit的原始录入
type HochzeitRaw struct {
	TableRaw
	PlayRaw
	PartnerID *uint `json:"partner_id"`
}

// SoloRaw 是Solo的原始录入
type SoloRaw struct {
	TableRaw
	PlayRaw
	Kind     *SoloKind `json:"kind"`
	Suits    []Suit    `json:"suits"`
	ToutWon  bool      `json:"tout_won"`
	ToutLost bool      `json:"tout_lost"`
}

// RamschRaw 是Ramsch的原始录入
type RamschRaw struct {
	TableRaw
	// Eyes 按座位顺序
	Eyes           []*int `json:"eyes"`
	JungfrauIDs    []uint `json:"jungfrau_ids"`
	ManualLoserIDs []uint `json:"manual_loser_ids"`
}
