package scoring

import "context"

// ValidateRufspiel 校验一局Rufspiel的原始录入。
// 录入有问题时返回 *ValidationError，其中包含所有违反的规则；其他error表示查询失败。
func ValidateRufspiel(ctx context.Context, raw RufspielRaw, lk Lookup) (RufspielConfig, error) {
	c := newChecker(ctx, lk)
	t, seatsKnown, err := c.checkTable(raw.TableRaw)
	if err != nil {
		return RufspielConfig{}, err
	}

	c.mandatory(raw.AnnouncerID != nil, "Ansager")
	c.mandatory(raw.Rufsau != nil, "Rufsau")
	c.mandatory(raw.PartnerID != nil, "Partner")

	var rufsau Suit
	if raw.Rufsau != nil {
		rufsau = *raw.Rufsau
		switch {
		case !rufsau.Valid():
			c.fail("Unbekannte Farbe: %s.", rufsau)
		case rufsau == SuitHerz:
			// Herz ist Trumpf
			c.fail("Auf die Herz-Sau kann nicht gerufen werden.")
		}
	}

	play, partnerID := c.checkPartnerPlay(t, seatsKnown, raw.PlayRaw, raw.PartnerID)
	if err := c.result(); err != nil {
		return RufspielConfig{}, err
	}
	return RufspielConfig{Table: t, Play: play, PartnerID: partnerID, Rufsau: rufsau}, nil
}

// ValidateHochzeit 校验一局Hochzeit。规则与Rufspiel相同，只是没有Rufsau。
func ValidateHochzeit(ctx context.Context, raw HochzeitRaw, lk Lookup) (HochzeitConfig, error) {
	c := newChecker(ctx, lk)
	t, seatsKnown, err := c.checkTable(raw.TableRaw)
	if err != nil {
		return HochzeitConfig{}, err
	}

	c.mandatory(raw.AnnouncerID != nil, "Ansager")
	c.mandatory(raw.PartnerID != nil, "Partner")

	play, partnerID := c.checkPartnerPlay(t, seatsKnown, raw.PlayRaw, raw.PartnerID)
	if err := c.result(); err != nil {
		return HochzeitConfig{}, err
	}
	return HochzeitConfig{Table: t, Play: play, PartnerID: partnerID}, nil
}

// checkPartnerPlay 是Rufspiel和Hochzeit共享的部分：叫牌方由Ansager和Partner组成
func (c *checker) checkPartnerPlay(t Table, seatsKnown bool, raw PlayRaw, partner *uint) (Play, uint) {
	announcerID, partnerID := deref(raw.AnnouncerID), deref(partner)
	if raw.AnnouncerID != nil && partner != nil && announcerID == partnerID {
		c.fail("Ansager und Partner identisch: %s.", c.name(announcerID))
	}

	play := Play{AnnouncerID: announcerID}
	if seatsKnown {
		if raw.AnnouncerID != nil {
			c.checkSeated(t, announcerID)
		}
		if partner != nil {
			c.checkSeated(t, partnerID)
		}
	}
	play.KontraID, play.ReID = c.checkDoubling(t, seatsKnown, raw.KontraIDs, raw.ReIDs, []uint{announcerID, partnerID})
	play.Laufende = c.checkLaufende(raw.Laufende, laufendeNormal)
	play.SpielerAugen, _ = c.checkEyes(raw)
	play.Schwarz = raw.Schwarz
	return play, partnerID
}

// ValidateSolo 校验一局Solo（Farbsolo、Wenz、Geier，可带Tout）
func ValidateSolo(ctx context.Context, raw SoloRaw, lk Lookup) (SoloConfig, error) {
	c := newChecker(ctx, lk)
	t, seatsKnown, err := c.checkTable(raw.TableRaw)
	if err != nil {
		return SoloConfig{}, err
	}

	c.mandatory(raw.AnnouncerID != nil, "Ansager")
	c.mandatory(raw.Kind != nil, "Solo")

	cfg := SoloConfig{Table: t}
	if raw.Kind != nil {
		cfg.Kind = *raw.Kind
		if !cfg.Kind.Valid() {
			c.fail("Unbekannte Soloart: %s.", cfg.Kind)
		}
	}
	c.checkSoloSuit(&cfg, raw.Suits)

	switch {
	case raw.ToutWon && raw.ToutLost:
		c.fail("Ein Tout kann nur gewonnen oder verloren werden, nicht beides.")
	case raw.ToutWon:
		cfg.Tout = ToutWon
	case raw.ToutLost:
		cfg.Tout = ToutLost
	}

	announcerID := deref(raw.AnnouncerID)
	play := Play{AnnouncerID: announcerID, Schwarz: raw.Schwarz}
	if seatsKnown {
		if raw.AnnouncerID != nil {
			c.checkSeated(t, announcerID)
		}
	}
	play.KontraID, play.ReID = c.checkDoubling(t, seatsKnown, raw.KontraIDs, raw.ReIDs, []uint{announcerID})

	allowed := laufendeNormal
	if cfg.Kind.trumpOnly() {
		allowed = laufendeTrumpOnly
	}
	play.Laufende = c.checkLaufende(raw.Laufende, allowed)

	toutFlagged := raw.ToutWon || raw.ToutLost
	if toutFlagged && raw.Schwarz {
		c.fail("Ein Tout Spiel kann nicht mit Schwarz gekennzeichnet werden.")
		// Schwarz校验对Tout没有意义，只检查点数范围
		raw.Schwarz = false
	}
	var eyesOK bool
	play.SpielerAugen, eyesOK = c.checkEyes(raw.PlayRaw)
	if eyesOK && raw.ToutWon && !raw.ToutLost && play.SpielerAugen != TotalEyes {
		c.fail("Ein gewonnenes Tout erfordert 120 Augen für den Spieler. Momentan: %d.", play.SpielerAugen)
	}
	cfg.Play = play

	if err := c.result(); err != nil {
		return SoloConfig{}, err
	}
	return cfg, nil
}

// checkSoloSuit 校验Solo的花色选择：Farbsolo恰好一种，Wenz/Geier不选花色
func (c *checker) checkSoloSuit(cfg *SoloConfig, suits []Suit) {
	if len(suits) > 1 {
		c.fail("Es darf maximal eine Farbe gewählt werden.")
		return
	}
	if !cfg.Kind.Valid() {
		return
	}
	switch {
	case cfg.Kind.trumpOnly() && len(suits) == 1:
		c.fail("Bei %s darf keine Farbe gewählt werden.", cfg.Kind.Label())
	case cfg.Kind == SoloFarbsolo && len(suits) == 0:
		c.fail("Bei Farbsolo muss eine Farbe gewählt werden.")
	case cfg.Kind == SoloFarbsolo:
		if !suits[0].Valid() {
			c.fail("Unbekannte Farbe: %s.", suits[0])
			return
		}
		cfg.Suit = suits[0]
	}
}
