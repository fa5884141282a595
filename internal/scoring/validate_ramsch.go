package scoring

import (
	"context"
	"slices"
)

// DurchmarschEyes 是Ramsch中通吃所需的最少点数
const DurchmarschEyes = 91

// ValidateRamsch 校验一局Ramsch。
// 唯一最高分的玩家自动成为输家（达到91点则为Durchmarsch），此时不允许手动指定输家；
// 最高分并列时必须从并列者中手动指定恰好一名输家，否则把并列者的名字返回给调用方。
func ValidateRamsch(ctx context.Context, raw RamschRaw, lk Lookup) (RamschConfig, error) {
	c := newChecker(ctx, lk)
	t, seatsKnown, err := c.checkTable(raw.TableRaw)
	if err != nil {
		return RamschConfig{}, err
	}
	cfg := RamschConfig{Table: t}

	eyesOK := c.checkRamschEyes(&cfg, raw.Eyes, seatsKnown)
	if !seatsKnown {
		return RamschConfig{}, c.result()
	}

	seen := make(map[uint]bool, len(raw.JungfrauIDs))
	for _, id := range raw.JungfrauIDs {
		seat := t.SeatIndex(id)
		switch {
		case seat < 0:
			c.fail("%s sitzt nicht am Tisch und kann nicht Jungfrau sein.", c.name(id))
		case seen[id]:
			c.fail("%s ist mehrfach als Jungfrau angegeben.", c.name(id))
		case eyesOK && cfg.Eyes[seat] > 0:
			c.fail("%s hat %d Augen und kann nicht Jungfrau sein.", c.name(id), cfg.Eyes[seat])
		default:
			seen[id] = true
			cfg.JungfrauIDs = append(cfg.JungfrauIDs, id)
		}
	}

	if eyesOK {
		c.resolveLoser(&cfg, raw.ManualLoserIDs)
	}

	if err := c.result(); err != nil {
		return RamschConfig{}, err
	}
	return cfg, nil
}

// checkRamschEyes 校验四个座位的点数，总和必须是120
func (c *checker) checkRamschEyes(cfg *RamschConfig, eyes []*int, seatsKnown bool) bool {
	if len(eyes) != len(cfg.Eyes) || slices.Contains(eyes, nil) {
		c.fail("Bitte geben Sie die Augen aller vier Teilnehmer an.")
		return false
	}
	ok := true
	sum := 0
	for i, e := range eyes {
		if *e < 0 || *e > TotalEyes {
			if seatsKnown {
				c.fail("Ungültige Augen für %s. Bitte eine Zahl von 0 - 120 angeben.", c.name(cfg.Seats[i]))
			} else {
				c.fail("Ungültige Augen angegeben. Bitte eine Zahl von 0 - 120 angeben.")
			}
			ok = false
		}
		cfg.Eyes[i] = *e
		sum += *e
	}
	if ok && sum != TotalEyes {
		c.fail("Die Augen müssen in Summe 120 ergeben. Momentan: %d.", sum)
		ok = false
	}
	return ok
}

// resolveLoser 根据最高分确定输家或Durchmarsch
func (c *checker) resolveLoser(cfg *RamschConfig, manual []uint) {
	top := slices.Max(cfg.Eyes[:])
	var tied []uint
	for i, e := range cfg.Eyes {
		if e == top {
			tied = append(tied, cfg.Seats[i])
		}
	}

	if len(tied) == 1 {
		if len(manual) > 0 {
			c.fail("Der Verlierer %s steht eindeutig fest. Bitte keinen Verlierer manuell wählen.", c.name(tied[0]))
			return
		}
		if top >= DurchmarschEyes {
			cfg.DurchmarschID = tied[0]
		} else {
			cfg.LoserID = tied[0]
		}
		return
	}

	// 并列时不自动裁决，让用户重新选择
	if len(manual) != 1 || !slices.Contains(tied, manual[0]) {
		c.fail("Gleichstand mit %d Augen zwischen %s. Bitte genau einen davon als Verlierer wählen.", top, c.names(tied))
		return
	}
	cfg.LoserID = manual[0]
}
