package attack

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"FireResolver/internal/catalog"
	"FireResolver/internal/report"
	"FireResolver/internal/rules"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

type bayMember struct {
	weapon *unit.Mounted
	typ    *catalog.Weapon
	bin    *unit.AmmoBin
	ammo   *catalog.Ammo
}

// Attack value multipliers for the named heavy capital missiles.
var heavyMissileFactor = map[catalog.Munition]float64{
	catalog.MunitionKillerWhale: 4,
	catalog.MunitionWhiteShark:  3,
	catalog.MunitionBarracuda:   2,
}

// bayPrefire gathers the members able to fire. Breached, destroyed and
// jammed weapons sit the volley out, as do members out of ammunition.
func bayPrefire(c *Context) bool {
	for _, slot := range c.Weapon.Bay {
		m := c.Attacker.Weapon(slot)
		if !m.Ready() {
			continue
		}
		wt, ok := c.d.catalog.Weapon(m.Type)
		if !ok {
			c.d.logger.Error("bay member has unknown type", zap.String("unit", c.Attacker.ID), zap.String("weapon", slot), zap.String("type", m.Type))
			continue
		}
		mem := bayMember{weapon: m, typ: wt}
		if wt.NeedsAmmo() {
			bin := c.Attacker.Bin(m.Ammo)
			if bin == nil {
				c.d.logger.Error("bay member has no linked ammunition", zap.String("unit", c.Attacker.ID), zap.String("weapon", slot))
				continue
			}
			if bin.Shots <= 0 {
				if bin = c.Attacker.AlternateBin(bin.Type, bin.Slot); bin == nil {
					continue
				}
				relinkMember(c, m, bin)
			}
			at, ok := c.d.catalog.Ammo(bin.Type)
			if !ok {
				c.d.logger.Error("bay member ammunition has unknown type", zap.String("unit", c.Attacker.ID), zap.String("bin", bin.Slot))
				continue
			}
			mem.bin, mem.ammo = bin, at
		}
		c.bay = append(c.bay, mem)
	}
	if len(c.bay) == 0 {
		c.report(report.MsgNotReady, report.Str("reason", "bay_empty"))
		return false
	}
	return true
}

func relinkMember(c *Context, m *unit.Mounted, bin *unit.AmmoBin) {
	c.report(report.MsgAmmoRelinked, report.Str("member", m.Slot), report.Str("from", m.Ammo), report.Str("to", bin.Slot))
	m.Ammo = bin.Slot
}

func bayHitCount(c *Context) int {
	if c.Missed {
		c.report(report.MsgMiss, report.Int("margin", c.Margin))
		return 0
	}
	reportHit(c)
	return 1
}

// memberValue is one member's attack value at band after ammunition
// adjustments.
func memberValue(m bayMember, band catalog.RangeBand) float64 {
	av := m.typ.AttackValue(band)
	if m.ammo == nil {
		return av
	}
	switch mun := m.ammo.Munition; {
	case mun == catalog.MunitionCluster:
		av = math.Max(av-1, 0)
	case mun == catalog.MunitionExtendedRange && band > catalog.BandShort:
		av = 0
	case heavyMissileFactor[mun] > 0:
		av *= heavyMissileFactor[mun]
	}
	return av
}

// bayDamage sums member attack values and rounds up once.
func bayDamage(c *Context) int {
	total := 0.0
	for _, m := range c.bay {
		total += memberValue(m, c.Band)
		if m.typ.Capital {
			c.DamageType = world.DamageCapital
		}
	}
	dmg := int(math.Ceil(total))
	c.report(report.MsgBayValue, report.Int("members", len(c.bay)), report.Int("value", dmg))
	if c.DirectHit {
		dmg = directBonus(dmg, c.Margin)
	}
	if c.Glancing {
		dmg /= 2
	}
	return dmg
}

// bayApply lands the volley as one hit and checks the target's damage
// threshold.
func bayApply(c *Context) {
	if c.Hits == 0 || c.Damage == 0 {
		return
	}
	if c.Target == nil {
		applyToHex(c, c.TargetHex, c.Damage)
		return
	}
	hit, dealt := applyToUnit(c, c.Target, c.Damage)
	if t := c.Target.Threshold; t > 0 && dealt >= t {
		n := c.world().CriticalCheck(c.Target, hit.Location, 0)
		c.report(report.MsgThreshold, report.Int("damage", dealt), report.Int("threshold", t), report.Int("crits", n))
	}
}

// bayPost charges heat per member, or once per arc per turn, and spends a
// round from every member that fired ammunition.
func bayPost(c *Context) {
	if c.charged {
		return
	}
	c.charged = true
	heat := 0
	for _, m := range c.bay {
		heat += m.typ.Heat
	}
	if c.rules().BayHeat == rules.HeatPerArc {
		arc := c.Weapon.Location
		if slices.Contains(c.Attacker.ArcsFired, arc) {
			heat = 0
		} else {
			c.Attacker.ArcsFired = append(c.Attacker.ArcsFired, arc)
		}
	}
	chargeHeat(c, heat)
	for _, m := range c.bay {
		if m.bin == nil {
			continue
		}
		m.bin.Shots = max(m.bin.Shots-1, 0)
		if m.bin.Shots == 0 {
			if alt := c.Attacker.AlternateBin(m.bin.Type, m.bin.Slot); alt != nil {
				relinkMember(c, m.weapon, alt)
			}
		}
	}
}
