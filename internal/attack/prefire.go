package attack

import (
	"go.uber.org/zap"

	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/unit"
)

const (
	quirkAmmoFeed = "ammo_feed_problems"
	// Damage a PPC deals to its own mount when the field inhibitor fails.
	inhibitorExplosionDamage = 10
)

func basePrefire(c *Context) bool {
	return loadAmmo(c) && feedCheck(c)
}

// loadAmmo checks the linked bin, relinks an empty one to a spare bin of the
// same ammunition, and cuts the burst down to what is left.
func loadAmmo(c *Context) bool {
	if !c.Type.NeedsAmmo() {
		return true
	}
	if c.Bin == nil {
		c.d.logger.Error("weapon has no linked ammunition",
			zap.String("unit", c.Attacker.ID),
			zap.String("weapon", c.Weapon.Slot),
			zap.String("type", c.Type.Name),
		)
		c.report(report.MsgNoAmmo)
		return false
	}
	if c.Bin.Shots <= 0 {
		alt := c.Attacker.AlternateBin(c.Bin.Type, c.Bin.Slot)
		if alt == nil {
			c.report(report.MsgNoAmmo, report.Str("bin", c.Bin.Slot))
			return false
		}
		relink(c, alt)
	}
	if c.Shots > c.Bin.Shots {
		c.report(report.MsgAmmoDry, report.Int("requested", c.Shots), report.Int("fired", c.Bin.Shots))
		c.Shots = c.Bin.Shots
	}
	return true
}

func relink(c *Context, bin *unit.AmmoBin) {
	c.report(report.MsgAmmoRelinked, report.Str("from", c.Bin.Slot), report.Str("to", bin.Slot))
	c.Bin = bin
	c.Weapon.Ammo = bin.Slot
}

// feedCheck resolves the ammunition feed quirk: a natural 2 makes the
// weapon roll again on the jam table.
func feedCheck(c *Context) bool {
	if !c.rules().Quirks || c.Roll != 2 || !c.Type.NeedsAmmo() || !c.Weapon.HasQuirk(quirkAmmoFeed) {
		return true
	}
	roll := dice.Roll2D6(c.dice())
	switch {
	case roll >= 12:
		detonate(c, roll)
		return false
	case roll >= 10:
		c.Weapon.Jammed = true
		c.report(report.MsgJammed, report.Str("cause", "ammo_feed"), report.Int("roll", roll))
		return false
	}
	c.report(report.MsgFeedNoEffect, report.Int("roll", roll))
	return true
}

// detonate blows the round up in the barrel, destroying the weapon and
// damaging the firer.
func detonate(c *Context, roll int) {
	dmg := c.Type.ExplosionDamage
	if dmg == 0 {
		dmg = c.Type.DamageAt(c.Band) * max(c.Type.RackSize, 1)
	}
	c.report(report.MsgDetonation, report.Int("roll", roll), report.Int("damage", dmg))
	res := c.world().ExplodeWeapon(c.Attacker, c.Weapon.Slot, dmg)
	reportApplied(c, c.Attacker, res, dmg)
}

// rotaryJams is the rotary autocannon jam table. Longer bursts jam on higher
// rolls; a single shot never jams.
func rotaryJams(shots, roll int) bool {
	switch {
	case shots >= 6:
		return roll <= 4
	case shots >= 4:
		return roll <= 3
	case shots >= 2:
		return roll <= 2
	}
	return false
}

func rotaryPrefire(c *Context) bool {
	shots := c.Request.Shots
	if shots == 0 {
		shots = c.Weapon.Shots
	}
	c.Shots = min(max(shots, 1), max(c.Type.MaxShots, 1))
	if !loadAmmo(c) {
		return false
	}
	if rotaryJams(c.Shots, c.Roll) {
		jam(c)
		return false
	}
	return feedCheck(c)
}

func ultraPrefire(c *Context) bool {
	if c.Weapon.Mode == unit.ModeUltra {
		c.Shots = max(c.Type.MaxShots, 2)
	}
	if !loadAmmo(c) {
		return false
	}
	if c.Shots > 1 && c.Roll == 2 {
		jam(c)
		return false
	}
	return feedCheck(c)
}

func jam(c *Context) {
	c.Weapon.Jammed = true
	c.report(report.MsgJammed, report.Str("cause", "burst"), report.Int("shots", c.Shots), report.Int("roll", c.Roll))
}

// ppcPrefire checks a PPC fired with its field inhibitor off inside minimum
// range.
func ppcPrefire(c *Context) bool {
	if c.rules().FieldInhibitorChecks && c.Weapon.Mode == unit.ModeInhibitorOff && c.Distance < c.Type.MinRange {
		roll := dice.Roll2D6(c.dice())
		if roll <= 3 {
			c.report(report.MsgInhibitorExplosion, report.Int("roll", roll), report.Int("damage", inhibitorExplosionDamage))
			res := c.world().ExplodeWeapon(c.Attacker, c.Weapon.Slot, inhibitorExplosionDamage)
			reportApplied(c, c.Attacker, res, inhibitorExplosionDamage)
			return false
		}
	}
	return basePrefire(c)
}
