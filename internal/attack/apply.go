package attack

import (
	"FireResolver/internal/report"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

// Capital damage is worth ten standard points against standard-scale units.
const capitalScale = 10

// baseApply lands the hits in groups, one location roll per group.
func baseApply(c *Context) {
	if c.Hits == 0 || c.Damage == 0 {
		return
	}
	group := max(c.Variant.group(c), 1)
	for left := c.Hits; left > 0; left -= group {
		deliver(c, min(group, left)*c.Damage)
	}
}

// applyPoints splits a lump of damage into clusters of size points.
func applyPoints(c *Context, total, size int) {
	for total > 0 {
		n := min(size, total)
		deliver(c, n)
		total -= n
	}
}

func deliver(c *Context, dmg int) {
	if c.Target != nil {
		applyToUnit(c, c.Target, dmg)
		return
	}
	applyToHex(c, c.TargetHex, dmg)
}

// applyToUnit rolls a location on u and damages it. Partial cover can
// stop a leg hit and a building soaks what it can before the unit inside
// takes the rest. It returns the hit and the damage that reached the unit.
func applyToUnit(c *Context, u *unit.Unit, dmg int) (unit.Hit, int) {
	if u.Destroyed() || dmg <= 0 {
		return unit.Hit{}, 0
	}
	if c.DamageType == world.DamageCapital && u.Kind != unit.KindCapital {
		dmg *= capitalScale
	}
	hit := unit.RollLocation(u, c.Request.Side, c.dice())
	hit.Glancing = c.Glancing
	hit.CritModifier += c.CritModifier
	if c.DamageType == world.DamageArmorPiercing {
		hit.ThroughArmor = true
	}
	if loc := u.Location(hit.Location); u.PartialCover && loc != nil && loc.Leg {
		c.reportOn(u, report.MsgStrikesCover, report.Str("location", hit.Location))
		return hit, 0
	}
	if b := c.world().Hex(u.Position).Building; b != nil && !b.Collapsed() {
		if absorbed := b.Absorb(dmg); absorbed > 0 {
			dmg -= absorbed
			c.reportOn(u, report.MsgBuildingAbsorbs,
				report.Int("absorbed", absorbed),
				report.Int("remaining", dmg),
				report.Int("capacity", b.Absorption),
			)
		}
		if dmg == 0 {
			return hit, 0
		}
	}
	res := c.world().DamageUnit(u, hit, world.Damage{
		Amount:       dmg,
		Type:         c.DamageType,
		ThroughFront: c.Request.ThroughFront,
		Underwater:   c.Underwater,
	})
	reportApplied(c, u, res, dmg)
	return hit, dmg
}

// applyToHex damages the terrain in a hex and, for area attacks, every unit
// standing there. Battle armor riding a unit is spared when the attack is
// their own swarm attack.
func applyToHex(c *Context, at terrain.Coords, dmg int) {
	if c.AreaMode || c.Variant.Flags.Has(FlagAreaEffect) {
		for _, u := range c.world().UnitsAt(at, !c.Swarm) {
			applyToUnit(c, u, dmg)
		}
	}
	damageTerrain(c, at, dmg)
}

func damageTerrain(c *Context, at terrain.Coords, dmg int) {
	h := c.world().Hex(at)
	switch {
	case h.Building != nil && !h.Building.Collapsed():
		res, _ := c.world().DamageBuilding(at, dmg)
		fields := []report.Field{report.Int("damage", res.Damage), report.Int("cf", res.CF)}
		if res.Collapsed {
			fields = append(fields, report.Str("state", "collapsed"))
		}
		c.reportHex(at, report.MsgBuildingDamaged, fields...)
	case h.Wooded():
		if c.world().ClearWoods(at, dmg) {
			c.reportHex(at, report.MsgWoodsCleared, report.Int("woods", h.Woods))
			return
		}
		c.reportHex(at, report.MsgNoEffect, report.Int("woods_damage", h.WoodsDamage))
	default:
		c.reportHex(at, report.MsgNoEffect)
	}
}

func reportApplied(c *Context, u *unit.Unit, res world.Applied, dmg int) {
	fields := []report.Field{
		report.Str("location", res.Location),
		report.Int("amount", dmg-res.Lost),
		report.Int("armor", res.Armor),
		report.Int("internal", res.Internal),
	}
	if res.Troopers > 0 {
		fields = append(fields, report.Int("troopers", res.Troopers))
	}
	if res.Crits > 0 {
		fields = append(fields, report.Int("crits", res.Crits))
	}
	c.reportOn(u, report.MsgDamage, fields...)
	for _, loc := range res.Destroyed {
		c.reportOn(u, report.MsgDestroyed, report.Str("location", loc))
	}
	if res.UnitDestroyed {
		c.reportOn(u, report.MsgDestroyed, report.Str("unit", u.ID))
	}
}
