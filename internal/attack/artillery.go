package attack

import (
	"FireResolver/internal/catalog"
	"FireResolver/internal/report"
	"FireResolver/internal/terrain"
	"FireResolver/internal/world"
)

// Artillery damage lands on units in clusters of this many points.
const artilleryCluster = 5

// artilleryHitCount classifies the launch roll. Area weapons neither glance
// nor score direct blows.
func artilleryHitCount(c *Context) int {
	c.Glancing, c.DirectHit = false, false
	if c.Missed {
		c.report(report.MsgMiss, report.Int("margin", c.Margin))
		return 0
	}
	reportHit(c)
	return 1
}

// artilleryApply holds the round in flight, or brings it down.
func artilleryApply(c *Context) {
	if c.FlightTurns > 0 && !c.landing {
		c.report(report.MsgInFlight, report.Int("turns", c.FlightTurns))
		c.hold = true
		return
	}
	land(c)
}

func artilleryContinue(c *Context, _ Phase) Stage {
	c.FlightTurns--
	if c.FlightTurns > 0 {
		c.report(report.MsgInFlight, report.Int("turns", c.FlightTurns))
		return StagePending
	}
	c.landing = true
	return StageApply
}

func caresOffboard(p Phase) bool { return p == PhaseOffboard }

// land resolves the impact. Homing rounds ride the best live designation
// in; without one they are lost. A miss scatters from the aim point.
func land(c *Context) {
	aim := c.TargetHex
	if c.Munition == catalog.MunitionHoming {
		tag, ok := homingTag(c)
		if !ok {
			c.report(report.MsgHomingNoTag)
			return
		}
		aim = tag.Hex
		if u := c.world().Unit(tag.Target); u != nil {
			c.Target = u
			aim = u.Position
		}
		c.TargetHex = aim
	}
	at := scatterHex(c, aim)
	c.reportHex(at, report.MsgLanded)

	switch c.Munition {
	case catalog.MunitionSmoke:
		c.world().DeliverSmoke(at, heavySmoke)
		for _, adj := range at.Adjacent() {
			c.world().DeliverSmoke(adj, heavySmoke)
		}
		c.reportHex(at, report.MsgSmoke, report.Int("level", heavySmoke), report.Int("radius", 1))
	case catalog.MunitionThunder:
		layMinefield(c, at)
	case catalog.MunitionIncendiary:
		blastArea(c, at)
		for _, h := range append([]terrain.Coords{at}, at.Adjacent()...) {
			if c.world().Ignite(h) {
				c.reportHex(h, report.MsgFireStarted, report.Str("cause", "incendiary"))
			}
		}
	default:
		blastArea(c, at)
	}
}

// homingTag picks the highest priority designation that hit.
func homingTag(c *Context) (world.Tag, bool) {
	for _, t := range c.world().Tags() {
		if t.Hit {
			return t, true
		}
	}
	return world.Tag{}, false
}

// blastArea deals full damage in the impact hex and half to the ring
// around it.
func blastArea(c *Context, at terrain.Coords) {
	blast(c, at, c.Damage)
	if half := c.Damage / 2; half > 0 {
		for _, adj := range at.Adjacent() {
			blast(c, adj, half)
		}
	}
}

// blast hits every unit in a hex and then the hex itself. A building that
// already soaked damage for the units inside takes only the rest.
func blast(c *Context, at terrain.Coords, dmg int) {
	if dmg <= 0 {
		return
	}
	h := c.world().Hex(at)
	cf := 0
	if h.Building != nil {
		cf = h.Building.CF
	}
	for _, u := range c.world().UnitsAt(at, true) {
		for left := dmg; left > 0; left -= artilleryCluster {
			applyToUnit(c, u, min(artilleryCluster, left))
		}
	}
	terrainDmg := dmg
	if h.Building != nil {
		terrainDmg -= cf - h.Building.CF
	}
	if terrainDmg > 0 && (h.Wooded() || h.Building != nil) {
		damageTerrain(c, at, terrainDmg)
	}
}
