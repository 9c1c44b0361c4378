package attack

import (
	"slices"

	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

const (
	capacitorBonus = 5
	capacitorHeat  = 5
	// Heat an inferno missile adds to a target with a heat scale.
	infernoHeat   = 2
	lightSmoke    = 1
	heavySmoke    = 2
	tagFocused    = 2
	tagStandard   = 1
	taserShutdown = 3
)

// basePost charges the firer for the shot: heat, then ammunition. It runs
// once per attack even when the context comes back from a later phase.
func basePost(c *Context) {
	if c.charged {
		return
	}
	c.charged = true
	chargeHeat(c, c.Type.Heat*c.Shots)
	spendAmmo(c, c.Shots)
	accidentalFire(c)
}

// chargeHeat adds heat to the firer. Shots after the first of a strafing
// run are free.
func chargeHeat(c *Context, heat int) {
	if c.Strafing && !c.FirstStrafeShot {
		heat = 0
	}
	if heat <= 0 {
		return
	}
	c.Attacker.Heat += heat
	c.reportOn(c.Attacker, report.MsgHeat, report.Int("heat", heat), report.Int("total", c.Attacker.Heat))
}

// spendAmmo takes n rounds from the linked bin and relinks to a spare bin
// when it runs empty.
func spendAmmo(c *Context, n int) {
	if !c.Type.NeedsAmmo() || c.Bin == nil || n <= 0 {
		return
	}
	c.Bin.Shots -= min(n, c.Bin.Shots)
	if c.Bin.Shots > 0 {
		return
	}
	if alt := c.Attacker.AlternateBin(c.Bin.Type, c.Bin.Slot); alt != nil {
		relink(c, alt)
	}
}

// accidentalFire gives an energy weapon rolling a natural 12 a chance to
// set the target hex alight.
func accidentalFire(c *Context) {
	if !c.rules().AccidentalFire || !c.Type.Energy || c.Roll != 12 {
		return
	}
	if c.world().Ignite(c.TargetHex) {
		c.reportHex(c.TargetHex, report.MsgFireStarted, report.Str("cause", "accidental"))
	}
}

func igniteOnHit(c *Context) {
	if c.Missed {
		return
	}
	if c.world().Ignite(c.TargetHex) {
		c.reportHex(c.TargetHex, report.MsgFireStarted, report.Str("cause", "incendiary"))
	}
}

// scatterHex is where a delivered payload comes down. A miss drifts a
// number of hexes equal to the margin of failure in a random direction.
func scatterHex(c *Context, from terrain.Coords) terrain.Coords {
	if !c.Missed {
		return from
	}
	dir := c.dice().D6() - 1
	n := -c.Margin
	at := from.Translated(dir, n)
	c.reportHex(at, report.MsgScatter,
		report.Str("from", from.String()),
		report.Int("direction", dir),
		report.Int("distance", n),
	)
	return at
}

func streakPost(c *Context) {
	if c.Missed {
		return
	}
	basePost(c)
}

func oneShotPost(c *Context) {
	basePost(c)
	c.Weapon.Spent = true
}

func ppcPost(c *Context) {
	basePost(c)
	if !c.Weapon.Capacitor {
		return
	}
	c.Weapon.Capacitor = false
	c.Attacker.Heat += capacitorHeat
	c.report(report.MsgCapacitor, report.Int("bonus", capacitorBonus), report.Int("heat", capacitorHeat))
}

func incendiaryPost(c *Context) {
	basePost(c)
	igniteOnHit(c)
}

// flamerApply turns a flamer in heat mode into heat on the target when the
// target has a heat scale to take it.
func flamerApply(c *Context) {
	if c.Weapon.Mode == unit.ModeHeat && c.Hits > 0 && heatTracked(c.Target) {
		inflictHeat(c, c.Damage*c.Hits)
		return
	}
	baseApply(c)
}

func flamerPost(c *Context) {
	basePost(c)
	if c.Target == nil {
		igniteOnHit(c)
	}
}

// plasmaApply deals damage and adds a d6 of heat to targets with a heat
// scale.
func plasmaApply(c *Context) {
	c.DamageType = world.DamageIncendiary
	baseApply(c)
	if c.Hits > 0 && heatTracked(c.Target) {
		inflictHeat(c, c.dice().D6())
	}
}

// infernoApply burns heat-tracking targets instead of damaging them.
func infernoApply(c *Context) {
	c.DamageType = world.DamageIncendiary
	if c.Hits > 0 && heatTracked(c.Target) {
		inflictHeat(c, infernoHeat*c.Hits)
		return
	}
	baseApply(c)
}

func inflictHeat(c *Context, heat int) {
	if c.world().InflictHeat(c.Target, heat) {
		c.report(report.MsgHeatInflicted, report.Int("heat", heat), report.Int("total", c.Target.HeatInflicted))
	}
}

// thunderDensity is the minefield a missile salvo lays: a fifth of the rack.
func thunderDensity(c *Context) int {
	if c.Variant.Flags.Has(FlagMultiPhase) {
		return c.Type.Damage
	}
	return max(c.Type.RackSize/5, 1)
}

func minefieldPost(c *Context) {
	basePost(c)
	at := scatterHex(c, c.TargetHex)
	layMinefield(c, at)
}

func layMinefield(c *Context, at terrain.Coords) {
	m := terrain.Minefield{Density: thunderDensity(c), Owner: side(c.Attacker)}
	c.world().DeliverMinefield(at, m)
	c.reportHex(at, report.MsgMinefield, report.Int("density", m.Density))
}

func smokePost(c *Context) {
	basePost(c)
	at := scatterHex(c, c.TargetHex)
	c.world().DeliverSmoke(at, lightSmoke)
	c.reportHex(at, report.MsgSmoke, report.Int("level", lightSmoke))
}

func narcPost(c *Context) {
	basePost(c)
	if c.Missed || c.Target == nil {
		return
	}
	if s := side(c.Attacker); !slices.Contains(c.Target.NarcPods, s) {
		c.Target.NarcPods = append(c.Target.NarcPods, s)
	}
	c.report(report.MsgNarcAttached, report.Int("pods", len(c.Target.NarcPods)))
}

// tagPost paints the target. The designation is recorded even on a miss and
// lasts until the end phase.
func tagPost(c *Context) {
	basePost(c)
	priority := tagStandard
	if c.Weapon.Mode == unit.ModeFocused {
		priority = tagFocused
	}
	target := ""
	if c.Target != nil {
		target = c.Target.ID
	}
	c.world().AddTag(world.Tag{
		ID:       c.ID,
		Attacker: c.Attacker.ID,
		Target:   target,
		Hex:      c.TargetHex,
		Priority: priority,
		Hit:      !c.Missed,
	})
	hit := 0
	if !c.Missed {
		hit = 1
	}
	c.report(report.MsgTagged, report.Int("priority", priority), report.Int("hit", hit))
	c.hold = true
}

func tagExpire(c *Context, _ Phase) Stage {
	c.world().RemoveTag(c.ID)
	c.report(report.MsgTagExpired)
	return StageResolved
}

func caresEnd(p Phase) bool { return p == PhaseEnd }

// taserPost shocks the target on a hit and may feed back into the firer.
func taserPost(c *Context) {
	basePost(c)
	if c.Missed || c.Target == nil {
		return
	}
	t := c.Target
	roll := dice.Roll2D6(c.dice())
	switch t.Kind {
	case unit.KindMek, unit.KindTank, unit.KindProtoMek, unit.KindAero:
		if roll >= 8 {
			shutdown(c, t, taserShutdown, roll)
			break
		}
		turns := 3
		if t.Kind == unit.KindTank {
			turns = 2
		}
		t.Interference = max(t.Interference, 1)
		t.InterferenceTurns = max(t.InterferenceTurns, turns)
		c.report(report.MsgInterference, report.Int("roll", roll), report.Int("turns", turns))
	case unit.KindBattleArmor:
		if roll >= 9 {
			shutdown(c, t, taserShutdown, roll)
			break
		}
		c.report(report.MsgTaserNoEffect, report.Int("roll", roll))
	default:
		c.report(report.MsgTaserNoEffect, report.Int("roll", roll))
	}
	if !c.rules().TaserFeedback {
		return
	}
	feedback := dice.Roll2D6(c.dice())
	turns := 0
	if feedback >= 10 {
		turns = 1
		c.Attacker.ShutdownTurns = max(c.Attacker.ShutdownTurns, turns)
	}
	c.reportOn(c.Attacker, report.MsgTaserFeedback, report.Int("roll", feedback), report.Int("turns", turns))
}

func shutdown(c *Context, u *unit.Unit, turns, roll int) {
	u.ShutdownTurns = max(u.ShutdownTurns, turns)
	c.reportOn(u, report.MsgShutdown, report.Int("roll", roll), report.Int("turns", turns))
}
