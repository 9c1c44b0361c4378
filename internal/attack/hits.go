package attack

import (
	"slices"

	"FireResolver/internal/catalog"
	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/unit"
)

var clusterRackSizes = []int{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40}

// clusterTable[roll-2][column] is the number of hits a salvo lands.
var clusterTable = [11][13]int{
	{1, 1, 1, 1, 2, 3, 3, 3, 4, 5, 6, 10, 12},
	{1, 1, 2, 2, 2, 3, 3, 3, 4, 5, 6, 10, 12},
	{1, 1, 2, 2, 3, 4, 4, 4, 5, 6, 9, 12, 18},
	{1, 2, 2, 3, 3, 4, 5, 6, 8, 9, 12, 18, 24},
	{1, 2, 2, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{1, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{2, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{2, 2, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},
	{2, 3, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40},
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40},
}

// ClusterHits looks up the cluster table. The roll is clamped to 2..12 and
// racks between columns use the next smaller column. The result never
// exceeds the rack.
func ClusterHits(rack, roll int) int {
	if rack <= 0 {
		return 0
	}
	roll = min(max(roll, 2), 12)
	col := 0
	for i, size := range clusterRackSizes {
		if size <= rack {
			col = i
		}
	}
	return min(clusterTable[roll-2][col], rack)
}

// reportHit records a connecting attack and the glancing and direct blow
// qualifiers on it.
func reportHit(c *Context) {
	c.report(report.MsgHit, report.Int("margin", c.Margin))
	if c.Glancing {
		c.report(report.MsgGlancing)
	}
	if c.DirectHit {
		c.report(report.MsgDirectBlow, report.Int("margin", c.Margin))
	}
}

func baseHitCount(c *Context) int {
	if c.Missed {
		c.report(report.MsgMiss, report.Int("margin", c.Margin))
		return 0
	}
	reportHit(c)
	if c.squadFire() && !c.Swarm {
		if c.conventionalInfantryTarget() {
			return infantryHits(c)
		}
		return rollCluster(c, c.rack())
	}
	return 1
}

func clusterHitCount(c *Context) int {
	if c.Missed {
		c.report(report.MsgMiss, report.Int("margin", c.Margin))
		return 0
	}
	reportHit(c)
	rack := c.rack()
	switch {
	case c.Swarm && c.squadFire():
		return 1
	case c.conventionalInfantryTarget():
		return infantryHits(c)
	case c.DirectHit && c.rules().DirectBlowAllShots:
		return allShots(c, rack)
	}
	return rollCluster(c, rack)
}

// infantryHits collapses a salvo against dispersed infantry into one lump,
// or one per living trooper when battle armor is shooting.
func infantryHits(c *Context) int {
	n := 1
	if c.Attacker.Kind == unit.KindBattleArmor {
		n = c.Attacker.LivingTroopers()
	}
	c.report(report.MsgHits, report.Int("hits", n), report.Int("rack", c.rack()), report.Str("table", "infantry"))
	return n
}

// allShots lands the whole salvo, less a fraction at long and extreme range
// when that option is on.
func allShots(c *Context, rack int) int {
	n := rack
	if c.rules().AllShotsRangeReduction {
		switch c.Band {
		case catalog.BandLong:
			n = rack * 3 / 4
		case catalog.BandExtreme:
			n = rack / 2
		}
	}
	c.report(report.MsgHits, report.Int("hits", n), report.Int("rack", rack), report.Str("table", "all_shots"))
	return n
}

func rollCluster(c *Context, rack int) int {
	mod := clusterModifier(c)
	roll := dice.Roll2D6(c.dice())
	n := ClusterHits(rack, roll+mod)
	c.report(report.MsgHits,
		report.Int("hits", n),
		report.Int("rack", rack),
		report.Int("roll", roll),
		report.Int("modifier", mod),
	)
	return n
}

// clusterModifier totals every modifier to the cluster roll. Engaging AMS
// spends it for the turn.
func clusterModifier(c *Context) int {
	o := c.rules()
	v := c.Variant
	mod := v.ClusterOffset
	if v.ClusterModifier != nil {
		mod += v.ClusterModifier(c)
	}
	if o.ClusterRangeModifiers {
		switch {
		case c.Distance <= 1:
			mod++
		case c.Band > catalog.BandMedium:
			mod--
		}
	}
	if c.Glancing && o.GlancingClusterPenalty {
		mod -= 4
	}
	if !c.Type.Family.Missile() {
		return mod
	}
	if o.WeatherPenalties && c.world().Weather().StrongWind {
		mod--
	}
	ecm := c.Target != nil && c.Target.ECM
	if !ecm && c.Munition == catalog.MunitionStandard && (c.Type.Artemis || c.Weapon.Artemis) {
		mod += 2
	}
	if !ecm && c.Munition == catalog.MunitionNarcCapable && narcedBy(c.Target, c.Attacker) {
		mod += 2
	}
	if engageAMS(c) {
		mod -= 4
	}
	return mod
}

func engageAMS(c *Context) bool {
	if c.Target == nil || !c.Target.AMS.Engage() {
		return false
	}
	c.reportOn(c.Target, report.MsgAMS, report.Int("ammo", c.Target.AMS.Ammo))
	return true
}

func narcedBy(target, attacker *unit.Unit) bool {
	return target != nil && slices.Contains(target.NarcPods, side(attacker))
}

// side names the force a unit fights for. Narc pods are keyed by it.
func side(u *unit.Unit) string {
	if u.Owner != "" {
		return u.Owner
	}
	return u.ID
}

// hagModifier is the hyper-assault gauss range bonus.
func hagModifier(c *Context) int {
	switch {
	case c.Band == catalog.BandShort:
		return 2
	case c.Band > catalog.BandMedium:
		return -2
	}
	return 0
}

// streakHitCount lands the full rack on a hit. AMS forces a roll of 7 on
// the cluster table instead.
func streakHitCount(c *Context) int {
	if c.Missed {
		c.report(report.MsgMiss, report.Int("margin", c.Margin))
		return 0
	}
	reportHit(c)
	rack := c.rack()
	if c.conventionalInfantryTarget() {
		return infantryHits(c)
	}
	if engageAMS(c) {
		n := ClusterHits(rack, 7)
		c.report(report.MsgHits, report.Int("hits", n), report.Int("rack", rack), report.Int("roll", 7))
		return n
	}
	c.report(report.MsgHits, report.Int("hits", rack), report.Int("rack", rack), report.Str("table", "streak"))
	return rack
}

// burstHitCount handles ultra and rotary autocannons: a multi-shot burst
// rolls on the cluster table by shots fired, a single shot hits once.
func burstHitCount(c *Context) int {
	if c.Shots > 1 {
		return clusterHitCount(c)
	}
	return baseHitCount(c)
}
