package attack

import (
	"math"

	"FireResolver/internal/catalog"
	"FireResolver/internal/world"
)

const (
	acidDamage          = 1
	fragmentationDamage = 2
	// Each submunition of a cluster round is worth one point whatever the
	// gun's slug rating.
	pelletPoints = 1
)

// baseDamage is the catalog value for one hit: the ammunition's own damage
// when it has one, else rolled dice, else the range-stepped rating.
func baseDamage(c *Context) int {
	if c.Ammo != nil && c.Ammo.Damage > 0 {
		return c.Ammo.Damage
	}
	if c.Type.HasDamageDice() {
		return c.Type.RollDamage(c.dice())
	}
	return c.Type.DamageAt(c.Band)
}

// adjustDamage runs the per-hit modifier chain in its fixed order.
func adjustDamage(c *Context, dmg int) int {
	o := c.rules()
	if o.SwarmScaling && c.Swarm && c.Attacker.Kind.Squad() && c.Type.Squad {
		dmg *= c.Attacker.LivingTroopers()
	}
	if o.InfantryConversion && c.conventionalInfantryTarget() && c.Type.Family != catalog.FamilyInfantry {
		dmg = infantryDamage(c, dmg)
		c.Converted = true
	}
	if c.DirectHit && !c.Converted {
		dmg = directBonus(dmg, c.Margin)
	}
	if c.Glancing && !c.Converted {
		dmg /= 2
	}
	if o.RangeAttenuation {
		dmg = attenuate(dmg, c.Band)
	}
	if o.EnergyRangeAlteration && c.Type.Energy {
		dmg -= energyPenalty(c.Band)
	}
	if c.Variant.Adjust != nil {
		dmg = c.Variant.Adjust(c, dmg)
	}
	return max(dmg, 0)
}

// directBonus adds a third of the margin, capped at double damage.
func directBonus(dmg, margin int) int {
	return min(dmg+margin/3, dmg*2)
}

func attenuate(dmg int, band catalog.RangeBand) int {
	switch band {
	case catalog.BandLong:
		return dmg * 3 / 4
	case catalog.BandExtreme:
		return dmg / 2
	}
	return dmg
}

func energyPenalty(band catalog.RangeBand) int {
	switch band {
	case catalog.BandMedium:
		return 1
	case catalog.BandLong:
		return 2
	case catalog.BandExtreme:
		return 3
	}
	return 0
}

// infantryDamage converts a hit against dispersed infantry through the
// weapon's burst class. The direct blow bonus goes in before conversion,
// the result rounds up, troops caught in the open take double unless
// mechanized, and a glancing blow halves it rounding up.
func infantryDamage(c *Context, perHit int) int {
	base := perHit
	if c.Variant.Flags.Has(FlagCluster) && !c.squadFire() {
		base = perHit * c.rack()
	}
	bonus := 0
	if c.DirectHit {
		bonus = c.Margin / 3
	}
	r := c.dice()
	var v float64
	switch b := c.Type.Burst; b {
	case catalog.BurstClusterBallistic:
		v = float64(base+bonus)/10 + 1
	case catalog.BurstPulse:
		v = float64(base+bonus)/10 + 2
	case catalog.BurstClusterMissile:
		v = float64(base+bonus) / 5
	case catalog.BurstClusterMissile1D6, catalog.BurstClusterMissile2D6, catalog.BurstClusterMissile3D6:
		n := int(b-catalog.BurstClusterMissile1D6) + 1
		v = float64(base+bonus)/5 + float64(r.Roll(n, 6))
	case catalog.BurstHalfD6:
		v = math.Ceil(float64(r.D6())/2) + float64(bonus)
	case catalog.BurstD6, catalog.BurstTwoD6, catalog.BurstThreeD6, catalog.BurstFourD6, catalog.BurstFiveD6:
		n := int(b-catalog.BurstD6) + 1
		v = float64(r.Roll(n, 6) + bonus)
	default:
		v = float64(base+bonus) / 10
	}
	dmg := int(math.Ceil(v))
	if !c.Target.Mechanized && !inBuilding(c) {
		dmg *= 2
	}
	if c.Glancing {
		dmg = (dmg + 1) / 2
	}
	return dmg
}

func inBuilding(c *Context) bool {
	b := c.world().Hex(c.TargetHex).Building
	return b != nil && !b.Collapsed()
}

// apCritModifier is the critical roll modifier for armor-piercing rounds;
// heavier guns punch through more easily.
func apCritModifier(dmg int) int {
	switch {
	case dmg >= 20:
		return -1
	case dmg >= 10:
		return -2
	case dmg >= 5:
		return -3
	}
	return -4
}

func armorPiercing(c *Context, dmg int) int {
	c.DamageType = world.DamageArmorPiercing
	c.CritModifier = apCritModifier(c.Type.Damage)
	return dmg
}

// flechette shreds woods; it has no special effect on anything else.
func flechette(c *Context, dmg int) int {
	c.DamageType = world.DamageFlechette
	if c.Target == nil && c.world().Hex(c.TargetHex).Wooded() {
		return dmg * 2
	}
	return dmg
}

func acid(c *Context, _ int) int {
	c.DamageType = world.DamageAcid
	return acidDamage
}

// fragmentation only harms troops in the open and vegetation.
func fragmentation(c *Context, dmg int) int {
	c.DamageType = world.DamageFragmentation
	switch {
	case c.conventionalInfantryTarget():
		return fragmentationDamage
	case c.Target == nil:
		return dmg
	}
	return 0
}

func antiTSM(c *Context, dmg int) int {
	c.DamageType = world.DamageAntiTSM
	return dmg
}

// plasmaDamage is the fixed rating against units with a heat scale and
// rolled dice against everything else.
func plasmaDamage(c *Context) int {
	if heatTracked(c.Target) {
		return c.Type.Damage
	}
	return c.Type.RollDamage(c.dice())
}

func pelletDamage(c *Context) int {
	if c.Ammo != nil && c.Ammo.Damage > 0 {
		return c.Ammo.Damage
	}
	return pelletPoints
}

// capacitorDamage adds the charged capacitor's bonus to a PPC shot.
func capacitorDamage(c *Context) int {
	dmg := baseDamage(c)
	if c.Weapon.Capacitor {
		dmg += capacitorBonus
	}
	return dmg
}

// infantryWeaponDamage is a platoon's whole volley: the per-trooper rating
// times troopers still standing, rounded to nearest.
func infantryWeaponDamage(c *Context) int {
	return int(math.Round(c.Type.InfantryDamage * float64(c.Attacker.LivingTroopers())))
}
