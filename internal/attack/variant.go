package attack

import (
	"FireResolver/internal/catalog"
)

// Flags categorise a variant.
type Flags uint16

const (
	FlagCluster Flags = 1 << iota
	FlagBay
	FlagNonDamage
	FlagAreaEffect
	FlagMultiPhase
	FlagEnergy
	FlagStreak
)

func (f Flags) Has(x Flags) bool { return f&x != 0 }

// Variant describes how one weapon family and munition pairing resolves. A
// nil stage function falls back to the shared base behavior. Variants are
// static and shared between attacks.
type Variant struct {
	Name  string
	Flags Flags
	// Group is how many hits share one location roll. Zero rolls each hit
	// separately.
	Group int
	// Grouping overrides Group when the grouping depends on the ammunition.
	Grouping func(c *Context) int
	// ClusterOffset is a fixed modifier to the cluster roll.
	ClusterOffset int
	// ClusterModifier adds a situational modifier to the cluster roll.
	ClusterModifier func(c *Context) int

	Prefire    func(c *Context) bool
	HitCount   func(c *Context) int
	BaseDamage func(c *Context) int
	// Adjust applies the munition-specific override last in the damage
	// chain.
	Adjust func(c *Context, dmg int) int
	Apply  func(c *Context)
	Post   func(c *Context)
	// Continue is offered a pending context on each phase Cares accepts and
	// returns the stage to move to: StagePending to keep waiting, a stage to
	// re-enter the pipeline at, or StageResolved.
	Continue func(c *Context, phase Phase) Stage
	Cares    func(phase Phase) bool
}

func (v *Variant) prefire(c *Context) bool {
	if v.Prefire != nil {
		return v.Prefire(c)
	}
	return basePrefire(c)
}

func (v *Variant) hitCount(c *Context) int {
	if v.HitCount != nil {
		return v.HitCount(c)
	}
	if v.Flags.Has(FlagCluster) {
		return clusterHitCount(c)
	}
	return baseHitCount(c)
}

func (v *Variant) damage(c *Context) int {
	if v.Flags.Has(FlagNonDamage) {
		return 0
	}
	base := 0
	if v.BaseDamage != nil {
		base = v.BaseDamage(c)
	} else {
		base = baseDamage(c)
	}
	// Bay volleys and area blasts are not per-hit damage; their own base
	// function does all the adjusting they need.
	if v.Flags.Has(FlagBay | FlagAreaEffect) {
		return base
	}
	return adjustDamage(c, base)
}

func (v *Variant) apply(c *Context) {
	if v.Apply != nil {
		v.Apply(c)
		return
	}
	baseApply(c)
}

func (v *Variant) post(c *Context) {
	if v.Post != nil {
		v.Post(c)
		return
	}
	basePost(c)
}

func (v *Variant) group(c *Context) int {
	if v.Grouping != nil {
		return v.Grouping(c)
	}
	return v.Group
}

func (v *Variant) cares(phase Phase) bool {
	return v.Cares != nil && v.Cares(phase)
}

type variantKey struct {
	family   catalog.Family
	munition catalog.Munition
}

// Lookup returns the variant for a weapon family firing a munition. A
// munition without its own entry resolves as the family's standard round.
func Lookup(f catalog.Family, m catalog.Munition) *Variant {
	if v, ok := variants[variantKey{f, m}]; ok {
		return v
	}
	if v, ok := variants[variantKey{f, catalog.MunitionStandard}]; ok {
		return v
	}
	return directFire
}
