package attack

import (
	"FireResolver/internal/catalog"
	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/rules"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

// Context is the state of one fired weapon, threaded through every stage.
// The dispatcher owns it; stages must not keep a reference past their call.
type Context struct {
	ID      string
	Request Request
	Phase   Phase

	Attacker  *unit.Unit
	Target    *unit.Unit
	TargetHex terrain.Coords
	Weapon    *unit.Mounted
	Type      *catalog.Weapon
	Bin       *unit.AmmoBin
	Ammo      *catalog.Ammo
	Munition  catalog.Munition
	Variant   *Variant

	Distance int
	Band     catalog.RangeBand
	Roll     int
	Margin   int

	Missed          bool
	DirectHit       bool
	Glancing        bool
	AreaMode        bool
	Strafing        bool
	FirstStrafeShot bool
	Swarm           bool
	Underwater      bool

	// Shots is the number of rounds this burst fires.
	Shots        int
	Hits         int
	Damage       int
	DamageType   world.DamageType
	CritModifier int
	// Converted is set once infantry conversion has replaced the damage.
	Converted bool

	Stage  Stage
	Status Status
	// FlightTurns counts offboard phases left before an artillery round lands.
	FlightTurns int

	landing bool
	charged bool
	hold    bool
	bay     []bayMember

	d *Dispatcher
}

func (c *Context) rules() *rules.Options { return &c.d.rules }

func (c *Context) dice() dice.Roller { return c.d.dice }

func (c *Context) world() World { return c.d.world }

func (c *Context) finish() {
	c.Stage = StageResolved
	c.Status = StatusResolved
}

// targetName is the report name of whatever is being shot at.
func (c *Context) targetName() string {
	if c.Target != nil {
		return c.Target.ID
	}
	return c.TargetHex.String()
}

func (c *Context) report(m report.Message, fields ...report.Field) {
	c.d.log.Add(report.Entry{
		Message:  m,
		Attacker: c.Attacker.ID,
		Target:   c.targetName(),
		Weapon:   c.Weapon.Slot,
		Fields:   fields,
	})
}

// reportOn records an entry about a unit other than the declared target,
// such as area damage or the firer's own weapon exploding.
func (c *Context) reportOn(u *unit.Unit, m report.Message, fields ...report.Field) {
	c.d.log.Add(report.Entry{
		Message:  m,
		Attacker: c.Attacker.ID,
		Target:   u.ID,
		Weapon:   c.Weapon.Slot,
		Fields:   fields,
	})
}

func (c *Context) reportHex(at terrain.Coords, m report.Message, fields ...report.Field) {
	c.d.log.Add(report.Entry{
		Message:  m,
		Attacker: c.Attacker.ID,
		Target:   at.String(),
		Weapon:   c.Weapon.Slot,
		Fields:   fields,
	})
}

// conventionalInfantryTarget reports whether the target is dispersed
// infantry, which collapses cluster hits and converts damage.
func (c *Context) conventionalInfantryTarget() bool {
	return c.Target != nil && c.Target.Kind.ConventionalInfantry()
}

// squadFire reports whether a battle armor squad is firing one of its squad
// weapons, every living trooper shooting at once.
func (c *Context) squadFire() bool {
	return c.Type.Squad && c.Attacker.Kind == unit.KindBattleArmor
}

// rack is the salvo size hits are counted against.
func (c *Context) rack() int {
	switch {
	case c.Variant.Flags.Has(FlagBay):
		return 1
	case c.Shots > 1:
		return c.Shots
	case c.squadFire():
		return c.Attacker.LivingTroopers() * max(c.Type.RackSize, 1)
	}
	return max(c.Type.RackSize, 1)
}

// heatTracked reports whether u keeps a heat scale that hits can add to.
func heatTracked(u *unit.Unit) bool {
	return u != nil && (u.Kind == unit.KindMek || u.Kind == unit.KindAero)
}
