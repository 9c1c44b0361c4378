package world

import (
	"go.uber.org/zap"

	"FireResolver/internal/dice"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
)

// DamageType tags damage with the munition effect that produced it.
type DamageType int

const (
	DamageNormal DamageType = iota
	DamageArmorPiercing
	DamageFragmentation
	DamageAcid
	DamageAntiTSM
	DamageIncendiary
	DamageFlechette
	DamageCapital
)

func (t DamageType) String() string {
	switch t {
	case DamageArmorPiercing:
		return "armor_piercing"
	case DamageFragmentation:
		return "fragmentation"
	case DamageAcid:
		return "acid"
	case DamageAntiTSM:
		return "anti_tsm"
	case DamageIncendiary:
		return "incendiary"
	case DamageFlechette:
		return "flechette"
	case DamageCapital:
		return "capital"
	default:
		return "normal"
	}
}

// Damage is one hit group handed to DamageUnit.
type Damage struct {
	Amount       int
	Type         DamageType
	CritModifier int
	// ThroughFront forces the front armor of a torso even on rear-side hits.
	ThroughFront bool
	// Underwater hits check for a hull breach critical on any armor damage.
	Underwater bool
}

// Applied describes what a DamageUnit call did.
type Applied struct {
	Location        string
	Armor           int
	Internal        int
	Troopers        int
	Crits           int
	Destroyed       []string
	UnitDestroyed   bool
	Lost            int
	TransferredFrom []string
}

// DamageUnit applies d to u at hit. Damage strips armor (rear armor for rear
// hits on torsos), then internal structure; a location with no structure
// left is destroyed and the rest of the damage carries along the transfer
// chain. A destroyed location with nowhere to transfer kills the unit.
func (s *State) DamageUnit(u *unit.Unit, hit unit.Hit, d Damage) Applied {
	res := Applied{Location: hit.Location}
	if d.Amount <= 0 || u.Destroyed() {
		return res
	}
	switch u.Kind {
	case unit.KindInfantry:
		s.damageInfantry(u, d, &res)
	case unit.KindBattleArmor:
		s.damageTrooper(u, hit, d, &res)
	default:
		s.damageStructure(u, hit, d, &res)
	}
	if d.Type == DamageAntiTSM && u.Kind == unit.KindMek && !u.TSMDisabled {
		u.TSMDisabled = true
	}
	s.log.Debug("unit damaged",
		zap.String("unit", u.ID),
		zap.String("location", res.Location),
		zap.Int("amount", d.Amount),
		zap.Stringer("type", d.Type),
		zap.Int("armor", res.Armor),
		zap.Int("internal", res.Internal),
		zap.Int("crits", res.Crits),
		zap.Bool("killed", res.UnitDestroyed),
	)
	return res
}

func (s *State) damageInfantry(u *unit.Unit, d Damage, res *Applied) {
	killed := min(d.Amount, u.Troopers)
	u.Troopers -= killed
	if loc := u.Location(unit.LocTroopers); loc != nil {
		loc.Internal = u.Troopers
		loc.Destroyed = u.Troopers == 0
	}
	res.Troopers = killed
	res.Lost = d.Amount - killed
	if u.Troopers == 0 {
		u.Killed = true
		res.UnitDestroyed = true
	}
}

func (s *State) damageTrooper(u *unit.Unit, hit unit.Hit, d Damage, res *Applied) {
	loc := u.Location(hit.Location)
	if loc == nil || loc.Destroyed {
		res.Lost = d.Amount
		return
	}
	remaining := d.Amount
	a := min(loc.Armor, remaining)
	loc.Armor -= a
	remaining -= a
	res.Armor = a
	if remaining > 0 {
		i := min(loc.Internal, remaining)
		loc.Internal -= i
		remaining -= i
		res.Internal = i
	}
	if loc.Internal == 0 {
		loc.Destroyed = true
		res.Destroyed = append(res.Destroyed, loc.Name)
		res.Troopers = 1
	}
	res.Lost = remaining
	if u.LivingTroopers() == 0 {
		u.Killed = true
		res.UnitDestroyed = true
	}
}

func (s *State) damageStructure(u *unit.Unit, hit unit.Hit, d Damage, res *Applied) {
	remaining := d.Amount
	name := hit.Location
	rear := hit.Rear && !d.ThroughFront
	first := true
	for remaining > 0 {
		loc := u.Location(name)
		if loc == nil {
			res.Lost = remaining
			return
		}
		if loc.Destroyed {
			if loc.Transfer == "" {
				res.Lost = remaining
				return
			}
			name = loc.Transfer
			rear = false
			continue
		}
		armor := &loc.Armor
		if rear && loc.HasRear {
			armor = &loc.RearArmor
		}
		a := min(*armor, remaining)
		*armor -= a
		remaining -= a
		res.Armor += a
		structural := 0
		if remaining > 0 {
			structural = min(loc.Internal, remaining)
			loc.Internal -= structural
			remaining -= structural
			res.Internal += structural
		}
		if (first && hit.ThroughArmor) || structural > 0 || (d.Underwater && a > 0) {
			res.Crits += s.CriticalCheck(u, loc.Name, critModifier(hit, d))
		}
		first = false
		if loc.Internal > 0 {
			break
		}
		loc.Destroyed = true
		res.Destroyed = append(res.Destroyed, loc.Name)
		if loc.Transfer == "" {
			u.Killed = true
			res.UnitDestroyed = true
			res.Lost = remaining
			return
		}
		if remaining > 0 {
			res.TransferredFrom = append(res.TransferredFrom, loc.Name)
		}
		name = loc.Transfer
		rear = false
	}
}

func critModifier(hit unit.Hit, d Damage) int {
	mod := hit.CritModifier + d.CritModifier
	if hit.Glancing {
		mod -= 2
	}
	return mod
}

// CriticalCheck rolls for critical hits at location and returns how many
// occurred: 8-9 one, 10-11 two, 12 or better three.
func (s *State) CriticalCheck(u *unit.Unit, location string, modifier int) int {
	roll := dice.Roll2D6(s.roller) + modifier
	n := 0
	switch {
	case roll >= 12:
		n = 3
	case roll >= 10:
		n = 2
	case roll >= 8:
		n = 1
	}
	u.Crits += n
	if n > 0 {
		s.log.Debug("critical hit", zap.String("unit", u.ID), zap.String("location", location), zap.Int("roll", roll), zap.Int("crits", n))
	}
	return n
}

// ExplodeWeapon destroys the weapon in slot and deals dmg straight to the
// internal structure of its mount location.
func (s *State) ExplodeWeapon(u *unit.Unit, slot string, dmg int) Applied {
	w := u.Weapon(slot)
	if w == nil {
		return Applied{}
	}
	w.Destroyed = true
	loc := u.Location(w.Location)
	if loc == nil {
		return Applied{Location: w.Location, Lost: dmg}
	}
	saved := loc.Armor
	loc.Armor = 0
	res := s.DamageUnit(u, unit.Hit{Location: loc.Name}, Damage{Amount: dmg})
	if !loc.Destroyed {
		loc.Armor = saved
	}
	s.log.Debug("weapon exploded", zap.String("unit", u.ID), zap.String("slot", slot), zap.Int("damage", dmg))
	return res
}

// InflictHeat adds heat built up by a hit. Units without a heat scale take
// nothing.
func (s *State) InflictHeat(u *unit.Unit, heat int) bool {
	if heat <= 0 || (u.Kind != unit.KindMek && u.Kind != unit.KindAero) {
		return false
	}
	u.HeatInflicted += heat
	return true
}

// BuildingResult describes damage dealt to a building.
type BuildingResult struct {
	Damage    int
	CF        int
	Collapsed bool
}

// DamageBuilding deals dmg to the construction factor of the building at c.
func (s *State) DamageBuilding(c terrain.Coords, dmg int) (BuildingResult, bool) {
	b := s.Hex(c).Building
	if b == nil || b.Collapsed() {
		return BuildingResult{}, false
	}
	dealt := min(dmg, b.CF)
	b.CF -= dealt
	b.Absorption = min(b.Absorption, b.CF)
	return BuildingResult{Damage: dealt, CF: b.CF, Collapsed: b.Collapsed()}, true
}

// ClearWoods applies clearing damage to the woods at c.
func (s *State) ClearWoods(c terrain.Coords, dmg int) bool {
	return s.Hex(c).Clear(dmg)
}

// DeliverMinefield lays a field in hex c.
func (s *State) DeliverMinefield(c terrain.Coords, m terrain.Minefield) {
	h := s.Hex(c)
	h.Minefields = append(h.Minefields, m)
}

// DeliverSmoke fills hex c with smoke. Denser smoke replaces lighter.
func (s *State) DeliverSmoke(c terrain.Coords, level int) {
	h := s.Hex(c)
	h.Smoke = max(h.Smoke, level)
}

// Ignite starts a fire at c and reports whether it took.
func (s *State) Ignite(c terrain.Coords) bool {
	h := s.Hex(c)
	if !h.Flammable() || h.Fire {
		return false
	}
	h.Fire = true
	return true
}
