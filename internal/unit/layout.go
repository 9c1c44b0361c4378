package unit

import (
	"fmt"

	"FireResolver/internal/dice"
)

// Side is the arc an attack strikes from.
type Side int

const (
	SideFront Side = iota
	SideLeft
	SideRight
	SideRear
)

func (s *Side) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	for _, v := range []Side{SideFront, SideLeft, SideRight, SideRear} {
		if v.String() == name {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown attack side %q", name)
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideRear:
		return "rear"
	default:
		return "front"
	}
}

// Standard location names.
const (
	LocHead        = "HD"
	LocCenterTorso = "CT"
	LocLeftTorso   = "LT"
	LocRightTorso  = "RT"
	LocLeftArm     = "LA"
	LocRightArm    = "RA"
	LocLeftLeg     = "LL"
	LocRightLeg    = "RL"

	LocFront  = "Front"
	LocLeft   = "Left"
	LocRight  = "Right"
	LocRear   = "Rear"
	LocTurret = "Turret"

	LocTroopers = "Troopers"

	LocTorso   = "Torso"
	LocLegs    = "Legs"
	LocMainGun = "MainGun"

	LocNose      = "Nose"
	LocLeftWing  = "LeftWing"
	LocRightWing = "RightWing"
	LocAft       = "Aft"
)

func mekLayout(armor, internal int) []Location {
	return []Location{
		{Name: LocHead, Armor: min(armor, 9), Internal: 3},
		{Name: LocCenterTorso, Armor: armor, RearArmor: armor / 2, HasRear: true, Internal: internal},
		{Name: LocLeftTorso, Armor: armor, RearArmor: armor / 2, HasRear: true, Internal: internal, Transfer: LocCenterTorso, Pair: LocRightTorso},
		{Name: LocRightTorso, Armor: armor, RearArmor: armor / 2, HasRear: true, Internal: internal, Transfer: LocCenterTorso, Pair: LocLeftTorso},
		{Name: LocLeftArm, Armor: armor, Internal: internal, Transfer: LocLeftTorso, Pair: LocRightArm},
		{Name: LocRightArm, Armor: armor, Internal: internal, Transfer: LocRightTorso, Pair: LocLeftArm},
		{Name: LocLeftLeg, Armor: armor, Internal: internal, Transfer: LocLeftTorso, Pair: LocRightLeg, Leg: true},
		{Name: LocRightLeg, Armor: armor, Internal: internal, Transfer: LocRightTorso, Pair: LocLeftLeg, Leg: true},
	}
}

func tankLayout(armor, internal int) []Location {
	return []Location{
		{Name: LocFront, Armor: armor, Internal: internal},
		{Name: LocLeft, Armor: armor, Internal: internal, Pair: LocRight},
		{Name: LocRight, Armor: armor, Internal: internal, Pair: LocLeft},
		{Name: LocRear, Armor: armor, Internal: internal},
		{Name: LocTurret, Armor: armor, Internal: internal, Transfer: LocFront},
	}
}

func battleArmorLayout(troopers, armor int) []Location {
	locs := make([]Location, troopers)
	for i := range locs {
		locs[i] = Location{Name: fmt.Sprintf("T%d", i+1), Armor: armor, Internal: 1}
	}
	return locs
}

func protoLayout(armor, internal int) []Location {
	return []Location{
		{Name: LocHead, Armor: armor, Internal: internal, Transfer: LocTorso},
		{Name: LocTorso, Armor: armor, Internal: internal},
		{Name: LocLeftArm, Armor: armor, Internal: internal, Transfer: LocTorso, Pair: LocRightArm},
		{Name: LocRightArm, Armor: armor, Internal: internal, Transfer: LocTorso, Pair: LocLeftArm},
		{Name: LocLegs, Armor: armor, Internal: internal, Transfer: LocTorso, Leg: true},
		{Name: LocMainGun, Armor: armor, Internal: internal, Transfer: LocTorso},
	}
}

func aeroLayout(armor, internal int) []Location {
	return []Location{
		{Name: LocNose, Armor: armor, Internal: internal},
		{Name: LocLeftWing, Armor: armor, Internal: internal, Pair: LocRightWing},
		{Name: LocRightWing, Armor: armor, Internal: internal, Pair: LocLeftWing},
		{Name: LocAft, Armor: armor, Internal: internal},
	}
}

// Layout returns the default location set for kind with uniform armor and
// internal structure. Battle armor takes troopers as its location count.
func Layout(kind Kind, armor, internal, troopers int) []Location {
	switch kind {
	case KindMek:
		return mekLayout(armor, internal)
	case KindTank:
		return tankLayout(armor, internal)
	case KindBattleArmor:
		return battleArmorLayout(troopers, armor)
	case KindProtoMek:
		return protoLayout(armor, internal)
	case KindAero, KindCapital:
		return aeroLayout(armor, internal)
	default:
		return []Location{{Name: LocTroopers, Internal: troopers}}
	}
}

// 2d6 hit tables, index 0 is a roll of 2.
var hitTables = map[Kind]map[Side][11]string{
	KindMek: {
		SideFront: {LocCenterTorso, LocRightArm, LocRightArm, LocRightLeg, LocRightTorso, LocCenterTorso, LocLeftTorso, LocLeftLeg, LocLeftArm, LocLeftArm, LocHead},
		SideRear:  {LocCenterTorso, LocRightArm, LocRightArm, LocRightLeg, LocRightTorso, LocCenterTorso, LocLeftTorso, LocLeftLeg, LocLeftArm, LocLeftArm, LocHead},
		SideLeft:  {LocLeftTorso, LocLeftLeg, LocLeftArm, LocLeftArm, LocLeftLeg, LocLeftTorso, LocCenterTorso, LocRightTorso, LocRightArm, LocRightLeg, LocHead},
		SideRight: {LocRightTorso, LocRightLeg, LocRightArm, LocRightArm, LocRightLeg, LocRightTorso, LocCenterTorso, LocLeftTorso, LocLeftArm, LocLeftLeg, LocHead},
	},
	KindTank: {
		SideFront: {LocFront, LocFront, LocFront, LocRight, LocFront, LocFront, LocFront, LocLeft, LocTurret, LocTurret, LocTurret},
		SideRear:  {LocRear, LocRear, LocRear, LocLeft, LocRear, LocRear, LocRear, LocRight, LocTurret, LocTurret, LocTurret},
		SideLeft:  {LocLeft, LocLeft, LocLeft, LocFront, LocLeft, LocLeft, LocLeft, LocRear, LocTurret, LocTurret, LocTurret},
		SideRight: {LocRight, LocRight, LocRight, LocRear, LocRight, LocRight, LocRight, LocFront, LocTurret, LocTurret, LocTurret},
	},
	KindProtoMek: {
		SideFront: {LocMainGun, LocLeftArm, LocLegs, LocRightArm, LocTorso, LocTorso, LocTorso, LocLeftArm, LocLegs, LocRightArm, LocHead},
	},
	KindAero: {
		SideFront: {LocNose, LocRightWing, LocNose, LocRightWing, LocNose, LocNose, LocNose, LocLeftWing, LocNose, LocLeftWing, LocNose},
		SideLeft:  {LocNose, LocLeftWing, LocLeftWing, LocNose, LocLeftWing, LocLeftWing, LocLeftWing, LocAft, LocLeftWing, LocAft, LocLeftWing},
		SideRight: {LocNose, LocRightWing, LocRightWing, LocNose, LocRightWing, LocRightWing, LocRightWing, LocAft, LocRightWing, LocAft, LocRightWing},
		SideRear:  {LocAft, LocLeftWing, LocAft, LocLeftWing, LocAft, LocAft, LocAft, LocRightWing, LocAft, LocRightWing, LocAft},
	},
}

// Hit is a resolved hit location plus the modifiers later critical rolls see.
type Hit struct {
	Location string
	Side     Side
	Rear     bool
	// ThroughArmor marks the table's roll-of-2 result, which always checks
	// for a critical hit.
	ThroughArmor bool
	CritModifier int
	Glancing     bool
	Redirected   bool
}

// RollLocation rolls a hit location on u's table for the given side.
// Destroyed locations redirect along the transfer chain, then to the paired
// location.
func RollLocation(u *Unit, side Side, r dice.Roller) Hit {
	hit := Hit{Side: side}
	switch u.Kind {
	case KindInfantry:
		hit.Location = LocTroopers
		return hit
	case KindBattleArmor:
		hit.Location = battleArmorTrooper(u, r)
		return hit
	}
	tables := hitTables[u.Kind]
	if u.Kind == KindCapital {
		tables = hitTables[KindAero]
	}
	table, ok := tables[side]
	if !ok {
		table = tables[SideFront]
	}
	roll := dice.Roll2D6(r)
	hit.Location = table[roll-2]
	hit.ThroughArmor = roll == 2
	hit.Rear = side == SideRear && u.Kind == KindMek
	return u.Redirect(hit)
}

// battleArmorTrooper picks a trooper with a d6. A roll naming a dead or
// missing trooper moves on to the next living one.
func battleArmorTrooper(u *Unit, r dice.Roller) string {
	n := len(u.Locations)
	if n == 0 {
		return ""
	}
	start := (r.D6() - 1) % n
	for i := 0; i < n; i++ {
		loc := u.Locations[(start+i)%n]
		if !loc.Destroyed {
			return loc.Name
		}
	}
	return u.Locations[start].Name
}

// Redirect moves a hit off a destroyed location.
func (u *Unit) Redirect(hit Hit) Hit {
	seen := map[string]bool{}
	for {
		loc := u.Location(hit.Location)
		if loc == nil || !loc.Destroyed || seen[hit.Location] {
			return hit
		}
		seen[hit.Location] = true
		next := loc.Transfer
		if next == "" {
			next = loc.Pair
		}
		if next == "" {
			return hit
		}
		hit.Location = next
		hit.Redirected = true
		if l := u.Location(next); l == nil || !l.HasRear {
			hit.Rear = false
		}
	}
}
