// Package unit is the mutable per-unit state an attack reads and damages.
package unit

import (
	"fmt"
	"strings"

	"FireResolver/internal/terrain"
)

// Kind is the broad unit type. Hit tables, damage conversion and status
// effects all key off it.
type Kind int

const (
	KindMek Kind = iota
	KindTank
	KindInfantry
	KindBattleArmor
	KindProtoMek
	KindAero
	KindCapital
)

var kindNames = map[string]Kind{
	"mek":          KindMek,
	"tank":         KindTank,
	"infantry":     KindInfantry,
	"battle_armor": KindBattleArmor,
	"protomek":     KindProtoMek,
	"aero":         KindAero,
	"capital":      KindCapital,
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := kindNames[s]
	if !ok {
		return fmt.Errorf("unknown unit kind %q", s)
	}
	*k = v
	return nil
}

// ConventionalInfantry reports whether the unit is dispersed infantry.
func (k Kind) ConventionalInfantry() bool { return k == KindInfantry }

// Squad reports whether the unit fights as a group of troopers.
func (k Kind) Squad() bool { return k == KindInfantry || k == KindBattleArmor }

// Mode is a weapon's selected fire mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeUltra
	ModeHeat
	ModeInhibitorOff
	ModeFocused
)

var modeNames = map[string]Mode{
	"normal":        ModeNormal,
	"ultra":         ModeUltra,
	"heat":          ModeHeat,
	"inhibitor_off": ModeInhibitorOff,
	"focused":       ModeFocused,
}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := modeNames[s]
	if !ok {
		return fmt.Errorf("unknown fire mode %q", s)
	}
	*m = v
	return nil
}

// Location is one armored section of a unit.
type Location struct {
	Name      string `yaml:"name"`
	Armor     int    `yaml:"armor"`
	RearArmor int    `yaml:"rear_armor,omitempty"`
	HasRear   bool   `yaml:"has_rear,omitempty"`
	Internal  int    `yaml:"internal"`
	Destroyed bool   `yaml:"destroyed,omitempty"`
	Transfer  string `yaml:"transfer,omitempty"`
	Pair      string `yaml:"pair,omitempty"`
	Leg       bool   `yaml:"leg,omitempty"`
}

// Mounted is a weapon installed on a unit.
type Mounted struct {
	Slot     string   `yaml:"slot"`
	Type     string   `yaml:"type"`
	Location string   `yaml:"location"`
	Ammo     string   `yaml:"ammo,omitempty"`
	Mode     Mode     `yaml:"mode,omitempty"`
	Shots    int      `yaml:"shots,omitempty"`
	Quirks   []string `yaml:"quirks,omitempty"`
	Bay      []string `yaml:"bay,omitempty"`
	Artemis  bool     `yaml:"artemis,omitempty"`
	// Capacitor is a charged PPC capacitor, discharged by the next shot.
	Capacitor bool `yaml:"capacitor,omitempty"`

	Jammed    bool `yaml:"jammed,omitempty"`
	Destroyed bool `yaml:"destroyed,omitempty"`
	Breached  bool `yaml:"breached,omitempty"`
	Spent     bool `yaml:"spent,omitempty"`
}

// Ready reports whether the weapon can fire this activation.
func (m *Mounted) Ready() bool {
	return m != nil && !m.Jammed && !m.Destroyed && !m.Breached && !m.Spent
}

// HasQuirk reports whether the weapon carries the named quirk.
func (m *Mounted) HasQuirk(quirk string) bool {
	return hasKeyword(quirk, m.Quirks)
}

// AmmoBin is a magazine of one ammunition type.
type AmmoBin struct {
	Slot     string `yaml:"slot"`
	Type     string `yaml:"type"`
	Shots    int    `yaml:"shots"`
	Location string `yaml:"location,omitempty"`
}

// AMS is an anti-missile system protecting the unit.
type AMS struct {
	Ammo         int  `yaml:"ammo"`
	Laser        bool `yaml:"laser,omitempty"`
	UsedThisTurn bool `yaml:"used_this_turn,omitempty"`
	Heat         int  `yaml:"heat,omitempty"`
}

// Engage spends the system for the turn. It reports false when the system
// has already fired or is out of ammunition.
func (a *AMS) Engage() bool {
	if a == nil || a.UsedThisTurn {
		return false
	}
	if !a.Laser {
		if a.Ammo <= 0 {
			return false
		}
		a.Ammo--
	}
	a.UsedThisTurn = true
	return true
}

// Unit is a combat unit on the board.
type Unit struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Owner    string         `yaml:"owner"`
	Kind     Kind           `yaml:"kind"`
	Position terrain.Coords `yaml:"position"`
	Facing   int            `yaml:"facing"`

	Locations []Location `yaml:"locations,omitempty"`
	Weapons   []Mounted  `yaml:"weapons,omitempty"`
	Bins      []AmmoBin  `yaml:"bins,omitempty"`
	Quirks    []string   `yaml:"quirks,omitempty"`

	// Uniform armor/internal used when Locations is omitted.
	Armor    int `yaml:"armor,omitempty"`
	Internal int `yaml:"internal,omitempty"`

	Heat       int  `yaml:"heat"`
	Troopers   int  `yaml:"troopers,omitempty"`
	Mechanized bool `yaml:"mechanized,omitempty"`
	AMS        *AMS `yaml:"ams,omitempty"`
	ECM        bool `yaml:"ecm,omitempty"`
	Threshold  int  `yaml:"threshold,omitempty"`

	ShutdownTurns     int      `yaml:"shutdown_turns,omitempty"`
	Interference      int      `yaml:"interference,omitempty"`
	InterferenceTurns int      `yaml:"interference_turns,omitempty"`
	Swarming          string   `yaml:"swarming,omitempty"`
	PartialCover      bool     `yaml:"partial_cover,omitempty"`
	NarcPods          []string `yaml:"narc_pods,omitempty"`
	TSMDisabled       bool     `yaml:"tsm_disabled,omitempty"`
	HeatInflicted     int      `yaml:"heat_inflicted,omitempty"`
	Crits             int      `yaml:"crits,omitempty"`
	Killed            bool     `yaml:"killed,omitempty"`
	// ArcsFired lists locations whose bays already paid arc heat this turn.
	ArcsFired []string `yaml:"arcs_fired,omitempty"`

	index map[string]int
}

// LocationIndex returns the index of the named location, or -1.
func (u *Unit) LocationIndex(name string) int {
	if u.index == nil {
		u.reindex()
	}
	if i, ok := u.index[name]; ok {
		return i
	}
	return -1
}

func (u *Unit) reindex() {
	u.index = make(map[string]int, len(u.Locations))
	for i, loc := range u.Locations {
		u.index[loc.Name] = i
	}
}

// Location returns the named location, or nil.
func (u *Unit) Location(name string) *Location {
	if i := u.LocationIndex(name); i >= 0 {
		return &u.Locations[i]
	}
	return nil
}

// Weapon returns the weapon in slot, or nil.
func (u *Unit) Weapon(slot string) *Mounted {
	for i := range u.Weapons {
		if u.Weapons[i].Slot == slot {
			return &u.Weapons[i]
		}
	}
	return nil
}

// Bin returns the ammo bin in slot, or nil.
func (u *Unit) Bin(slot string) *AmmoBin {
	for i := range u.Bins {
		if u.Bins[i].Slot == slot {
			return &u.Bins[i]
		}
	}
	return nil
}

// AlternateBin returns the first bin other than skip holding shots of the
// given ammunition type, or nil.
func (u *Unit) AlternateBin(ammoType, skip string) *AmmoBin {
	for i := range u.Bins {
		b := &u.Bins[i]
		if b.Slot != skip && b.Type == ammoType && b.Shots > 0 {
			return b
		}
	}
	return nil
}

// LivingTroopers returns the squad strength: surviving trooper locations for
// battle armor, the trooper count for conventional infantry, 1 otherwise.
func (u *Unit) LivingTroopers() int {
	switch u.Kind {
	case KindInfantry:
		return u.Troopers
	case KindBattleArmor:
		n := 0
		for _, loc := range u.Locations {
			if !loc.Destroyed {
				n++
			}
		}
		return n
	}
	return 1
}

// HasQuirk reports whether the unit carries the named quirk.
func (u *Unit) HasQuirk(quirk string) bool { return hasKeyword(quirk, u.Quirks) }

// Destroyed reports whether the unit is out of the fight.
func (u *Unit) Destroyed() bool {
	if u.Killed {
		return true
	}
	if u.Kind.Squad() {
		return u.LivingTroopers() == 0
	}
	return false
}

// Clone returns a deep copy, used to reset state between simulation runs.
func (u *Unit) Clone() *Unit {
	c := *u
	c.Locations = append([]Location(nil), u.Locations...)
	c.Weapons = make([]Mounted, len(u.Weapons))
	for i, w := range u.Weapons {
		w.Quirks = append([]string(nil), w.Quirks...)
		w.Bay = append([]string(nil), w.Bay...)
		c.Weapons[i] = w
	}
	c.Bins = append([]AmmoBin(nil), u.Bins...)
	c.Quirks = append([]string(nil), u.Quirks...)
	c.NarcPods = append([]string(nil), u.NarcPods...)
	c.ArcsFired = append([]string(nil), u.ArcsFired...)
	if u.AMS != nil {
		ams := *u.AMS
		c.AMS = &ams
	}
	c.index = nil
	return &c
}

// NewTurn clears the per-turn flags and counts down timed effects.
func (u *Unit) NewTurn() {
	if u.AMS != nil {
		u.AMS.UsedThisTurn = false
	}
	u.ArcsFired = nil
	if u.ShutdownTurns > 0 {
		u.ShutdownTurns--
	}
	if u.InterferenceTurns > 0 {
		u.InterferenceTurns--
		if u.InterferenceTurns == 0 {
			u.Interference = 0
		}
	}
}

func (u *Unit) String() string {
	if u.Name != "" {
		return fmt.Sprintf("%s (%s)", u.Name, u.ID)
	}
	return u.ID
}

// hasKeyword matches target against list, ignoring case and separators.
func hasKeyword(target string, list []string) bool {
	norm := func(s string) string {
		return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
	}
	t := norm(target)
	for _, item := range list {
		if norm(item) == t {
			return true
		}
	}
	return false
}
