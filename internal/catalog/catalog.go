// Package catalog holds the static, read-only weapon and ammunition statistics
// an attack is resolved against.
package catalog

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"FireResolver/internal/dice"
)

// Weapon is the static profile of a weapon type.
type Weapon struct {
	Name        string     `yaml:"name"`
	Family      Family     `yaml:"family"`
	Damage      int        `yaml:"damage"`
	RangeDamage []int      `yaml:"range_damage,omitempty"`
	DamageDice  string     `yaml:"damage_dice,omitempty"`
	RackSize    int        `yaml:"rack_size,omitempty"`
	Heat        int        `yaml:"heat"`
	MinRange    int        `yaml:"min_range,omitempty"`
	Ranges      []int      `yaml:"ranges"`
	Burst       BurstClass `yaml:"burst,omitempty"`
	AmmoType    string     `yaml:"ammo_type,omitempty"`
	MaxShots    int        `yaml:"max_shots,omitempty"`
	// AttackValues are capital-scale attack values per range band.
	AttackValues    []float64 `yaml:"av,omitempty"`
	ExplosionDamage int       `yaml:"explosion_damage,omitempty"`
	FlightTurns     int       `yaml:"flight_turns,omitempty"`
	InfantryDamage  float64   `yaml:"infantry_damage,omitempty"`
	Energy          bool      `yaml:"energy,omitempty"`
	Squad           bool      `yaml:"squad,omitempty"`
	Artemis         bool      `yaml:"artemis,omitempty"`
	Capital         bool      `yaml:"capital,omitempty"`

	damageExpr dice.Expr
}

// NeedsAmmo reports whether the weapon draws from an ammunition bin.
func (w *Weapon) NeedsAmmo() bool { return w.AmmoType != "" }

// Band returns the range band distance falls into. A weapon without an
// extreme bracket treats anything past long range as out of range.
func (w *Weapon) Band(distance int) RangeBand {
	for i, max := range w.Ranges {
		if max > 0 && distance <= max {
			return RangeBand(i)
		}
	}
	return BandOut
}

// DamageAt returns the weapon's nominal damage at band, honoring stepped
// range damage when the catalog lists it.
func (w *Weapon) DamageAt(band RangeBand) int {
	if len(w.RangeDamage) == 0 {
		return w.Damage
	}
	i := int(band)
	if i >= len(w.RangeDamage) {
		i = len(w.RangeDamage) - 1
	}
	return w.RangeDamage[i]
}

// HasDamageDice reports whether base damage is rolled rather than fixed.
func (w *Weapon) HasDamageDice() bool { return w.DamageDice != "" }

// RollDamage evaluates the weapon's damage dice expression.
func (w *Weapon) RollDamage(r dice.Roller) int { return w.damageExpr.Eval(r) }

// AttackValue returns the attack value the weapon contributes to a bay at
// band. Weapons without listed values fall back to their nominal damage while
// the band is within reach.
func (w *Weapon) AttackValue(band RangeBand) float64 {
	i := int(band)
	if len(w.AttackValues) == 0 {
		if i >= len(w.Ranges) {
			return 0
		}
		return float64(w.DamageAt(band) * max(w.RackSize, 1))
	}
	if i >= len(w.AttackValues) {
		return 0
	}
	return w.AttackValues[i]
}

// Validate checks the weapon invariants and compiles its dice expression.
func (w *Weapon) Validate() error {
	var err error
	if w.Name == "" {
		err = multierr.Append(err, errors.New("name must not be empty"))
	}
	if w.Family == FamilyUnknown {
		err = multierr.Append(err, errors.New("family must be set"))
	}
	if w.Damage < 0 || w.Heat < 0 || w.RackSize < 0 {
		err = multierr.Append(err, errors.New("damage, heat and rack size must not be negative"))
	}
	if len(w.Ranges) == 0 || len(w.Ranges) > 4 {
		err = multierr.Append(err, fmt.Errorf("ranges must list 1-4 brackets, got %d", len(w.Ranges)))
	}
	for i := 1; i < len(w.Ranges); i++ {
		if w.Ranges[i] < w.Ranges[i-1] {
			err = multierr.Append(err, fmt.Errorf("range bracket %d is shorter than bracket %d", i, i-1))
		}
	}
	if w.DamageDice != "" {
		expr, perr := dice.ParseExpr(w.DamageDice)
		if perr != nil {
			err = multierr.Append(err, perr)
		}
		w.damageExpr = expr
	}
	switch w.Family {
	case FamilyLRM, FamilySRM, FamilyMRM, FamilyStreakSRM, FamilyStreakLRM, FamilyATM,
		FamilyMML, FamilyRocketLauncher, FamilyLBX:
		if w.RackSize <= 0 {
			err = multierr.Append(err, errors.New("cluster weapons need a rack size"))
		}
	case FamilyRotaryAC, FamilyUltraAC:
		if w.MaxShots <= 0 {
			err = multierr.Append(err, errors.New("rapid-fire weapons need max shots"))
		}
	}
	if w.Capital && len(w.AttackValues) == 0 {
		err = multierr.Append(err, errors.New("capital weapons need attack values"))
	}
	if err != nil {
		return fmt.Errorf("weapon %q: %w", w.Name, err)
	}
	return nil
}

// Ammo is the static profile of an ammunition type.
type Ammo struct {
	Name     string   `yaml:"name"`
	AmmoType string   `yaml:"ammo_type"`
	Munition Munition `yaml:"munition,omitempty"`
	Shots    int      `yaml:"shots"`
	// Damage overrides the weapon's per-hit damage when positive.
	Damage    int  `yaml:"damage,omitempty"`
	Explosive bool `yaml:"explosive,omitempty"`
}

// Validate checks the ammunition invariants.
func (a *Ammo) Validate() error {
	var err error
	if a.Name == "" {
		err = multierr.Append(err, errors.New("name must not be empty"))
	}
	if a.AmmoType == "" {
		err = multierr.Append(err, errors.New("ammo_type must not be empty"))
	}
	if a.Shots <= 0 {
		err = multierr.Append(err, errors.New("shots must be positive"))
	}
	if a.Damage < 0 {
		err = multierr.Append(err, errors.New("damage must not be negative"))
	}
	if err != nil {
		return fmt.Errorf("ammo %q: %w", a.Name, err)
	}
	return nil
}

// Catalog indexes weapons and ammunition by name.
type Catalog struct {
	weapons map[string]*Weapon
	ammo    map[string]*Ammo
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{weapons: map[string]*Weapon{}, ammo: map[string]*Ammo{}}
}

// AddWeapon validates and registers w. Names must be unique.
func (c *Catalog) AddWeapon(w Weapon) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if _, ok := c.weapons[w.Name]; ok {
		return fmt.Errorf("weapon %q: %w", w.Name, ErrDuplicate)
	}
	c.weapons[w.Name] = &w
	return nil
}

// AddAmmo validates and registers a. Names must be unique.
func (c *Catalog) AddAmmo(a Ammo) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := c.ammo[a.Name]; ok {
		return fmt.Errorf("ammo %q: %w", a.Name, ErrDuplicate)
	}
	c.ammo[a.Name] = &a
	return nil
}

// Weapon looks a weapon type up by name.
func (c *Catalog) Weapon(name string) (*Weapon, bool) {
	w, ok := c.weapons[name]
	return w, ok
}

// Ammo looks an ammunition type up by name.
func (c *Catalog) Ammo(name string) (*Ammo, bool) {
	a, ok := c.ammo[name]
	return a, ok
}

// Len returns the number of weapon and ammunition entries.
func (c *Catalog) Len() (weapons, ammo int) {
	return len(c.weapons), len(c.ammo)
}

// Merge folds other into c. Conflicting names are reported together.
func (c *Catalog) Merge(other *Catalog) error {
	var err error
	for name, w := range other.weapons {
		if _, ok := c.weapons[name]; ok {
			err = multierr.Append(err, fmt.Errorf("weapon %q: %w", name, ErrDuplicate))
			continue
		}
		c.weapons[name] = w
	}
	for name, a := range other.ammo {
		if _, ok := c.ammo[name]; ok {
			err = multierr.Append(err, fmt.Errorf("ammo %q: %w", name, ErrDuplicate))
			continue
		}
		c.ammo[name] = a
	}
	return err
}

// Compatible reports whether ammo a can be loaded into weapon w.
func Compatible(w *Weapon, a *Ammo) bool {
	return w != nil && a != nil && w.AmmoType != "" && w.AmmoType == a.AmmoType
}

// ErrDuplicate is returned when two entries share a name.
var ErrDuplicate = errors.New("duplicate catalog entry")
