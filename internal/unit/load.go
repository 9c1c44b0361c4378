package unit

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

// Normalize fills the default layout when no locations are listed and checks
// that every weapon and bin points at something that exists.
func (u *Unit) Normalize() error {
	if len(u.Locations) == 0 {
		troopers := u.Troopers
		u.Locations = Layout(u.Kind, u.Armor, u.Internal, troopers)
	}
	if u.Kind == KindBattleArmor {
		u.Troopers = len(u.Locations)
	}
	u.reindex()

	var err error
	if u.ID == "" {
		err = multierr.Append(err, errors.New("id must not be empty"))
	}
	if u.Kind == KindInfantry && u.Troopers <= 0 {
		err = multierr.Append(err, errors.New("infantry needs troopers"))
	}
	slots := map[string]bool{}
	for _, w := range u.Weapons {
		if slots[w.Slot] {
			err = multierr.Append(err, fmt.Errorf("duplicate weapon slot %q", w.Slot))
		}
		slots[w.Slot] = true
		if w.Location != "" && u.LocationIndex(w.Location) < 0 {
			err = multierr.Append(err, fmt.Errorf("weapon %q mounted in unknown location %q", w.Slot, w.Location))
		}
		if w.Ammo != "" && u.Bin(w.Ammo) == nil {
			err = multierr.Append(err, fmt.Errorf("weapon %q linked to unknown bin %q", w.Slot, w.Ammo))
		}
	}
	for _, w := range u.Weapons {
		for _, member := range w.Bay {
			if u.Weapon(member) == nil {
				err = multierr.Append(err, fmt.Errorf("bay %q lists unknown weapon %q", w.Slot, member))
			}
		}
	}
	for _, b := range u.Bins {
		if b.Shots < 0 {
			err = multierr.Append(err, fmt.Errorf("bin %q has negative shots", b.Slot))
		}
	}
	if err != nil {
		return fmt.Errorf("unit %q: %w", u.ID, err)
	}
	return nil
}

// Parse decodes a YAML list of units and normalizes each.
func Parse(data []byte) ([]*Unit, error) {
	var units []*Unit
	if err := yaml.UnmarshalStrict(data, &units); err != nil {
		return nil, fmt.Errorf("parse units: %w", err)
	}
	var errs error
	for _, u := range units {
		errs = multierr.Append(errs, u.Normalize())
	}
	if errs != nil {
		return nil, errs
	}
	return units, nil
}

// Load reads a unit list file.
func Load(path string) ([]*Unit, error) {
	var (
		data []byte
		err  error
	)
	if data, err = os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	return Parse(data)
}
