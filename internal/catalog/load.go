package catalog

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

type file struct {
	Weapons []Weapon `yaml:"weapons"`
	Ammo    []Ammo   `yaml:"ammo"`
}

// Parse decodes one catalog document. Every invalid entry is reported, not
// just the first.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := New()
	var errs error
	for _, w := range f.Weapons {
		errs = multierr.Append(errs, c.AddWeapon(w))
	}
	for _, a := range f.Ammo {
		errs = multierr.Append(errs, c.AddAmmo(a))
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

// Load reads and merges the catalog files at paths.
func Load(paths ...string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	c := New()
	for _, path := range paths {
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		part, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
		if err = c.Merge(part); err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
	}
	return c, nil
}
