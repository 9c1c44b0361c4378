// Package scenario replays a scripted battle through the attack pipeline and
// runs repeated seeded simulations of it.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"FireResolver/internal/attack"
	"FireResolver/internal/catalog"
	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/rules"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

// ErrEmpty is returned for a scenario with no phases to play.
var ErrEmpty = errors.New("scenario has no phases")

// Step is one phase of play: pending attacks are offered the phase first,
// then the new attacks declared for it resolve in order.
type Step struct {
	Phase attack.Phase `yaml:"phase"`
	// NewTurn starts a new game turn before the phase.
	NewTurn bool             `yaml:"new_turn,omitempty"`
	Attacks []attack.Request `yaml:"attacks,omitempty"`
}

// Scenario is a battle script.
type Scenario struct {
	Name       string           `yaml:"name"`
	Seed       int64            `yaml:"seed"`
	Catalogs   []string         `yaml:"catalogs"`
	Rules      string           `yaml:"rules,omitempty"`
	UnitFiles  []string         `yaml:"unit_files,omitempty"`
	Conditions world.Conditions `yaml:"conditions,omitempty"`
	Board      []terrain.Hex    `yaml:"board,omitempty"`
	Units      []*unit.Unit     `yaml:"units"`
	Steps      []Step           `yaml:"phases"`

	catalog *catalog.Catalog
	rules   rules.Options
}

// Result is the outcome of one replay.
type Result struct {
	Seed    int64
	Log     *report.Log
	World   *world.State
	Pending int
}

// Load reads a scenario file. Catalog, ruleset and unit file paths are
// relative to the scenario's own directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario, loads the catalogs, ruleset and unit files it
// names from dir and checks that every attack refers to something that exists.
func Parse(data []byte, dir string) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmpty
	}

	paths := make([]string, len(s.Catalogs))
	for i, p := range s.Catalogs {
		paths[i] = resolve(dir, p)
	}
	cat, err := catalog.Load(paths...)
	if err != nil {
		return nil, err
	}
	s.catalog = cat

	rulesPath := ""
	if s.Rules != "" {
		rulesPath = resolve(dir, s.Rules)
	}
	if s.rules, err = rules.Load(rulesPath); err != nil {
		return nil, err
	}

	for _, p := range s.UnitFiles {
		units, err := unit.Load(resolve(dir, p))
		if err != nil {
			return nil, err
		}
		s.Units = append(s.Units, units...)
	}

	if err = s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// validate collects every broken reference rather than stopping at the
// first.
func (s *Scenario) validate() error {
	var errs error
	ids := map[string]*unit.Unit{}
	for _, u := range s.Units {
		if err := u.Normalize(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, dup := ids[u.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("duplicate unit %q", u.ID))
		}
		ids[u.ID] = u
		for _, w := range u.Weapons {
			if _, ok := s.catalog.Weapon(w.Type); !ok {
				errs = multierr.Append(errs, fmt.Errorf("unit %q weapon %q: %w: %q", u.ID, w.Slot, attack.ErrUnknownWeapon, w.Type))
			}
		}
		for _, b := range u.Bins {
			if _, ok := s.catalog.Ammo(b.Type); !ok {
				errs = multierr.Append(errs, fmt.Errorf("unit %q bin %q: %w: %q", u.ID, b.Slot, attack.ErrUnknownAmmo, b.Type))
			}
		}
	}
	for i, step := range s.Steps {
		for j, req := range step.Attacks {
			where := fmt.Sprintf("phase %d attack %d", i+1, j+1)
			u, ok := ids[req.Attacker]
			switch {
			case !ok:
				errs = multierr.Append(errs, fmt.Errorf("%s: %w: attacker %q", where, attack.ErrUnknownUnit, req.Attacker))
			case u.Weapon(req.Weapon) == nil:
				errs = multierr.Append(errs, fmt.Errorf("%s: %w: %s has no slot %q", where, attack.ErrUnknownWeapon, req.Attacker, req.Weapon))
			}
			if req.Target == "" && req.Hex == nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", where, attack.ErrNoTarget))
			}
			if _, ok := ids[req.Target]; req.Target != "" && !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w: target %q", where, attack.ErrUnknownUnit, req.Target))
			}
		}
	}
	return errs
}

// Options returns the ruleset the scenario plays under.
func (s *Scenario) Options() rules.Options { return s.rules }

// Run replays the scenario with seed on fresh copies of its units and board.
// The scenario itself is never mutated, so it can be run again.
func (s *Scenario) Run(seed int64, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	stream := dice.NewStream(seed)
	// Ids come from their own stream so they never shift the dice.
	ids := dice.NewStream(^seed).Reader()

	units := make([]*unit.Unit, len(s.Units))
	for i, u := range s.Units {
		units[i] = u.Clone()
	}
	w := world.New(s.board(), stream, units,
		world.WithConditions(s.Conditions),
		world.WithLogger(logger.Named("world")),
	)
	log := &report.Log{}
	d := attack.NewDispatcher(s.catalog, s.rules, w, stream, log,
		attack.WithLogger(logger.Named("attack")),
		attack.WithIDSource(ids),
	)

	for _, step := range s.Steps {
		if step.NewTurn {
			w.NewTurn()
		}
		d.Advance(step.Phase)
		for _, req := range step.Attacks {
			d.Resolve(req, step.Phase)
		}
	}
	logger.Debug("scenario played",
		zap.String("scenario", s.Name),
		zap.Int64("seed", seed),
		zap.Int("entries", log.Len()),
		zap.Int("pending", d.Pending()),
	)
	return &Result{Seed: seed, Log: log, World: w, Pending: d.Pending()}
}

// board builds a fresh board so buildings and woods start undamaged on
// every run.
func (s *Scenario) board() *terrain.Board {
	hexes := make([]terrain.Hex, len(s.Board))
	for i, h := range s.Board {
		if h.Building != nil {
			b := *h.Building
			h.Building = &b
		}
		h.Minefields = append([]terrain.Minefield(nil), h.Minefields...)
		hexes[i] = h
	}
	return terrain.NewBoard(hexes...)
}
