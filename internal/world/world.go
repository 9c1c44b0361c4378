// Package world is the in-memory battlefield: units, board hexes, TAG
// designations and weather. It applies the mutations an attack asks for and
// reports what happened; it never decides whether an attack hits.
package world

import (
	"sort"

	"go.uber.org/zap"

	"FireResolver/internal/dice"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
)

// Conditions is the weather in play.
type Conditions struct {
	StrongWind bool `yaml:"strong_wind"`
}

// Tag is a laser designation painted on a unit or hex.
type Tag struct {
	ID       string
	Attacker string
	Target   string
	Hex      terrain.Coords
	Priority int
	// Hit is false for designations that missed. They still count against
	// the designator's guidance capacity but guide nothing.
	Hit bool
}

// State holds everything attacks mutate.
type State struct {
	Board      *terrain.Board
	Conditions Conditions
	Turn       int

	units  map[string]*unit.Unit
	order  []string
	tags   []Tag
	roller dice.Roller
	log    *zap.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger routes mutation logging to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) { s.log = l }
}

// WithConditions sets the weather.
func WithConditions(c Conditions) Option {
	return func(s *State) { s.Conditions = c }
}

// New builds a world on board holding units. Critical hit checks draw from r.
func New(board *terrain.Board, r dice.Roller, units []*unit.Unit, opts ...Option) *State {
	if board == nil {
		board = terrain.NewBoard()
	}
	s := &State{
		Board:  board,
		units:  make(map[string]*unit.Unit, len(units)),
		roller: r,
		log:    zap.NewNop(),
	}
	for _, u := range units {
		s.units[u.ID] = u
		s.order = append(s.order, u.ID)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unit returns the unit with id, or nil.
func (s *State) Unit(id string) *unit.Unit { return s.units[id] }

// Units returns every unit in the order it was added.
func (s *State) Units() []*unit.Unit {
	out := make([]*unit.Unit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.units[id])
	}
	return out
}

// Hex returns the board hex at c.
func (s *State) Hex(c terrain.Coords) *terrain.Hex { return s.Board.Hex(c) }

// Weather returns the conditions in play.
func (s *State) Weather() Conditions { return s.Conditions }

// UnitsAt returns the living units standing in hex c. Battle armor riding
// another unit counts as a passenger and is left out unless passengers is
// set.
func (s *State) UnitsAt(c terrain.Coords, passengers bool) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range s.Units() {
		if u.Position != c || u.Destroyed() {
			continue
		}
		if u.Swarming != "" && !passengers {
			continue
		}
		out = append(out, u)
	}
	return out
}

// AddTag records a designation.
func (s *State) AddTag(t Tag) {
	s.tags = append(s.tags, t)
	s.log.Debug("tag added", zap.String("id", t.ID), zap.String("target", t.Target), zap.Int("priority", t.Priority))
}

// RemoveTag drops the designation with id.
func (s *State) RemoveTag(id string) {
	for i, t := range s.tags {
		if t.ID == id {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			s.log.Debug("tag removed", zap.String("id", id))
			return
		}
	}
}

// Tags returns live designations, highest priority first, oldest first
// within a priority.
func (s *State) Tags() []Tag {
	out := append([]Tag(nil), s.tags...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// NewTurn advances the turn counter and counts down per-unit effects.
func (s *State) NewTurn() {
	s.Turn++
	for _, u := range s.Units() {
		u.NewTurn()
	}
}
