package attack

import (
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

// World is the unit and terrain state an attack reads and mutates.
type World interface {
	Unit(id string) *unit.Unit
	Hex(c terrain.Coords) *terrain.Hex
	UnitsAt(c terrain.Coords, passengers bool) []*unit.Unit
	Weather() world.Conditions

	DamageUnit(u *unit.Unit, hit unit.Hit, d world.Damage) world.Applied
	CriticalCheck(u *unit.Unit, location string, modifier int) int
	ExplodeWeapon(u *unit.Unit, slot string, dmg int) world.Applied
	InflictHeat(u *unit.Unit, heat int) bool

	DamageBuilding(c terrain.Coords, dmg int) (world.BuildingResult, bool)
	ClearWoods(c terrain.Coords, dmg int) bool
	DeliverMinefield(c terrain.Coords, m terrain.Minefield)
	DeliverSmoke(c terrain.Coords, level int)
	Ignite(c terrain.Coords) bool

	AddTag(t world.Tag)
	RemoveTag(id string)
	Tags() []world.Tag
}

var _ World = (*world.State)(nil)
