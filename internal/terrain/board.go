// Package terrain models the hex board an attack lands on: woods, buildings,
// fire, smoke and minefields.
package terrain

import "fmt"

// Coords addresses a hex in an odd-q offset grid (odd columns shifted down).
type Coords struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c Coords) String() string { return fmt.Sprintf("%02d%02d", c.X, c.Y) }

// cube converts offset coordinates to cube coordinates.
func (c Coords) cube() (x, y, z int) {
	x = c.X
	z = c.Y - (c.X-(c.X&1))/2
	y = -x - z
	return x, y, z
}

// Distance returns the hex distance between two coordinates.
func (c Coords) Distance(o Coords) int {
	ax, ay, az := c.cube()
	bx, by, bz := o.cube()
	return max(abs(ax-bx), abs(ay-by), abs(az-bz))
}

// Neighbor returns the adjacent hex in direction dir (0 north, clockwise).
func (c Coords) Neighbor(dir int) Coords {
	dir = ((dir % 6) + 6) % 6
	odd := c.X&1 == 1
	switch dir {
	case 0:
		return Coords{c.X, c.Y - 1}
	case 1:
		if odd {
			return Coords{c.X + 1, c.Y}
		}
		return Coords{c.X + 1, c.Y - 1}
	case 2:
		if odd {
			return Coords{c.X + 1, c.Y + 1}
		}
		return Coords{c.X + 1, c.Y}
	case 3:
		return Coords{c.X, c.Y + 1}
	case 4:
		if odd {
			return Coords{c.X - 1, c.Y + 1}
		}
		return Coords{c.X - 1, c.Y}
	default:
		if odd {
			return Coords{c.X - 1, c.Y}
		}
		return Coords{c.X - 1, c.Y - 1}
	}
}

// Translated walks n hexes in direction dir.
func (c Coords) Translated(dir, n int) Coords {
	for i := 0; i < n; i++ {
		c = c.Neighbor(dir)
	}
	return c
}

// Adjacent returns the six neighbors in direction order.
func (c Coords) Adjacent() []Coords {
	out := make([]Coords, 6)
	for dir := 0; dir < 6; dir++ {
		out[dir] = c.Neighbor(dir)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Woods densities.
const (
	WoodsNone = iota
	WoodsLight
	WoodsHeavy
)

// Damage needed to knock woods down one density level.
var woodsClearing = map[int]int{WoodsLight: 40, WoodsHeavy: 90}

// Minefield is a conventional field laid in a hex.
type Minefield struct {
	Density int    `yaml:"density"`
	Owner   string `yaml:"owner"`
}

// Building occupies a hex. Absorption is the damage the structure can still
// soak for units inside it.
type Building struct {
	Name       string `yaml:"name"`
	CF         int    `yaml:"cf"`
	Absorption int    `yaml:"absorption"`
}

// Absorb soaks up to the remaining absorption capacity out of dmg and returns
// the amount absorbed. Capacity and CF drop by the same amount.
func (b *Building) Absorb(dmg int) int {
	if b == nil || dmg <= 0 {
		return 0
	}
	absorbed := min(b.Absorption, dmg)
	b.Absorption -= absorbed
	b.CF = max(b.CF-absorbed, 0)
	return absorbed
}

// Collapsed reports whether the building has no construction factor left.
func (b *Building) Collapsed() bool { return b != nil && b.CF <= 0 }

// Hex is one board hex.
type Hex struct {
	Coords      Coords      `yaml:"coords"`
	Woods       int         `yaml:"woods"`
	WoodsDamage int         `yaml:"woods_damage"`
	Building    *Building   `yaml:"building,omitempty"`
	Fire        bool        `yaml:"fire"`
	Smoke       int         `yaml:"smoke"`
	Water       int         `yaml:"water"`
	Minefields  []Minefield `yaml:"minefields,omitempty"`
}

// Wooded reports whether the hex holds standing woods.
func (h *Hex) Wooded() bool { return h != nil && h.Woods > WoodsNone }

// Flammable reports whether the hex can be set alight.
func (h *Hex) Flammable() bool {
	return h != nil && (h.Wooded() || (h.Building != nil && !h.Building.Collapsed()))
}

// Clear applies clearing damage to the woods and reports whether the woods
// dropped a density level.
func (h *Hex) Clear(dmg int) bool {
	if !h.Wooded() || dmg <= 0 {
		return false
	}
	h.WoodsDamage += dmg
	if h.WoodsDamage < woodsClearing[h.Woods] {
		return false
	}
	h.Woods--
	h.WoodsDamage = 0
	return true
}

// Board is the set of hexes in play. Hexes not listed are clear terrain.
type Board struct {
	hexes map[Coords]*Hex
}

// NewBoard indexes hexes by their coordinates.
func NewBoard(hexes ...Hex) *Board {
	b := &Board{hexes: make(map[Coords]*Hex, len(hexes))}
	for i := range hexes {
		h := hexes[i]
		b.hexes[h.Coords] = &h
	}
	return b
}

// Hex returns the hex at c, materialising clear terrain on first access.
func (b *Board) Hex(c Coords) *Hex {
	if h, ok := b.hexes[c]; ok {
		return h
	}
	h := &Hex{Coords: c}
	b.hexes[c] = h
	return h
}

// Len returns the number of materialised hexes.
func (b *Board) Len() int { return len(b.hexes) }
