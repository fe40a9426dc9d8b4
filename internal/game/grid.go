/*
Package game
File: grid.go
Description:
    The sector grid. The engine only reads it through SectorGrid; Grid is the
    reference implementation used by the server, the headless runner and
    the tests. Distances for range and accuracy are Manhattan; area-of-effect
    footprints are discs in Euclidean sector space.
*/

package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const defaultSectorIntegrity = 100.0

// Cell addresses one sector.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// SectorType is the terrain of a sector.
type SectorType int

const (
	SectorGround SectorType = iota
	SectorCover
	SectorObstacle
	SectorHighGround
)

var sectorTypeNames = [...]string{"ground", "cover", "obstacle", "high_ground"}

func (t SectorType) String() string {
	if t < 0 || int(t) >= len(sectorTypeNames) {
		return "unknown"
	}
	return sectorTypeNames[t]
}

// ParseSectorType accepts "high_ground" as well as "highground".
func ParseSectorType(s string) (SectorType, error) {
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for i, name := range sectorTypeNames {
		if norm == strings.ReplaceAll(name, "_", "") {
			return SectorType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sector type %q", s)
}

func (t SectorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *SectorType) UnmarshalText(b []byte) error {
	parsed, err := ParseSectorType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *SectorType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// CoverBonus is the share of incoming damage a sector of type t absorbs.
func CoverBonus(t SectorType) float64 {
	switch t {
	case SectorCover:
		return 0.2
	case SectorHighGround:
		return 0.15
	default:
		return 0
	}
}

// SectorGrid is the read contract the engine needs from a battlefield.
type SectorGrid interface {
	InBounds(c Cell) bool
	Distance(a, b Cell) float64
	CellsWithinRadius(center Cell, radius float64) []Cell
	IsTraversable(c Cell) bool
	SectorSize() float64
}

// DamageSink is implemented by grids that track sector damage.
type DamageSink interface {
	ApplyDamage(c Cell, amount float64, piercing bool) float64
}

// IntegrityReader is implemented by grids that can report remaining integrity.
type IntegrityReader interface {
	Integrity(c Cell) (float64, bool)
}

// Sector is the runtime state of one grid cell.
type Sector struct {
	Cell        Cell       `json:"cell"`
	Type        SectorType `json:"type"`
	Integrity   float64    `json:"integrity"`
	DamageTaken float64    `json:"damage_taken"`
}

// Destroyed reports whether the sector has no integrity left.
func (s Sector) Destroyed() bool { return s.Integrity <= 0 }

// Grid is a rectangular sector grid stored row-major.
type Grid struct {
	width   int
	height  int
	size    float64
	sectors []Sector
}

// NewGrid creates a width x height grid of ground sectors.
func NewGrid(width, height int, sectorSize float64) *Grid {
	if sectorSize <= 0 {
		sectorSize = defaultSectorSize
	}
	g := &Grid{width: width, height: height, size: sectorSize}
	g.sectors = make([]Sector, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.sectors[y*width+x] = Sector{
				Cell:      Cell{X: x, Y: y},
				Type:      SectorGround,
				Integrity: defaultSectorIntegrity,
			}
		}
	}
	return g
}

// NewGridFromMap builds a grid from a map layout. Terrain entries outside the
// grid are ignored.
func NewGridFromMap(m *MapLayout) *Grid {
	g := NewGrid(m.Width, m.Height, m.SectorSize)
	if m.SectorIntegrity > 0 {
		for i := range g.sectors {
			g.sectors[i].Integrity = m.SectorIntegrity
		}
	}
	for _, t := range m.Terrain {
		g.SetType(Cell{X: t.X, Y: t.Y}, t.Type)
	}
	return g
}

// Width, Height and SectorSize describe the grid's extent.
func (g *Grid) Width() int          { return g.width }
func (g *Grid) Height() int         { return g.height }
func (g *Grid) SectorSize() float64 { return g.size }

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

func (g *Grid) index(c Cell) int { return c.Y*g.width + c.X }

// Sector returns a copy of the sector at c.
func (g *Grid) Sector(c Cell) (Sector, bool) {
	if !g.InBounds(c) {
		return Sector{}, false
	}
	return g.sectors[g.index(c)], true
}

// Sectors returns a copy of every sector, row-major.
func (g *Grid) Sectors() []Sector {
	return append([]Sector(nil), g.sectors...)
}

// SetType changes the terrain of c. Returns false when c is outside the grid.
func (g *Grid) SetType(c Cell, t SectorType) bool {
	if !g.InBounds(c) {
		return false
	}
	g.sectors[g.index(c)].Type = t
	return true
}

// Distance is the Manhattan distance between a and b.
func (g *Grid) Distance(a, b Cell) float64 {
	return float64(ManhattanDistance(a, b))
}

// CellsWithinRadius returns every in-bounds cell whose Euclidean offset from
// center is at most radius, scanning row by row.
func (g *Grid) CellsWithinRadius(center Cell, radius float64) []Cell {
	if radius < 0 {
		return nil
	}
	r := int(math.Ceil(radius))
	var out []Cell
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if math.Sqrt(float64(dx*dx+dy*dy)) > radius {
				continue
			}
			c := Cell{X: center.X + dx, Y: center.Y + dy}
			if g.InBounds(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// IsTraversable is false for obstacles and for cells outside the grid.
func (g *Grid) IsTraversable(c Cell) bool {
	s, ok := g.Sector(c)
	return ok && s.Type != SectorObstacle
}

// ApplyDamage reduces the integrity of c by amount, less the sector's cover
// share unless the shot is piercing. Returns the damage actually absorbed.
func (g *Grid) ApplyDamage(c Cell, amount float64, piercing bool) float64 {
	if !g.InBounds(c) || amount <= 0 {
		return 0
	}
	s := &g.sectors[g.index(c)]
	if !piercing {
		amount *= 1 - CoverBonus(s.Type)
	}
	s.DamageTaken += amount
	s.Integrity = math.Max(0, s.Integrity-amount)
	return amount
}

func (g *Grid) Integrity(c Cell) (float64, bool) {
	s, ok := g.Sector(c)
	return s.Integrity, ok
}

// ManhattanDistance between two grid positions.
func ManhattanDistance(a, b Cell) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// EuclideanDistance between two grid positions.
func EuclideanDistance(a, b Cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Line returns every cell on the Bresenham line from -> to, both ends included.
func Line(from, to Cell) []Cell {
	var out []Cell
	walkLine(from, to, func(c Cell) bool {
		out = append(out, c)
		return true
	})
	return out
}

// HasLineOfSight walks the Bresenham line from -> to and fails on the first
// non-traversable cell strictly between the two. Cells outside the grid
// never block.
func HasLineOfSight(g SectorGrid, from, to Cell) bool {
	if g == nil {
		return true
	}
	visible := true
	walkLine(from, to, func(c Cell) bool {
		if c == to {
			return false
		}
		if c == from {
			return true
		}
		if g.InBounds(c) && !g.IsTraversable(c) {
			visible = false
			return false
		}
		return true
	})
	return visible
}

// walkLine visits cells along the line until visit returns false or the
// target has been visited.
func walkLine(from, to Cell, visit func(Cell) bool) {
	dx := absInt(to.X - from.X)
	dy := absInt(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	err := dx - dy
	cur := from
	for {
		if !visit(cur) || cur == to {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			cur.X += sx
		}
		if e2 < dx {
			err += dx
			cur.Y += sy
		}
	}
}

// GridToWorld maps a cell onto the XZ plane; Y is up.
func GridToWorld(c Cell, sectorSize float64) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X) * sectorSize, 0, float64(c.Y) * sectorSize}
}

// WorldToGrid rounds a world position to the nearest cell.
func WorldToGrid(p mgl64.Vec3, sectorSize float64) Cell {
	if sectorSize <= 0 {
		sectorSize = defaultSectorSize
	}
	return Cell{
		X: int(math.Round(p.X() / sectorSize)),
		Y: int(math.Round(p.Z() / sectorSize)),
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
