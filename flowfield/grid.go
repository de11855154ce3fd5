package flowfield

import (
	"fmt"
	"math"

	"github.com/milk9111/flowfield/common"
)

// Size is the grid extent in cells: X columns by Y rows.
type Size struct {
	X int
	Y int
}

// Index addresses a cell by column and row.
type Index struct {
	X int
	Y int
}

// InvalidIndex marks a neighbour that falls outside the grid.
var InvalidIndex = Index{X: -1, Y: -1}

// Direction is a neighbour offset in {-1,0,1}². The zero Direction means "hold position".
type Direction struct {
	X int
	Y int
}

var (
	North     = Direction{X: 0, Y: 1}
	South     = Direction{X: 0, Y: -1}
	East      = Direction{X: 1, Y: 0}
	West      = Direction{X: -1, Y: 0}
	NorthEast = Direction{X: 1, Y: 1}
	NorthWest = Direction{X: -1, Y: 1}
	SouthEast = Direction{X: 1, Y: -1}
	SouthWest = Direction{X: -1, Y: -1}
)

// CardinalDirections feed distance propagation.
var CardinalDirections = []Direction{North, South, East, West}

// AllDirections is the enumeration order used for direction selection. On equal bestCost the
// earlier entry wins.
var AllDirections = []Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}

func (d Direction) IsZero() bool {
	return d.X == 0 && d.Y == 0
}

// Vector returns the unit vector for d on the ground plane, zero for the zero Direction.
func (d Direction) Vector() common.Vec2 {
	return common.Vec2{X: float64(d.X), Y: float64(d.Y)}.Normalize()
}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	case Direction{}:
		return "-"
	}
	return fmt.Sprintf("(%d,%d)", d.X, d.Y)
}

func (i Index) Add(d Direction) Index {
	return Index{X: i.X + d.X, Y: i.Y + d.Y}
}

// Valid reports whether s has positive extents and a cell count that fits in an int.
func (s Size) Valid() bool {
	return s.X > 0 && s.Y > 0 && s.X <= math.MaxInt/s.Y
}

func (s Size) Count() int {
	return s.X * s.Y
}

func (s Size) Contains(i Index) bool {
	return i.X >= 0 && i.Y >= 0 && i.X < s.X && i.Y < s.Y
}

// FlatIndex is the row-major position of i in the cell array: x*size.Y + y.
func (s Size) FlatIndex(i Index) int {
	return i.X*s.Y + i.Y
}

// IndexOf is the inverse of FlatIndex.
func (s Size) IndexOf(flat int) Index {
	return Index{X: flat / s.Y, Y: flat % s.Y}
}

// NeighborIndices appends one entry per direction to out: the neighbour's index, or InvalidIndex
// when it falls outside the grid.
func (s Size) NeighborIndices(i Index, dirs []Direction, out []Index) []Index {
	for _, d := range dirs {
		n := i.Add(d)
		if !s.Contains(n) {
			n = InvalidIndex
		}
		out = append(out, n)
	}
	return out
}

// Geometry maps between world space and cell indices. Cells tile the X/Z plane from the
// origin with period 2*CellRadius.
type Geometry struct {
	Size       Size
	CellRadius float64
}

func (g Geometry) Validate() error {
	if !g.Size.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, g.Size.X, g.Size.Y)
	}
	if !(g.CellRadius > 0) || math.IsInf(g.CellRadius, 0) {
		return fmt.Errorf("%w: cell radius %v", ErrInvalidGridSize, g.CellRadius)
	}
	return nil
}

func (g Geometry) CellDiameter() float64 {
	return g.CellRadius * 2
}

// WorldToCellIndex returns the cell containing pos, clamped to the nearest valid cell for
// positions outside the grid.
func (g Geometry) WorldToCellIndex(pos common.Vec3) Index {
	d := g.CellDiameter()
	return Index{
		X: common.FloorIndex(pos.X, d, g.Size.X),
		Y: common.FloorIndex(pos.Z, d, g.Size.Y),
	}
}

// CellIndexToWorldPos returns the center of cell i.
func (g Geometry) CellIndexToWorldPos(i Index) common.Vec3 {
	d := g.CellDiameter()
	return common.Vec3{
		X: float64(i.X)*d + g.CellRadius,
		Y: 0,
		Z: float64(i.Y)*d + g.CellRadius,
	}
}
