package flowfield

import "github.com/milk9111/flowfield/common"

// Field is a completed, published flow field. It is never modified after publication, so any
// number of goroutines may read it while the next one is being built.
//
// The zero of *Field (nil) is a valid "never solved" field: queries return the zero vector and
// the undefined-cost sentinel.
type Field struct {
	store       *CellStore
	destination Index
	version     uint64
}

func (f *Field) Geometry() Geometry {
	if f == nil {
		return Geometry{}
	}
	return f.store.Geometry()
}

func (f *Field) Destination() Index {
	if f == nil {
		return InvalidIndex
	}
	return f.destination
}

// Version counts successful rebuilds of the owning grid, starting at 1.
func (f *Field) Version() uint64 {
	if f == nil {
		return 0
	}
	return f.version
}

// Cell returns a copy of the cell at i.
func (f *Field) Cell(i Index) (Cell, bool) {
	if f == nil || !f.store.Size().Contains(i) {
		return Cell{}, false
	}
	return *f.store.At(i), true
}

// CellAt returns a copy of the cell containing pos (clamped to the grid).
func (f *Field) CellAt(pos common.Vec3) (Cell, bool) {
	if f == nil {
		return Cell{}, false
	}
	return f.Cell(f.store.Geometry().WorldToCellIndex(pos))
}

// DirectionAt returns the unit direction to move from pos, or the zero vector when the cell is
// the destination, unreachable, or the field is nil.
func (f *Field) DirectionAt(pos common.Vec3) common.Vec2 {
	c, ok := f.CellAt(pos)
	if !ok {
		return common.Vec2{}
	}
	return c.BestDirection.Vector()
}

// CostAt returns the cost of the cell containing pos, CostImpassable when the field is nil.
func (f *Field) CostAt(pos common.Vec3) uint8 {
	c, ok := f.CellAt(pos)
	if !ok {
		return CostImpassable
	}
	return c.Cost
}

// Cells returns a copy of the flat cell array.
func (f *Field) Cells() []Cell {
	if f == nil {
		return nil
	}
	return append([]Cell(nil), f.store.cells...)
}

func (f *Field) Costs() []uint8 {
	if f == nil {
		return nil
	}
	return f.store.Costs()
}

func (f *Field) BestCosts() []uint16 {
	if f == nil {
		return nil
	}
	return f.store.BestCosts()
}

func (f *Field) Directions() []Direction {
	if f == nil {
		return nil
	}
	return f.store.Directions()
}

// Path follows BestDirection from start and returns the visited cells, start first. It ends at
// the destination, or at the first cell with no direction when start cannot reach it.
func (f *Field) Path(start Index) []Index {
	if f == nil || !f.store.Size().Contains(start) {
		return nil
	}
	limit := f.store.Len()
	path := make([]Index, 0, 16)
	cur := start
	for steps := 0; steps <= limit; steps++ {
		path = append(path, cur)
		c := f.store.At(cur)
		if c.BestDirection.IsZero() {
			break
		}
		cur = cur.Add(c.BestDirection)
	}
	return path
}
