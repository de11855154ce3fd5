package flowfield

import (
	"strconv"

	"github.com/milk9111/flowfield/common"
)

const (
	// CostImpassable marks a cell that can never be entered. It doubles as the undefined-cost
	// answer for queries against a grid that has not been solved yet.
	CostImpassable uint8 = 255

	// CostDefault is the cost given to every cell when a grid is created without a snapshot.
	CostDefault uint8 = 1

	// BestCostUnreached marks a cell with no known route to the destination.
	BestCostUnreached uint16 = 65535

	// MaxBestCost is the largest finite integration distance.
	MaxBestCost = int(BestCostUnreached) - 1
)

// Cell is one grid position with its traversal cost and solved routing data.
type Cell struct {
	WorldPos      common.Vec3
	GridIndex     Index
	Cost          uint8
	BestCost      uint16
	BestDirection Direction
	IsDestination bool
	SlowsByCost   bool
}

func (c Cell) Passable() bool {
	return c.Cost != CostImpassable
}

func (c Cell) Reached() bool {
	return c.BestCost != BestCostUnreached
}

func (c Cell) CostString() string {
	if c.Cost == CostImpassable {
		return "X"
	}
	return strconv.Itoa(int(c.Cost))
}

func (c Cell) BestCostString() string {
	if c.BestCost == BestCostUnreached {
		return "X"
	}
	return strconv.Itoa(int(c.BestCost))
}

// CellStore is the flat cell array of one grid, indexed by Size.FlatIndex. Cells never point at
// each other; neighbours are found by index arithmetic.
type CellStore struct {
	geom  Geometry
	cells []Cell
}

// NewCellStore lays out one cell per grid position with the given costs. costs must hold
// geom.Size.Count() entries; slows is applied to every cell.
func NewCellStore(geom Geometry, costs []uint8, slows bool) *CellStore {
	cells := make([]Cell, geom.Size.Count())
	for x := 0; x < geom.Size.X; x++ {
		for y := 0; y < geom.Size.Y; y++ {
			idx := Index{X: x, Y: y}
			flat := geom.Size.FlatIndex(idx)
			cells[flat] = Cell{
				WorldPos:    geom.CellIndexToWorldPos(idx),
				GridIndex:   idx,
				Cost:        costs[flat],
				BestCost:    BestCostUnreached,
				SlowsByCost: slows,
			}
		}
	}
	return &CellStore{geom: geom, cells: cells}
}

func (s *CellStore) Geometry() Geometry {
	return s.geom
}

func (s *CellStore) Size() Size {
	return s.geom.Size
}

func (s *CellStore) Len() int {
	return len(s.cells)
}

// At returns a pointer into the store. Callers must not keep it past a publish.
func (s *CellStore) At(i Index) *Cell {
	return &s.cells[s.geom.Size.FlatIndex(i)]
}

func (s *CellStore) AtFlat(flat int) *Cell {
	return &s.cells[flat]
}

// Reset clears every cell's solved data, leaving costs untouched.
func (s *CellStore) Reset() {
	for i := range s.cells {
		s.cells[i].BestCost = BestCostUnreached
		s.cells[i].BestDirection = Direction{}
		s.cells[i].IsDestination = false
	}
}

// Costs copies the cost column out of the store.
func (s *CellStore) Costs() []uint8 {
	out := make([]uint8, len(s.cells))
	for i := range s.cells {
		out[i] = s.cells[i].Cost
	}
	return out
}

// BestCosts copies the integration field out of the store.
func (s *CellStore) BestCosts() []uint16 {
	out := make([]uint16, len(s.cells))
	for i := range s.cells {
		out[i] = s.cells[i].BestCost
	}
	return out
}

// Directions copies the direction field out of the store.
func (s *CellStore) Directions() []Direction {
	out := make([]Direction, len(s.cells))
	for i := range s.cells {
		out[i] = s.cells[i].BestDirection
	}
	return out
}
