package flowfield

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the rebuild lifecycle of a Grid.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRebuilding:
		return "rebuilding"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Grid is one navigable area: its geometry, the current cost snapshot and destination, and the
// most recently published Field. Grids are created by a Service.
type Grid struct {
	geom Geometry

	field atomic.Pointer[Field]
	state atomic.Int32

	mu          sync.Mutex
	costs       []uint8 // replaced wholesale, never written in place
	slows       bool
	destination Index
	pending     *Handle
	running     bool
	version     uint64
}

func newGrid(geom Geometry, dest Index, costs []uint8) *Grid {
	return &Grid{geom: geom, destination: dest, costs: costs}
}

func (g *Grid) Geometry() Geometry {
	return g.geom
}

func (g *Grid) State() State {
	return State(g.state.Load())
}

// Field returns the published field, nil until the first successful rebuild.
func (g *Grid) Field() *Field {
	return g.field.Load()
}

// Destination is the destination the next rebuild will solve for. It can differ from
// Field().Destination() while a rebuild is pending or after one failed.
func (g *Grid) Destination() Index {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.destination
}

// Costs returns a copy of the current cost snapshot.
func (g *Grid) Costs() []uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]uint8(nil), g.costs...)
}

// SetCosts replaces the cost snapshot. The published field is untouched until the next rebuild.
func (g *Grid) SetCosts(costs []uint8) error {
	if len(costs) != g.geom.Size.Count() {
		return fmt.Errorf("%w: %d costs for %d cells", ErrInvalidGridSize, len(costs), g.geom.Size.Count())
	}
	snapshot := append([]uint8(nil), costs...)
	g.mu.Lock()
	g.costs = snapshot
	g.mu.Unlock()
	return nil
}

// SetSlowsByCost sets the flag copied onto every cell by the next rebuild.
func (g *Grid) SetSlowsByCost(slows bool) {
	g.mu.Lock()
	g.slows = slows
	g.mu.Unlock()
}

// settle returns the grid to its stable state after a rebuild attempt.
func (g *Grid) settle() {
	if g.field.Load() != nil {
		g.state.Store(int32(StateReady))
		return
	}
	g.state.Store(int32(StateUninitialized))
}
