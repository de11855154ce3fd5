package flowfield

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/milk9111/flowfield/common"
)

// Service creates grids, runs their rebuilds and answers movement queries.
//
// Each grid has at most one rebuild in flight. A request made while another request is still
// waiting to start is folded into it and gets the same Handle; a request made after the waiting
// one started queues behind the running rebuild. Rebuilds write into a fresh CellStore and publish
// with a single pointer swap, so queries always see a complete field.
type Service struct {
	workers   int
	sampler   CostSampler
	logger    *log.Logger
	onPublish func(*Grid, *Field)

	// beforePublish runs after a successful build, before the field is swapped in.
	beforePublish func(*Grid)

	wg sync.WaitGroup
}

type Option func(*Service)

// WithWorkers bounds the goroutines used for cost sampling and direction building.
// Zero or less means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// WithSampler sets the sampler used by SampleGrid and RefreshCosts.
func WithSampler(sampler CostSampler) Option {
	return func(s *Service) {
		s.sampler = sampler
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnPublish registers a callback run on the rebuild goroutine after each publish.
func WithOnPublish(fn func(*Grid, *Field)) Option {
	return func(s *Service) {
		s.onPublish = fn
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGrid registers a navigable area with an initial cost snapshot. A nil costs slice means
// every cell costs CostDefault. The grid starts Uninitialized; call RequestRecalculation to solve it.
func (s *Service) CreateGrid(size Size, cellRadius float64, dest Index, costs []uint8) (*Grid, error) {
	geom := Geometry{Size: size, CellRadius: cellRadius}
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if !size.Contains(dest) {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrInvalidDestinationIndex, dest.X, dest.Y, size.X, size.Y)
	}

	var snapshot []uint8
	switch {
	case costs == nil:
		snapshot = make([]uint8, size.Count())
		for i := range snapshot {
			snapshot[i] = CostDefault
		}
	case len(costs) != size.Count():
		return nil, fmt.Errorf("%w: %d costs for %d cells", ErrInvalidGridSize, len(costs), size.Count())
	default:
		snapshot = append([]uint8(nil), costs...)
	}

	return newGrid(geom, dest, snapshot), nil
}

// SampleGrid runs the configured sampler over every cell and creates a grid from the result.
func (s *Service) SampleGrid(ctx context.Context, size Size, cellRadius float64, dest Index) (*Grid, error) {
	geom := Geometry{Size: size, CellRadius: cellRadius}
	costs, err := SampleCosts(ctx, geom, s.sampler, s.workers)
	if err != nil {
		return nil, err
	}
	return s.CreateGrid(size, cellRadius, dest, costs)
}

// RefreshCosts re-samples the grid's costs and requests a rebuild with them. On a sampler error
// the snapshot is left as it was and no rebuild is requested.
func (s *Service) RefreshCosts(ctx context.Context, g *Grid) (*Handle, error) {
	costs, err := SampleCosts(ctx, g.geom, s.sampler, s.workers)
	if err != nil {
		return nil, err
	}
	if err := g.SetCosts(costs); err != nil {
		return nil, err
	}
	return s.RequestRecalculation(g)
}

// RequestRecalculation marks g for a rebuild toward its current destination.
func (s *Service) RequestRecalculation(g *Grid) (*Handle, error) {
	return s.request(g, nil)
}

// MoveDestination sets a new destination and requests a rebuild toward it.
func (s *Service) MoveDestination(g *Grid, dest Index) (*Handle, error) {
	return s.request(g, &dest)
}

// Recalculate requests a rebuild and waits for it.
func (s *Service) Recalculate(ctx context.Context, g *Grid) (*Field, error) {
	h, err := s.RequestRecalculation(g)
	if err != nil {
		return nil, err
	}
	if err := h.Wait(ctx); err != nil {
		return nil, err
	}
	return h.Field(), nil
}

// Wait blocks until no rebuild goroutine is running.
func (s *Service) Wait() {
	s.wg.Wait()
}

// QueryDirection returns the unit direction an agent at pos should move in. It never blocks on a
// rebuild and returns the zero vector before the first solve.
func (s *Service) QueryDirection(g *Grid, pos common.Vec3) common.Vec2 {
	return g.Field().DirectionAt(pos)
}

// QueryCost returns the cost of the cell at pos in the published field, CostImpassable before the
// first solve.
func (s *Service) QueryCost(g *Grid, pos common.Vec3) uint8 {
	return g.Field().CostAt(pos)
}

func (s *Service) request(g *Grid, dest *Index) (*Handle, error) {
	if dest != nil && !g.geom.Size.Contains(*dest) {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrInvalidDestinationIndex, dest.X, dest.Y, g.geom.Size.X, g.geom.Size.Y)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if dest != nil {
		g.destination = *dest
	}
	if g.pending != nil {
		return g.pending, nil
	}

	h := newHandle()
	g.pending = h
	if !g.running {
		g.running = true
		s.wg.Add(1)
		go s.run(g)
	}
	return h, nil
}

func (s *Service) run(g *Grid) {
	defer s.wg.Done()
	for {
		g.mu.Lock()
		h := g.pending
		if h == nil {
			g.running = false
			g.mu.Unlock()
			return
		}
		g.pending = nil
		dest := g.destination
		costs := g.costs
		slows := g.slows
		g.mu.Unlock()

		s.rebuild(g, h, dest, costs, slows)
	}
}

func (s *Service) rebuild(g *Grid, h *Handle, dest Index, costs []uint8, slows bool) {
	g.state.Store(int32(StateRebuilding))
	start := time.Now()

	store := NewCellStore(g.geom, costs, slows)
	err := Integrate(store, dest)
	if err == nil {
		err = BuildDirections(context.Background(), store, s.workers)
	}
	if err != nil {
		g.settle()
		s.logger.Printf("flowfield: rebuild toward (%d,%d) failed: %v", dest.X, dest.Y, err)
		h.finish(nil, err)
		return
	}

	if s.beforePublish != nil {
		s.beforePublish(g)
	}

	g.mu.Lock()
	g.version++
	f := &Field{store: store, destination: dest, version: g.version}
	g.mu.Unlock()

	g.field.Store(f)
	g.state.Store(int32(StateReady))
	s.logger.Printf("flowfield: published v%d toward (%d,%d) in %s", f.version, dest.X, dest.Y, time.Since(start))

	if s.onPublish != nil {
		s.onPublish(g, f)
	}
	h.finish(f, nil)
}
