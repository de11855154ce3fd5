package movement

import (
	"runtime"
	"sync/atomic"

	"github.com/milk9111/flowfield/flowfield"
	"golang.org/x/sync/errgroup"
)

// FieldSource hands out the currently published field. *flowfield.Grid implements it.
type FieldSource interface {
	Field() *flowfield.Field
}

// FlowSystem steers every agent along the published field and integrates its position.
// The field is loaded once per tick, so a rebuild finishing mid-tick is picked up on the next one.
type FlowSystem struct {
	source  FieldSource
	workers int
	paused  atomic.Bool
}

// NewFlowSystem creates a system reading fields from source. workers bounds the goroutines per
// tick; zero or less means GOMAXPROCS.
func NewFlowSystem(source FieldSource, workers int) *FlowSystem {
	return &FlowSystem{source: source, workers: workers}
}

// SetPaused stops (or restarts) all agents. Safe to call from any goroutine.
func (s *FlowSystem) SetPaused(paused bool) {
	s.paused.Store(paused)
}

func (s *FlowSystem) Paused() bool {
	return s.paused.Load()
}

func (s *FlowSystem) Update(w *World, dt float64) {
	if w == nil || s.source == nil {
		return
	}
	f := s.source.Field()
	paused := s.paused.Load()
	agents := w.Agents().Values()

	var g errgroup.Group
	for _, span := range spans(len(agents), s.workers) {
		part := agents[span[0]:span[1]]
		g.Go(func() error {
			for i := range part {
				a := &part[i]
				a.Velocity = Steer(f, *a, paused)
				a.Position = a.Position.Add(a.Velocity.Scale(dt))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// minSpan keeps tiny worlds on a single goroutine.
const minSpan = 64

// spans splits n items into at most workers contiguous [start, end) ranges.
func spans(n, workers int) [][2]int {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	size := (n + workers - 1) / workers
	if size < minSpan {
		size = minSpan
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}

// ArrivalSystem records the tick on which each agent first reaches the destination cell.
type ArrivalSystem struct {
	source FieldSource
	tick   int

	Arrived map[Entity]int
}

func NewArrivalSystem(source FieldSource) *ArrivalSystem {
	return &ArrivalSystem{source: source, Arrived: make(map[Entity]int)}
}

func (s *ArrivalSystem) Update(w *World, dt float64) {
	s.tick++
	f := s.source.Field()
	if f == nil {
		return
	}
	set := w.Agents()
	agents := set.Values()
	for i, e := range set.Entities() {
		if _, ok := s.Arrived[e]; ok {
			continue
		}
		if Arrived(f, agents[i]) {
			s.Arrived[e] = s.tick
		}
	}
}

// Done reports whether every agent in w has arrived.
func (s *ArrivalSystem) Done(w *World) bool {
	for _, e := range w.Agents().Entities() {
		if _, ok := s.Arrived[e]; !ok {
			return false
		}
	}
	return true
}

var (
	_ System = (*FlowSystem)(nil)
	_ System = (*ArrivalSystem)(nil)
)
