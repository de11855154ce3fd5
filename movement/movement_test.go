package movement

import (
	"context"
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	"github.com/milk9111/flowfield/common"
	"github.com/milk9111/flowfield/flowfield"
)

func solvedGrid(t *testing.T, size flowfield.Size, costs []uint8, dest flowfield.Index, slows bool) *flowfield.Grid {
	t.Helper()
	svc := flowfield.NewService(flowfield.WithLogger(log.New(io.Discard, "", 0)))
	g, err := svc.CreateGrid(size, 0.5, dest, costs)
	if err != nil {
		t.Fatalf("CreateGrid: %v", err)
	}
	g.SetSlowsByCost(slows)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := svc.Recalculate(ctx, g); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	return g
}

func TestSteer(t *testing.T) {
	g := solvedGrid(t, flowfield.Size{X: 3, Y: 1}, []uint8{1, 4, 1}, flowfield.Index{}, true)
	f := g.Field()

	cases := []struct {
		name   string
		field  *flowfield.Field
		agent  Agent
		paused bool
		want   common.Vec3
	}{
		{"open_cell", f, Agent{Position: common.Vec3{X: 2.5, Z: 0.5}, MoveSpeed: 2}, false, common.Vec3{X: -2}},
		{"slowed_by_cost", f, Agent{Position: common.Vec3{X: 1.5, Z: 0.5}, MoveSpeed: 2}, false, common.Vec3{X: -0.5}},
		{"keeps_vertical", f, Agent{Position: common.Vec3{X: 2.5, Z: 0.5}, Velocity: common.Vec3{Y: 3}, MoveSpeed: 1}, false, common.Vec3{X: -1, Y: 3}},
		{"on_destination", f, Agent{Position: common.Vec3{X: 0.5, Z: 0.5}, Velocity: common.Vec3{X: 9, Y: 1}, MoveSpeed: 2}, false, common.Vec3{Y: 1}},
		{"paused", f, Agent{Position: common.Vec3{X: 2.5, Z: 0.5}, Velocity: common.Vec3{X: 1, Y: 1, Z: 1}, MoveSpeed: 2}, true, common.Vec3{}},
		{"no_field", nil, Agent{Position: common.Vec3{X: 2.5, Z: 0.5}, Velocity: common.Vec3{Y: 2}, MoveSpeed: 2}, false, common.Vec3{Y: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Steer(c.field, c.agent, c.paused); got != c.want {
				t.Fatalf("Steer = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestSteerIgnoresCostWithoutSlowFlag(t *testing.T) {
	g := solvedGrid(t, flowfield.Size{X: 3, Y: 1}, []uint8{1, 4, 1}, flowfield.Index{}, false)
	got := Steer(g.Field(), Agent{Position: common.Vec3{X: 1.5, Z: 0.5}, MoveSpeed: 2}, false)
	if got != (common.Vec3{X: -2}) {
		t.Fatalf("Steer = %+v, want full speed west", got)
	}
}

func TestWorldAgentLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		spawn        int
		despawnIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_despawn_middle", 3, 1},
		{"none_despawned", 2, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.spawn)
			for i := 0; i < c.spawn; i++ {
				ents = append(ents, w.Spawn(Agent{MoveSpeed: float64(i + 1)}))
			}
			want := c.spawn
			if c.despawnIndex >= 0 {
				gone := ents[c.despawnIndex]
				if !w.Despawn(gone) {
					t.Fatalf("Despawn should succeed for a live agent")
				}
				if w.IsAlive(gone) || w.Despawn(gone) {
					t.Fatalf("despawned agent still alive")
				}
				if _, ok := w.Agent(gone); ok {
					t.Fatalf("despawned agent still readable")
				}
				want--
			}
			if w.Len() != want {
				t.Fatalf("expected %d agents, got %d", want, w.Len())
			}
			for i, e := range ents {
				if i == c.despawnIndex {
					continue
				}
				a, ok := w.Agent(e)
				if !ok || a.MoveSpeed != float64(i+1) {
					t.Fatalf("agent %s = %+v, %v", e, a, ok)
				}
			}
		})
	}
}

func TestWorldReusesSlotsWithNewGeneration(t *testing.T) {
	w := NewWorld()
	first := w.Spawn(Agent{})
	w.Despawn(first)
	second := w.Spawn(Agent{MoveSpeed: 5})

	if first.id() != second.id() {
		t.Fatalf("expected slot reuse, got %s and %s", first, second)
	}
	if first == second || w.IsAlive(first) {
		t.Fatalf("stale handle %s matches %s", first, second)
	}
	if w.SetAgent(first, Agent{MoveSpeed: 1}) {
		t.Fatalf("SetAgent accepted a stale handle")
	}
	if a, _ := w.Agent(second); a.MoveSpeed != 5 {
		t.Fatalf("new agent overwritten: %+v", a)
	}
}

func TestSchedulerWalksAgentsToDestination(t *testing.T) {
	g := solvedGrid(t, flowfield.Size{X: 5, Y: 1}, nil, flowfield.Index{}, false)

	w := NewWorld()
	e := w.Spawn(Agent{Position: common.Vec3{X: 4.5, Z: 0.5}, MoveSpeed: 1})
	flow := NewFlowSystem(g, 2)
	arrivals := NewArrivalSystem(g)
	sched := NewScheduler(flow, nil, arrivals)
	if len(sched.Systems()) != 2 {
		t.Fatalf("nil system should be skipped")
	}

	for tick := 0; tick < 20 && !arrivals.Done(w); tick++ {
		sched.Update(w, 0.5)
	}
	if got, ok := arrivals.Arrived[e]; !ok || got != 8 {
		t.Fatalf("arrived on tick %d (%v), want 8", got, ok)
	}

	a, _ := w.Agent(e)
	sched.Update(w, 0.5)
	b, _ := w.Agent(e)
	if a.Position != b.Position || b.Velocity != (common.Vec3{}) {
		t.Fatalf("agent kept moving on the destination: %+v -> %+v", a, b)
	}
}

func TestFlowSystemPause(t *testing.T) {
	g := solvedGrid(t, flowfield.Size{X: 5, Y: 1}, nil, flowfield.Index{}, false)
	w := NewWorld()
	start := common.Vec3{X: 3.5, Z: 0.5}
	e := w.Spawn(Agent{Position: start, Velocity: common.Vec3{Y: 1}, MoveSpeed: 1})

	flow := NewFlowSystem(g, 1)
	flow.SetPaused(true)
	if !flow.Paused() {
		t.Fatalf("expected paused")
	}
	flow.Update(w, 1)
	a, _ := w.Agent(e)
	if a.Position != start || a.Velocity != (common.Vec3{}) {
		t.Fatalf("paused agent moved: %+v", a)
	}

	flow.SetPaused(false)
	flow.Update(w, 1)
	a, _ = w.Agent(e)
	if a.Position.X != 2.5 {
		t.Fatalf("agent at x=%v after resuming, want 2.5", a.Position.X)
	}
}

func TestFlowSystemMatchesSerialSteering(t *testing.T) {
	size := flowfield.Size{X: 12, Y: 9}
	rng := rand.New(rand.NewSource(7))
	costs := make([]uint8, size.Count())
	for i := range costs {
		costs[i] = uint8(1 + rng.Intn(5))
	}
	g := solvedGrid(t, size, costs, flowfield.Index{X: 6, Y: 4}, true)
	f := g.Field()

	w := NewWorld()
	var want []Agent
	for i := 0; i < 300; i++ {
		a := Agent{
			Position:  common.Vec3{X: rng.Float64() * 6, Z: rng.Float64() * 4.5},
			MoveSpeed: 1 + rng.Float64(),
		}
		w.Spawn(a)
		a.Velocity = Steer(f, a, false)
		a.Position = a.Position.Add(a.Velocity.Scale(0.1))
		want = append(want, a)
	}

	NewFlowSystem(g, 4).Update(w, 0.1)
	for i, got := range w.Agents().Values() {
		if got != want[i] {
			t.Fatalf("agent %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestSpans(t *testing.T) {
	cases := []struct {
		n, workers int
		want       int
	}{
		{0, 4, 0},
		{10, 4, 1},
		{64, 1, 1},
		{256, 4, 4},
		{257, 4, 4},
		{1000, 3, 3},
	}
	for _, c := range cases {
		got := spans(c.n, c.workers)
		if len(got) != c.want {
			t.Fatalf("spans(%d, %d) = %v, want %d spans", c.n, c.workers, got, c.want)
		}
		next := 0
		for _, s := range got {
			if s[0] != next || s[1] <= s[0] {
				t.Fatalf("spans(%d, %d) not contiguous: %v", c.n, c.workers, got)
			}
			next = s[1]
		}
		if next != c.n {
			t.Fatalf("spans(%d, %d) cover %d items", c.n, c.workers, next)
		}
	}
}
