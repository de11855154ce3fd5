package movement

import "github.com/milk9111/flowfield/common"

// Agent is one unit following a flow field.
type Agent struct {
	Position  common.Vec3
	Velocity  common.Vec3
	MoveSpeed float64
}

// World owns the agents of one simulation and the order its systems run in.
// It is not safe for concurrent use; systems may fan out internally.
type World struct {
	entities entityStore
	agents   SparseSet[Agent]
}

func NewWorld() *World {
	return &World{}
}

// Spawn adds an agent and returns its handle.
func (w *World) Spawn(a Agent) Entity {
	e := w.entities.create()
	w.agents.Set(e, a)
	return e
}

// Despawn removes an agent. It reports false for a stale or unknown handle.
func (w *World) Despawn(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	w.agents.Remove(e)
	return true
}

func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Agent returns a copy of e's agent.
func (w *World) Agent(e Entity) (Agent, bool) {
	a, ok := w.agents.Get(e)
	if !ok {
		return Agent{}, false
	}
	return *a, true
}

func (w *World) SetAgent(e Entity, a Agent) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	w.agents.Set(e, a)
	return true
}

func (w *World) Len() int {
	return w.agents.Len()
}

// Agents exposes the dense agent storage to systems.
func (w *World) Agents() *SparseSet[Agent] {
	return &w.agents
}
