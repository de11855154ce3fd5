package movement

import (
	"github.com/milk9111/flowfield/common"
	"github.com/milk9111/flowfield/flowfield"
)

// Steer returns the velocity an agent should have this tick. Only X and Z are driven by the field;
// Y is carried over unless the simulation is paused, which stops the agent completely.
//
// An agent on the destination cell, on an unreached cell, or on a grid without a published field
// gets no horizontal velocity. Cells flagged SlowsByCost divide the speed by their cost.
func Steer(f *flowfield.Field, a Agent, paused bool) common.Vec3 {
	if paused {
		return common.Vec3{}
	}
	v := common.Vec3{Y: a.Velocity.Y}

	cell, ok := f.CellAt(a.Position)
	if !ok || cell.IsDestination {
		return v
	}

	speed := a.MoveSpeed
	if cell.SlowsByCost && cell.Cost > 0 && cell.Cost < flowfield.CostImpassable {
		speed /= float64(cell.Cost)
	}
	dir := cell.BestDirection.Vector().Scale(speed)
	v.X = dir.X
	v.Z = dir.Y
	return v
}

// Arrived reports whether the agent stands on the field's destination cell.
func Arrived(f *flowfield.Field, a Agent) bool {
	cell, ok := f.CellAt(a.Position)
	return ok && cell.IsDestination
}
