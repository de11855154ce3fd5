package sampler

import (
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/flowfield/common"
	"github.com/milk9111/flowfield/flowfield"
)

// Obstacle is an axis-aligned box on the X/Z plane. Cells overlapping it cost at least Cost.
type Obstacle struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
	Cost       uint8
}

// Physics samples cost by overlapping each cell's footprint with static shapes in a Chipmunk
// space. Every overlapping shape whose UserData is a uint8 raises the cell cost to at least that
// value; cells with no overlap get Base.
type Physics struct {
	Base uint8

	mu    sync.Mutex
	space *cp.Space
}

// NewPhysics creates an empty space and adds obstacles to it as static boxes.
func NewPhysics(base uint8, obstacles ...Obstacle) *Physics {
	p := &Physics{Base: base, space: cp.NewSpace()}
	for _, o := range obstacles {
		p.AddObstacle(o)
	}
	return p
}

// NewPhysicsFromSpace samples an existing space, e.g. the level's collision world. Shapes that
// should affect cost carry their cost as uint8 UserData.
func NewPhysicsFromSpace(base uint8, space *cp.Space) *Physics {
	return &Physics{Base: base, space: space}
}

func (p *Physics) AddObstacle(o Obstacle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bb := cp.BB{L: o.MinX, B: o.MinZ, R: o.MaxX, T: o.MaxZ}
	shape := cp.NewBox2(p.space.StaticBody, bb, 0)
	shape.UserData = o.Cost
	p.space.AddShape(shape)
}

// SampleCost is safe for concurrent use; queries on the shared space are serialized.
func (p *Physics) SampleCost(pos common.Vec3, cellRadius float64) (uint8, error) {
	// Shrink the footprint slightly so obstacles that only share an edge with the cell don't count.
	half := cellRadius * 0.99
	bb := cp.BB{L: pos.X - half, B: pos.Z - half, R: pos.X + half, T: pos.Z + half}

	cost := p.Base
	p.mu.Lock()
	p.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		c, ok := shape.UserData.(uint8)
		if ok && c > cost {
			cost = c
		}
	}, nil)
	p.mu.Unlock()

	return cost, nil
}

var _ flowfield.CostSampler = (*Physics)(nil)
