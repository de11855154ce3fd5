package sampler

import (
	"fmt"

	"github.com/milk9111/flowfield/common"
	"github.com/milk9111/flowfield/flowfield"
)

// Layer looks costs up from a per-cell table laid out like the grid it was authored for.
type Layer struct {
	geom  flowfield.Geometry
	costs []uint8
}

// NewLayer wraps costs, indexed by geom.Size.FlatIndex.
func NewLayer(geom flowfield.Geometry, costs []uint8) (*Layer, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if len(costs) != geom.Size.Count() {
		return nil, fmt.Errorf("sampler: layer has %d costs for %d cells", len(costs), geom.Size.Count())
	}
	return &Layer{geom: geom, costs: append([]uint8(nil), costs...)}, nil
}

func (l *Layer) SampleCost(pos common.Vec3, _ float64) (uint8, error) {
	return l.costs[l.geom.Size.FlatIndex(l.geom.WorldToCellIndex(pos))], nil
}

// Max combines samplers by taking the highest cost any of them reports, so an impassable
// answer from one sampler always wins.
type Max []flowfield.CostSampler

func (m Max) SampleCost(pos common.Vec3, cellRadius float64) (uint8, error) {
	var cost uint8
	for _, s := range m {
		c, err := s.SampleCost(pos, cellRadius)
		if err != nil {
			return 0, err
		}
		if c > cost {
			cost = c
		}
		if cost == flowfield.CostImpassable {
			break
		}
	}
	return cost, nil
}

var (
	_ flowfield.CostSampler = (*Layer)(nil)
	_ flowfield.CostSampler = Max(nil)
)
