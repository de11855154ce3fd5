package flowfield

import (
	"context"
	"fmt"

	"github.com/milk9111/flowfield/common"
	"golang.org/x/sync/errgroup"
)

// CostSampler assigns a traversal cost to the cell centered at pos. Implementations are called
// from several goroutines at once and must not depend on call order.
type CostSampler interface {
	SampleCost(pos common.Vec3, cellRadius float64) (uint8, error)
}

// CostSamplerFunc adapts a plain function to CostSampler.
type CostSamplerFunc func(pos common.Vec3, cellRadius float64) (uint8, error)

func (f CostSamplerFunc) SampleCost(pos common.Vec3, cellRadius float64) (uint8, error) {
	return f(pos, cellRadius)
}

// UniformCost samples the same cost everywhere.
func UniformCost(cost uint8) CostSampler {
	return CostSamplerFunc(func(common.Vec3, float64) (uint8, error) {
		return cost, nil
	})
}

// SampleCosts evaluates sampler once per cell, fanning column bands out over workers goroutines.
// It returns after every band finished, or with the first sampler error.
func SampleCosts(ctx context.Context, geom Geometry, sampler CostSampler, workers int) ([]uint8, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if sampler == nil {
		sampler = UniformCost(CostDefault)
	}

	costs := make([]uint8, geom.Size.Count())
	g, ctx := errgroup.WithContext(ctx)
	for _, b := range columnBands(geom.Size.X, workers) {
		b := b
		g.Go(func() error {
			for x := b[0]; x < b[1]; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for y := 0; y < geom.Size.Y; y++ {
					idx := Index{X: x, Y: y}
					cost, err := sampler.SampleCost(geom.CellIndexToWorldPos(idx), geom.CellRadius)
					if err != nil {
						return fmt.Errorf("flowfield: sample cell (%d,%d): %w", x, y, err)
					}
					costs[geom.Size.FlatIndex(idx)] = cost
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return costs, nil
}
