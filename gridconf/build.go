package gridconf

import (
	"context"

	"github.com/milk9111/flowfield/flowfield"
)

// Build creates a service wired to the config's sampler and samples the configured grid.
// The grid is returned Uninitialized; the caller requests the first solve.
func Build(ctx context.Context, cfg Config, opts ...flowfield.Option) (*flowfield.Service, *flowfield.Grid, error) {
	s, err := cfg.Sampler()
	if err != nil {
		return nil, nil, err
	}

	opts = append([]flowfield.Option{
		flowfield.WithWorkers(cfg.Workers),
		flowfield.WithSampler(s),
	}, opts...)
	svc := flowfield.NewService(opts...)

	g, err := svc.SampleGrid(ctx, cfg.GridSize(), cfg.CellRadius, cfg.DestinationIndex())
	if err != nil {
		return nil, nil, err
	}
	g.SetSlowsByCost(cfg.SlowsByCost)
	return svc, g, nil
}

// Apply pushes a reloaded config into a running grid: new costs from the reloaded sampler and
// the configured destination. Geometry changes cannot be applied in place and return
// ErrInvalidGridSize.
func Apply(ctx context.Context, svc *flowfield.Service, g *flowfield.Grid, cfg Config) (*flowfield.Handle, error) {
	if cfg.Geometry() != g.Geometry() {
		return nil, flowfield.ErrInvalidGridSize
	}
	s, err := cfg.Sampler()
	if err != nil {
		return nil, err
	}
	costs, err := flowfield.SampleCosts(ctx, cfg.Geometry(), s, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if err := g.SetCosts(costs); err != nil {
		return nil, err
	}
	g.SetSlowsByCost(cfg.SlowsByCost)
	return svc.MoveDestination(g, cfg.DestinationIndex())
}
