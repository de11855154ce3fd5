package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/milk9111/flowfield/flowfield"
	"github.com/milk9111/flowfield/gridconf"
	"github.com/spf13/cobra"
)

const solveTimeout = 30 * time.Second

var logger = log.New(os.Stderr, "flowfield: ", log.LstdFlags)

func main() {
	root := &cobra.Command{
		Use:           "flowfield",
		Short:         "flow field pathfinding over YAML-described grids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(SolveCmd(), WatchCmd(), SimulateCmd())

	if err := root.Execute(); err != nil {
		logger.Fatal(err)
	}
}

// loadAndSolve builds the grid described by path and waits for its first field.
func loadAndSolve(ctx context.Context, path string) (gridconf.Config, *flowfield.Service, *flowfield.Grid, error) {
	cfg, err := gridconf.Load(path)
	if err != nil {
		return gridconf.Config{}, nil, nil, err
	}
	svc, g, err := gridconf.Build(ctx, cfg, flowfield.WithLogger(logger))
	if err != nil {
		return gridconf.Config{}, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()
	if _, err := svc.Recalculate(ctx, g); err != nil {
		return gridconf.Config{}, nil, nil, err
	}
	return cfg, svc, g, nil
}
