package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/milk9111/flowfield/flowfield"
	"github.com/milk9111/flowfield/gridconf"
	"github.com/spf13/cobra"
)

func WatchCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "watch",
		Short: "re-solve a grid whenever its config or cost script changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg, svc, g, err := loadAndSolve(ctx, configFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printField(out, cfg.Name, g.Field())

			dirs := cfg.WatchDirs()
			w, err := gridconf.NewWatcher(dirs...)
			if err != nil {
				return err
			}
			defer w.Close()
			logger.Printf("watching %v", dirs)

			errs := w.Errors
			for {
				select {
				case <-ctx.Done():
					svc.Wait()
					return nil
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					logger.Printf("watch error: %v", err)
				case ev, ok := <-w.Events:
					if !ok {
						return nil
					}
					if !cfg.Affected(ev) {
						continue
					}
					logger.Printf("%s %s changed, reloading", ev.Kind, ev.Path)
					next, nextSvc, nextGrid, err := reload(ctx, ev, cfg, svc, g)
					if err != nil {
						logger.Printf("reload failed: %v", err)
						continue
					}
					cfg, svc, g = next, nextSvc, nextGrid
					printField(out, cfg.Name, g.Field())
				}
			}
		},
	}
	c.Flags().StringVar(&configFile, "config", "grid.yaml", "grid config file")
	return c
}

// reload applies a change to the running grid. A script change re-samples with the current
// config; a config change re-reads it first, building a new grid when the geometry changed.
func reload(ctx context.Context, ev gridconf.Event, cfg gridconf.Config, svc *flowfield.Service, g *flowfield.Grid) (gridconf.Config, *flowfield.Service, *flowfield.Grid, error) {
	if ev.Kind == gridconf.EventConfig {
		next, err := gridconf.Load(cfg.Path())
		if err != nil {
			return gridconf.Config{}, nil, nil, err
		}
		cfg = next
	}

	h, err := gridconf.Apply(ctx, svc, g, cfg)
	if errors.Is(err, flowfield.ErrInvalidGridSize) {
		logger.Printf("grid geometry changed, rebuilding")
		return loadAndSolve(ctx, cfg.Path())
	}
	if err != nil {
		return gridconf.Config{}, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()
	if err := h.Wait(ctx); err != nil {
		return gridconf.Config{}, nil, nil, err
	}
	return cfg, svc, g, nil
}
