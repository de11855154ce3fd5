package main

import (
	"fmt"

	"github.com/milk9111/flowfield/common"
	"github.com/milk9111/flowfield/movement"
	"github.com/spf13/cobra"
)

func SimulateCmd() *cobra.Command {
	var (
		configFile string
		ticks      int
		dt         float64
	)
	c := &cobra.Command{
		Use:   "simulate",
		Short: "walk the config's agents along the solved field",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, g, err := loadAndSolve(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			if len(cfg.Agents) == 0 {
				return fmt.Errorf("%s has no agents", configFile)
			}

			w := movement.NewWorld()
			ents := make([]movement.Entity, 0, len(cfg.Agents))
			for _, a := range cfg.Agents {
				speed := a.Speed
				if speed <= 0 {
					speed = 1
				}
				ents = append(ents, w.Spawn(movement.Agent{
					Position:  common.Vec3{X: a.Position[0], Y: a.Position[1], Z: a.Position[2]},
					MoveSpeed: speed,
				}))
			}

			arrivals := movement.NewArrivalSystem(g)
			sched := movement.NewScheduler(movement.NewFlowSystem(g, cfg.Workers), arrivals)
			tick := 0
			for ; tick < ticks && !arrivals.Done(w); tick++ {
				sched.Update(w, dt)
			}
			logger.Printf("simulated %d ticks", tick)

			f := g.Field()
			out := cmd.OutOrStdout()
			for _, e := range ents {
				a, _ := w.Agent(e)
				idx := f.Geometry().WorldToCellIndex(a.Position)
				if at, ok := arrivals.Arrived[e]; ok {
					fmt.Fprintf(out, "agent %s arrived at tick %d (%.2f, %.2f)\n", e, at, a.Position.X, a.Position.Z)
					continue
				}
				fmt.Fprintf(out, "agent %s at (%.2f, %.2f) cell (%d,%d)\n", e, a.Position.X, a.Position.Z, idx.X, idx.Y)
			}
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "grid.yaml", "grid config file")
	c.Flags().IntVar(&ticks, "ticks", 600, "maximum ticks to simulate")
	c.Flags().Float64Var(&dt, "dt", 1.0/60, "seconds per tick")
	return c
}
