package main

import (
	"fmt"
	"io"

	"github.com/milk9111/flowfield/flowfield"
	"github.com/spf13/cobra"
)

func SolveCmd() *cobra.Command {
	var (
		configFile string
		from       []int
	)
	c := &cobra.Command{
		Use:   "solve",
		Short: "solve a grid once and print its layers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, g, err := loadAndSolve(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			f := g.Field()
			out := cmd.OutOrStdout()
			printField(out, cfg.Name, f)

			if len(from) == 0 {
				return nil
			}
			if len(from) != 2 {
				return fmt.Errorf("--from wants x,y, got %v", from)
			}
			start := flowfield.Index{X: from[0], Y: from[1]}
			path := f.Path(start)
			if len(path) == 0 || path[len(path)-1] != f.Destination() {
				fmt.Fprintf(out, "no route from (%d,%d)\n", start.X, start.Y)
				return nil
			}
			fmt.Fprint(out, "path:")
			for _, idx := range path {
				fmt.Fprintf(out, " (%d,%d)", idx.X, idx.Y)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "grid.yaml", "grid config file")
	c.Flags().IntSliceVar(&from, "from", nil, "print the route from cell x,y")
	return c
}

func printField(w io.Writer, name string, f *flowfield.Field) {
	size := f.Geometry().Size
	dest := f.Destination()
	fmt.Fprintf(w, "%s %dx%d -> (%d,%d) v%d\n", name, size.X, size.Y, dest.X, dest.Y, f.Version())
	fmt.Fprintf(w, "\ncosts:\n%s", flowfield.FormatCosts(f))
	fmt.Fprintf(w, "\nbest costs:\n%s", flowfield.FormatBestCosts(f))
	fmt.Fprintf(w, "\ndirections:\n%s", flowfield.FormatDirections(f))
}
