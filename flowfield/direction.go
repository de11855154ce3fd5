package flowfield

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BuildDirections derives BestDirection for every cell from a finalized integration field.
// Each reached cell points at its neighbour with the strictly lowest BestCost, ties going to the
// earliest entry of AllDirections. The destination, unreached and impassable cells get the zero
// Direction. Column bands are processed in parallel on up to workers goroutines.
func BuildDirections(ctx context.Context, store *CellStore, workers int) error {
	size := store.Size()
	bands := columnBands(size.X, workers)

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range bands {
		b := b
		g.Go(func() error {
			neighbors := make([]Index, 0, len(AllDirections))
			for x := b[0]; x < b[1]; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for y := 0; y < size.Y; y++ {
					c := store.At(Index{X: x, Y: y})
					c.BestDirection, neighbors = bestDirection(store, c, neighbors)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func bestDirection(store *CellStore, c *Cell, scratch []Index) (Direction, []Index) {
	if !c.Passable() || !c.Reached() || c.IsDestination {
		return Direction{}, scratch
	}

	size := store.Size()
	scratch = size.NeighborIndices(c.GridIndex, AllDirections, scratch[:0])

	best := c.BestCost
	dir := Direction{}
	for i, n := range scratch {
		if n == InvalidIndex {
			continue
		}
		if nb := store.At(n).BestCost; nb < best {
			best = nb
			dir = AllDirections[i]
		}
	}
	return dir, scratch
}

// columnBands splits [0, columns) into at most workers contiguous ranges.
func columnBands(columns, workers int) [][2]int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > columns {
		workers = columns
	}
	if workers < 1 {
		workers = 1
	}

	bands := make([][2]int, 0, workers)
	per := columns / workers
	extra := columns % workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + per
		if i < extra {
			end++
		}
		bands = append(bands, [2]int{start, end})
		start = end
	}
	return bands
}
