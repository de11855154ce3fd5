package flowfield

import "fmt"

// stepCost is what entering a passable cell adds to the integration distance. Cost 0 cells still
// cost one step so every reached cell has a strictly cheaper neighbour toward the destination.
func stepCost(c uint8) int {
	if c == 0 {
		return 1
	}
	return int(c)
}

// Integrate fills BestCost for every cell by flood-fill relaxation outward from dest.
//
// A FIFO work queue is used instead of a priority queue: a cell can be enqueued again each time
// a cheaper route to it is found, and the queue drains once nothing improves. Only cardinal
// neighbours propagate distance. Distances above MaxBestCost are never assigned; such cells stay
// unreached.
func Integrate(store *CellStore, dest Index) error {
	size := store.Size()
	if !size.Contains(dest) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrInvalidDestinationIndex, dest.X, dest.Y, size.X, size.Y)
	}

	store.Reset()

	destCell := store.At(dest)
	if !destCell.Passable() {
		return fmt.Errorf("%w: (%d,%d) is impassable", ErrUnreachableDestination, dest.X, dest.Y)
	}
	destCell.BestCost = 0
	destCell.IsDestination = true

	queue := make([]int, 0, store.Len())
	queue = append(queue, size.FlatIndex(dest))
	neighbors := make([]Index, 0, len(CardinalDirections))

	for head := 0; head < len(queue); head++ {
		cur := store.AtFlat(queue[head])

		neighbors = size.NeighborIndices(cur.GridIndex, CardinalDirections, neighbors[:0])
		for _, n := range neighbors {
			if n == InvalidIndex {
				continue
			}
			flat := size.FlatIndex(n)
			next := store.AtFlat(flat)
			if !next.Passable() {
				continue
			}

			candidate := int(cur.BestCost)
			if !next.IsDestination {
				candidate += stepCost(next.Cost)
			}
			if candidate > MaxBestCost {
				continue
			}
			if candidate < int(next.BestCost) {
				next.BestCost = uint16(candidate)
				queue = append(queue, flat)
			}
		}

		// Reclaim the consumed prefix once it dominates the buffer.
		if head > 1024 && head*2 > len(queue) {
			n := copy(queue, queue[head+1:])
			queue = queue[:n]
			head = -1
		}
	}

	return nil
}
