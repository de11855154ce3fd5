package flowfield

import "errors"

var (
	// ErrInvalidGridSize is returned when a grid has non-positive dimensions, a non-positive
	// cell radius, or a cost snapshot that does not match its cell count.
	ErrInvalidGridSize = errors.New("flowfield: invalid grid size")

	// ErrInvalidDestinationIndex is returned when a destination lies outside the grid.
	ErrInvalidDestinationIndex = errors.New("flowfield: invalid destination index")

	// ErrUnreachableDestination is returned when the destination cell is impassable.
	// The previously published field stays active.
	ErrUnreachableDestination = errors.New("flowfield: unreachable destination")
)
