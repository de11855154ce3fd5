package flowfield

import "context"

// Handle tracks one recalculation request. Requests coalesced into the same rebuild share a Handle.
type Handle struct {
	done  chan struct{}
	err   error
	field *Field
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) finish(f *Field, err error) {
	h.field = f
	h.err = err
	close(h.done)
}

// Done is closed when the rebuild finished, successfully or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports the rebuild outcome. It is nil until Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Field returns the field published by this rebuild, nil until Done or on failure.
func (h *Handle) Field() *Field {
	select {
	case <-h.done:
		return h.field
	default:
		return nil
	}
}

// Wait blocks until the rebuild finished or ctx is done. Giving up on the wait does not cancel
// the rebuild.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
