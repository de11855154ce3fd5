package movement

// SparseSet stores values densely, keyed by entity slot id, so systems can iterate (and split)
// a contiguous slice.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        []int
}

func (s *SparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.denseEntities) || s.denseEntities[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *SparseSet[T]) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Get returns a pointer into the dense slice. It is invalidated by the next Set or Remove.
func (s *SparseSet[T]) Get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.denseValues[idx], true
}

// Set inserts or updates the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if idx, ok := s.index(e); ok {
		s.denseValues[idx] = v
		return
	}
	id := int(e.id())
	if id <= 0 {
		return
	}
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes e's value by swapping the last dense entry into its place.
func (s *SparseSet[T]) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.denseEntities) - 1
	moved := s.denseEntities[last]

	s.denseEntities[idx] = moved
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[moved.id()-1] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[e.id()-1] = -1
	return true
}

func (s *SparseSet[T]) Len() int {
	return len(s.denseEntities)
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	return s.denseEntities
}

// Values returns the dense value list in the same order as Entities.
func (s *SparseSet[T]) Values() []T {
	return s.denseValues
}
