package ecs

// SparseSet stores values keyed by slot id. Dense order is insertion order and
// survives removals, which keeps paint-order ties stable.
type SparseSet[T any] struct {
	denseIDs    []slotID
	denseValues []T
	sparse      []int
}

// Has returns true if the slot exists in the set.
func (s *SparseSet[T]) Has(id slotID) bool {
	if s == nil || id == 0 || int(id)-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseIDs) && s.denseIDs[idx] == id
}

// Get returns a pointer to the stored value, or nil.
func (s *SparseSet[T]) Get(id slotID) *T {
	if !s.Has(id) {
		return nil
	}
	return &s.denseValues[s.sparse[id-1]]
}

// Set inserts or updates the value for id.
func (s *SparseSet[T]) Set(id slotID, v T) {
	if s == nil || id == 0 {
		return
	}
	for int(id)-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseIDs) - 1
}

// Remove deletes the value for id, shifting later entries down by one.
func (s *SparseSet[T]) Remove(id slotID) bool {
	if !s.Has(id) {
		return false
	}
	idx := s.sparse[id-1]
	copy(s.denseIDs[idx:], s.denseIDs[idx+1:])
	copy(s.denseValues[idx:], s.denseValues[idx+1:])
	last := len(s.denseIDs) - 1
	var zero T
	s.denseValues[last] = zero
	s.denseIDs = s.denseIDs[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[id-1] = -1
	for i := idx; i < len(s.denseIDs); i++ {
		s.sparse[s.denseIDs[i]-1] = i
	}
	return true
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}

// Values returns the dense value slice. Callers may mutate elements in place
// but must not append to it.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}

func (s *SparseSet[T]) Clear() {
	s.denseIDs = nil
	s.denseValues = nil
	s.sparse = nil
}
