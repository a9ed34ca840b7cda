package ecs

// handleStore tracks slot generations and free slots.
type handleStore struct {
	gen  []generation
	free []slotID
}

func (s *handleStore) create() Handle {
	var id slotID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.gen = append(s.gen, 0)
		id = slotID(len(s.gen))
	}
	return makeHandle(id, s.gen[id-1])
}

func (s *handleStore) destroy(h Handle) bool {
	if !s.isAlive(h) {
		return false
	}
	id := h.slot()
	s.gen[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *handleStore) isAlive(h Handle) bool {
	id := h.slot()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == h.generation()
}

func (s *handleStore) reset() {
	s.gen = nil
	s.free = nil
}
