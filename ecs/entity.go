package ecs

import "strconv"

// Handle addresses a slot in the entity arena. The upper 32 bits carry a
// generation so a handle to a deleted entity never resolves to its successor.
type Handle uint64

type slotID uint32
type generation uint32

const slotBits = 32

func makeHandle(id slotID, gen generation) Handle {
	return Handle(uint64(gen)<<slotBits | uint64(id))
}

func (h Handle) slot() slotID {
	return slotID(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> slotBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

func (h Handle) Valid() bool {
	return h.slot() > 0
}
