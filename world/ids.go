package world

import "github.com/milk9111/collision/body"

const idIndexBits = 32

func makeID(index uint32, gen uint32) body.ID {
	return body.ID(uint64(gen)<<idIndexBits | uint64(index))
}

func idIndex(id body.ID) uint32 {
	return uint32(id)
}

func idGeneration(id body.ID) uint32 {
	return uint32(uint64(id) >> idIndexBits)
}

// idStore hands out body ids. A destroyed id's slot is recycled with the
// next generation so stale ids never name a new body.
type idStore struct {
	gen  []uint32
	free []uint32
}

func (s *idStore) create() body.ID {
	var index uint32
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		index = uint32(len(s.gen))
	}
	return makeID(index, s.gen[index-1])
}

func (s *idStore) destroy(id body.ID) {
	if !s.isAlive(id) {
		return
	}
	index := idIndex(id)
	s.gen[index-1]++
	s.free = append(s.free, index)
}

func (s *idStore) isAlive(id body.ID) bool {
	index := idIndex(id)
	if index == 0 || int(index) > len(s.gen) {
		return false
	}
	return s.gen[index-1] == idGeneration(id)
}
