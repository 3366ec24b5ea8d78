package pool

import "strconv"

// Handle identifies a live arena slot. The low 32 bits hold the slot index
// plus one, the high 32 bits hold the slot generation, so a released slot
// never matches its old handles again.
type Handle uint64

const indexBits = 32

func makeHandle(index uint32, gen uint32) Handle {
	return Handle(uint64(gen)<<indexBits | uint64(index+1))
}

func (h Handle) index() (uint32, bool) {
	raw := uint32(uint64(h))
	if raw == 0 {
		return 0, false
	}
	return raw - 1, true
}

func (h Handle) generation() uint32 {
	return uint32(uint64(h) >> indexBits)
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Valid reports whether h could refer to a slot. The zero Handle never does.
func (h Handle) Valid() bool {
	return uint32(uint64(h)) != 0
}
