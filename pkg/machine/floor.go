package machine

import "fmt"

type tile struct {
	set bool
	val Value
}

// Floor is the tile store: a fixed-size array of optional values. Tiles
// start empty and hold a value only after a write; reading an empty tile
// is a fault at the machine level, not a default.
type Floor struct {
	tiles []tile
}

// NewFloor allocates a floor of the given size seeded with the sparse
// initial layout. Seed indices outside [0, size) are rejected.
func NewFloor(size int, init map[int]Value) (*Floor, error) {
	if size < 0 {
		return nil, fmt.Errorf("machine: floor size %d is negative", size)
	}
	f := &Floor{tiles: make([]tile, size)}
	for addr, v := range init {
		if addr < 0 || addr >= size {
			return nil, fmt.Errorf("machine: initial tile %d outside floor of size %d", addr, size)
		}
		f.tiles[addr] = tile{set: true, val: v}
	}
	return f, nil
}

// Size returns the number of addressable tiles.
func (f *Floor) Size() int { return len(f.tiles) }

// At reads the tile at addr. The second result is false for a tile that
// was never written. addr must already be bounds-checked.
func (f *Floor) At(addr int) (Value, bool) {
	t := f.tiles[addr]
	return t.val, t.set
}

// Set writes v into the tile at addr, creating it if unwritten. addr must
// already be bounds-checked.
func (f *Floor) Set(addr int, v Value) {
	f.tiles[addr] = tile{set: true, val: v}
}
