package ecs

import (
	"math/bits"
)

// BitsetSize is the number of bits a Bitset can hold.
const BitsetSize = 256

// Bitset is a fixed 256-bit set used for abilities and collected pickups.
// Out-of-range indexes are ignored by Set and never reported by Has.
type Bitset [4]uint64

// Set sets the bit at i.
func (b *Bitset) Set(i int) {
	if i < 0 || i >= BitsetSize {
		return
	}
	b[i/64] |= 1 << (i % 64)
}

// Has returns true if the bit at i is set.
func (b Bitset) Has(i int) bool {
	if i < 0 || i >= BitsetSize {
		return false
	}
	return b[i/64]&(1<<(i%64)) != 0
}

// Count returns the number of bits set.
func (b Bitset) Count() int {
	return bits.OnesCount64(b[0]) + bits.OnesCount64(b[1]) +
		bits.OnesCount64(b[2]) + bits.OnesCount64(b[3])
}
