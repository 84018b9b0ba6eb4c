package cuspatial

// Quadrant keys are Morton (Z-order) codes: the x and y quadrant indices at a
// given depth, bit-interleaved with x in the even bits. A key at level L uses
// the low 2*L bits, so the parent quadrant's key is the key shifted right by
// two, and the root key is always 0.

// Key identifies a quadrant at some level of the tree.
type Key = uint32

// MaxDepthLimit is the deepest supported subdivision level: keys carry two
// bits per level and must fit in 32 bits.
const MaxDepthLimit = 15

// interleave spreads the low 16 bits of x so that bit i moves to bit 2i.
func interleave(x uint32) uint32 {
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// deinterleave collects the even bits of z back into the low 16 bits.
func deinterleave(z uint32) uint32 {
	z &= 0x55555555
	z = (z | (z >> 1)) & 0x33333333
	z = (z | (z >> 2)) & 0x0F0F0F0F
	z = (z | (z >> 4)) & 0x00FF00FF
	z = (z | (z >> 8)) & 0x0000FFFF
	return z
}

// mortonKey encodes the quadrant holding cell (qx, qy) of the max-depth grid.
func mortonKey(qx, qy uint32) Key {
	return interleave(qx) | interleave(qy)<<1
}

// mortonCell is the inverse of mortonKey.
func mortonCell(k Key) (qx, qy uint32) {
	return deinterleave(k), deinterleave(k >> 1)
}

// keyParent returns the key of the enclosing quadrant one level up.
func keyParent(k Key) Key { return k >> 2 }

// keyPrefix truncates a depth-from key to depth to.
func keyPrefix(k Key, from, to int) Key { return k >> (2 * uint(from-to)) }

// commonLevel returns the deepest level, at most depth, at which two
// depth-`depth` keys still name the same quadrant.
func commonLevel(a, b Key, depth int) int {
	level := depth
	for d := a ^ b; d != 0; d >>= 2 {
		level--
	}
	return level
}
