package terrain

import "math/bits"

// heightCache memoises surface heights over the non-negative square
// [0,size)x[0,size). A separate bitmap marks computed entries, so a genuine
// height of zero is cached like any other. Outside the square heights are
// computed on every call.
type heightCache struct {
	size    int
	heights []int32
	known   []uint64
}

func newHeightCache(size int) *heightCache {
	return &heightCache{size: size}
}

func (c *heightCache) index(x, z int) (int, bool) {
	if c.size <= 0 || x < 0 || z < 0 || x >= c.size || z >= c.size {
		return 0, false
	}
	return x*c.size + z, true
}

func (c *heightCache) get(x, z int, compute func(x, z int) int) int {
	idx, ok := c.index(x, z)
	if !ok {
		return compute(x, z)
	}
	if c.heights == nil {
		c.heights = make([]int32, c.size*c.size)
		c.known = make([]uint64, (c.size*c.size+63)/64)
	}
	word, bit := idx/64, uint64(1)<<(idx%64)
	if c.known[word]&bit != 0 {
		return int(c.heights[idx])
	}
	h := compute(x, z)
	c.heights[idx] = int32(h)
	c.known[word] |= bit
	return h
}

// cached reports how many entries have been computed.
func (c *heightCache) cached() int {
	n := 0
	for _, w := range c.known {
		n += bits.OnesCount64(w)
	}
	return n
}
