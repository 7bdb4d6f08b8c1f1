package world

import (
	"math"
)

const (
	// ChunkSize is the edge length of a cubic chunk.
	ChunkSize = 8
	// ChunkArea is the number of columns in a chunk.
	ChunkArea = ChunkSize * ChunkSize
	// ChunkVolume is the number of block slots in a chunk.
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// ChunkCoord is a position on the chunk grid.
type ChunkCoord struct {
	X, Y, Z int
}

// ChunkOf returns the chunk coordinate holding world position p.
func ChunkOf(p Pos) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(p.X, ChunkSize),
		Y: floorDiv(p.Y, ChunkSize),
		Z: floorDiv(p.Z, ChunkSize),
	}
}

// ChunkOfVec3 returns the chunk coordinate holding a world-space point.
func ChunkOfVec3(x, y, z float32) ChunkCoord {
	return ChunkOf(Pos{floorToInt(x), floorToInt(y), floorToInt(z)})
}

// Origin returns the world position of the chunk's (0,0,0) slot.
func (c ChunkCoord) Origin() Pos {
	return Pos{c.X * ChunkSize, c.Y * ChunkSize, c.Z * ChunkSize}
}

// Negative reports whether the coordinate lies below chunk (0,0,0).
func (c ChunkCoord) Negative() bool {
	return c.X < 0 || c.Y < 0 || c.Z < 0
}

// Chebyshev returns the largest per-axis distance between two coordinates.
func (c ChunkCoord) Chebyshev(o ChunkCoord) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y), abs(c.Z-o.Z))
}

// Distance returns the Euclidean distance between two coordinates.
func (c ChunkCoord) Distance(o ChunkCoord) float64 {
	dx := float64(c.X - o.X)
	dy := float64(c.Y - o.Y)
	dz := float64(c.Z - o.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Local splits a world position into its in-chunk offset.
func Local(p Pos) (i, j, k int) {
	return mod(p.X, ChunkSize), mod(p.Y, ChunkSize), mod(p.Z, ChunkSize)
}

// Chunk is a fixed-size cube of blocks. Blocks are stored in an arena owned
// by the chunk, so a *Block stays valid as long as the chunk does.
type Chunk struct {
	Coord ChunkCoord

	blocks    [ChunkVolume]Block
	allocated [ChunkVolume]bool
	count     int

	rendered bool
	built    bool
}

// NewChunk creates an empty chunk; every slot starts unset.
func NewChunk(c ChunkCoord, built bool) *Chunk {
	return &Chunk{Coord: c, built: built}
}

// index converts local coordinates to an arena index, x->y->z order.
func index(i, j, k int) int {
	return (i*ChunkSize+j)*ChunkSize + k
}

func inChunk(i, j, k int) bool {
	return i >= 0 && i < ChunkSize && j >= 0 && j < ChunkSize && k >= 0 && k < ChunkSize
}

// Block returns the block at local (i,j,k), or nil if the slot is unset.
func (c *Chunk) Block(i, j, k int) *Block {
	if !inChunk(i, j, k) {
		return nil
	}
	idx := index(i, j, k)
	if !c.allocated[idx] {
		return nil
	}
	return &c.blocks[idx]
}

// put stores b at local (i,j,k) and returns the arena slot.
func (c *Chunk) put(i, j, k int, b Block) *Block {
	idx := index(i, j, k)
	if !c.allocated[idx] {
		c.allocated[idx] = true
		c.count++
	}
	c.blocks[idx] = b
	return &c.blocks[idx]
}

// FillAir allocates every unset slot as air.
func (c *Chunk) FillAir() {
	origin := c.Coord.Origin()
	for i := range ChunkSize {
		for j := range ChunkSize {
			for k := range ChunkSize {
				if c.allocated[index(i, j, k)] {
					continue
				}
				c.put(i, j, k, NewBlock(origin.Add(Pos{i, j, k}), KindAir))
			}
		}
	}
}

// Complete reports whether every slot of the chunk holds a block.
func (c *Chunk) Complete() bool {
	return c.count == ChunkVolume
}

// Allocated returns the number of set slots.
func (c *Chunk) Allocated() int {
	return c.count
}

// Each calls fn for every allocated block in x->y->z order.
func (c *Chunk) Each(fn func(b *Block)) {
	for idx := range c.blocks {
		if c.allocated[idx] {
			fn(&c.blocks[idx])
		}
	}
}

// Rendered reports whether the chunk's faces are in the render list.
func (c *Chunk) Rendered() bool {
	return c.rendered
}

// SetRendered updates the rendered flag.
func (c *Chunk) SetRendered(v bool) {
	c.rendered = v
}

// Built reports whether a structure has claimed the chunk.
func (c *Chunk) Built() bool {
	return c.built
}

// MarkBuilt claims the chunk for a structure. The flag is never cleared.
func (c *Chunk) MarkBuilt() {
	c.built = true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func floorToInt(v float32) int {
	return int(math.Floor(float64(v)))
}
