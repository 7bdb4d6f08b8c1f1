package world

import (
	"sync"
)

const (
	// DefaultMaxChunksXZ bounds the chunk grid along X and Z.
	DefaultMaxChunksXZ = 64
	// DefaultMaxChunksY bounds the chunk grid along Y.
	DefaultMaxChunksY = 32
)

// Extents bounds the chunk grid. A zero field leaves that axis unbounded.
type Extents struct {
	ChunksXZ int
	ChunksY  int
}

// DefaultExtents returns the standard world size.
func DefaultExtents() Extents {
	return Extents{ChunksXZ: DefaultMaxChunksXZ, ChunksY: DefaultMaxChunksY}
}

// Contains reports whether c lies inside the non-negative, bounded grid.
func (e Extents) Contains(c ChunkCoord) bool {
	if c.Negative() {
		return false
	}
	if e.ChunksXZ > 0 && (c.X >= e.ChunksXZ || c.Z >= e.ChunksXZ) {
		return false
	}
	if e.ChunksY > 0 && c.Y >= e.ChunksY {
		return false
	}
	return true
}

// World is the chunk registry. Only GetOrCreateChunk and SetChunk insert
// into the map; everything else goes through the accessors.
type World struct {
	mu      sync.RWMutex
	chunks  map[ChunkCoord]*Chunk
	extents Extents
}

// New creates an empty world bounded by e.
func New(e Extents) *World {
	return &World{
		chunks:  make(map[ChunkCoord]*Chunk),
		extents: e,
	}
}

// Extents returns the grid bounds.
func (w *World) Extents() Extents {
	return w.extents
}

// GetChunk returns the chunk at c or nil. It never creates.
func (w *World) GetChunk(c ChunkCoord) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[c]
}

// GetOrCreateChunk returns the chunk at c, registering an empty one if needed.
// Coordinates outside the grid yield nil.
func (w *World) GetOrCreateChunk(c ChunkCoord) *Chunk {
	if !w.extents.Contains(c) {
		return nil
	}
	w.mu.RLock()
	chunk, ok := w.chunks[c]
	w.mu.RUnlock()
	if ok {
		return chunk
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.chunks[c]; ok {
		return existing
	}
	chunk = NewChunk(c, false)
	w.chunks[c] = chunk
	return chunk
}

// SetChunk force-registers chunk at c, replacing any previous entry.
func (w *World) SetChunk(c ChunkCoord, chunk *Chunk) *Chunk {
	w.mu.Lock()
	w.chunks[c] = chunk
	w.mu.Unlock()
	return chunk
}

// Len returns the number of registered chunks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// Chunks returns a snapshot of all registered chunks in no particular order.
func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// GetBlock returns the block at p, or nil when its chunk is absent or the slot unset.
func (w *World) GetBlock(p Pos) *Block {
	chunk := w.GetChunk(ChunkOf(p))
	if chunk == nil {
		return nil
	}
	return chunk.Block(Local(p))
}

// IsAirBlock reports whether an air block exists at (x,y,z).
// Positions in chunks that were never created count as solid.
func (w *World) IsAirBlock(x, y, z int) bool {
	return w.GetBlock(Pos{x, y, z}).IsAir()
}

// CreateBlock writes kind at p and returns the resulting block.
//
// It returns nil for KindNone, negative or out-of-grid positions. When a
// non-air block already occupies the slot and replace is false, the existing
// block is returned untouched. hint saves the chunk lookup; a hint that does
// not hold p is ignored.
func (w *World) CreateBlock(p Pos, kind Kind, replace bool, hint *Chunk) *Block {
	if kind == KindNone || p.Negative() {
		return nil
	}
	chunk := hint
	if chunk == nil || chunk.Coord != ChunkOf(p) {
		chunk = w.GetOrCreateChunk(ChunkOf(p))
		if chunk == nil {
			return nil
		}
	}

	i, j, k := Local(p)
	if existing := chunk.Block(i, j, k); existing != nil {
		if !replace && existing.Kind != KindAir {
			return existing
		}
		existing.Kind = kind
	}
	return chunk.put(i, j, k, NewBlock(p, kind))
}
