package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlockOnVirginWorld(t *testing.T) {
	w := New(DefaultExtents())

	b := w.CreateBlock(Pos{5, 60, 5}, KindStone, false, nil)
	require.NotNil(t, b)

	chunk := w.GetChunk(ChunkCoord{0, 7, 0})
	require.NotNil(t, chunk, "chunk (0,7,0) should have been created")
	assert.Equal(t, 1, w.Len())

	local := chunk.Block(5, 4, 5)
	require.NotNil(t, local)
	assert.Equal(t, KindStone, local.Kind)
	assert.Same(t, b, local)
	assert.Same(t, b, w.GetBlock(Pos{5, 60, 5}))
}

func TestCreateBlockRejects(t *testing.T) {
	w := New(DefaultExtents())

	assert.Nil(t, w.CreateBlock(Pos{1, 1, 1}, KindNone, true, nil))
	assert.Nil(t, w.CreateBlock(Pos{-1, 1, 1}, KindStone, true, nil))
	assert.Nil(t, w.CreateBlock(Pos{1, -1, 1}, KindStone, true, nil))
	assert.Nil(t, w.CreateBlock(Pos{1, 1, -1}, KindStone, true, nil))
	assert.Nil(t, w.CreateBlock(Pos{DefaultMaxChunksXZ * ChunkSize, 0, 0}, KindStone, true, nil))
	assert.Equal(t, 0, w.Len(), "rejected writes must not create chunks")
}

func TestCreateBlockReplaceRules(t *testing.T) {
	w := New(DefaultExtents())
	p := Pos{3, 3, 3}

	first := w.CreateBlock(p, KindStone, false, nil)
	require.NotNil(t, first)

	kept := w.CreateBlock(p, KindDirt, false, nil)
	assert.Equal(t, KindStone, kept.Kind, "non-air blocks survive replace=false")

	replaced := w.CreateBlock(p, KindDirt, true, nil)
	assert.Equal(t, KindDirt, replaced.Kind)

	w.CreateBlock(p, KindAir, true, nil)
	overAir := w.CreateBlock(p, KindBrick, false, nil)
	assert.Equal(t, KindBrick, overAir.Kind, "air is always replaceable")
	assert.Same(t, first, w.GetBlock(p), "slot is reused, never reallocated")
}

func TestCreateBlockResetsFaces(t *testing.T) {
	w := New(DefaultExtents())
	p := Pos{0, 0, 0}
	b := w.CreateBlock(p, KindStone, false, nil)
	b.Faces[FaceUp].Set(FaceHandle{Index: 4})

	b = w.CreateBlock(p, KindDirt, true, nil)
	_, rendered := b.Faces[FaceUp].Get()
	assert.False(t, rendered)
	assert.Equal(t, DefaultBrightness, b.Brightness)
}

func TestCreateBlockWithHint(t *testing.T) {
	w := New(DefaultExtents())
	chunk := w.GetOrCreateChunk(ChunkCoord{1, 0, 0})

	b := w.CreateBlock(Pos{9, 2, 3}, KindClay, false, chunk)
	require.NotNil(t, b)
	assert.Same(t, b, chunk.Block(1, 2, 3))
}

func TestCreateBlockIgnoresWrongHint(t *testing.T) {
	w := New(DefaultExtents())
	wrong := w.GetOrCreateChunk(ChunkCoord{0, 0, 0})

	b := w.CreateBlock(Pos{9, 2, 3}, KindClay, false, wrong)
	require.NotNil(t, b)
	assert.Nil(t, wrong.Block(1, 2, 3))
	assert.Same(t, b, w.GetChunk(ChunkCoord{1, 0, 0}).Block(1, 2, 3))
	assert.Equal(t, 2, w.Len())
}

func TestIsAirBlockAbsentChunkIsSolid(t *testing.T) {
	w := New(DefaultExtents())

	assert.False(t, w.IsAirBlock(10, 10, 10), "ungenerated chunk must be solid")
	assert.Nil(t, w.GetBlock(Pos{10, 10, 10}))

	w.GetOrCreateChunk(ChunkCoord{1, 1, 1})
	assert.False(t, w.IsAirBlock(10, 10, 10), "unset slot in an existing chunk is not air")

	w.CreateBlock(Pos{10, 10, 10}, KindAir, true, nil)
	assert.True(t, w.IsAirBlock(10, 10, 10))

	w.CreateBlock(Pos{10, 10, 10}, KindStone, true, nil)
	assert.False(t, w.IsAirBlock(10, 10, 10))
}

func TestGetOrCreateChunkIsUnique(t *testing.T) {
	w := New(DefaultExtents())
	a := w.GetOrCreateChunk(ChunkCoord{2, 3, 4})
	b := w.GetOrCreateChunk(ChunkCoord{2, 3, 4})
	assert.Same(t, a, b)
	assert.Equal(t, 1, w.Len())
	assert.Nil(t, w.GetOrCreateChunk(ChunkCoord{-1, 0, 0}))
}

func TestSetChunkReplaces(t *testing.T) {
	w := New(DefaultExtents())
	c := ChunkCoord{0, 0, 0}
	old := w.GetOrCreateChunk(c)
	fresh := NewChunk(c, true)

	w.SetChunk(c, fresh)
	assert.Same(t, fresh, w.GetChunk(c))
	assert.NotSame(t, old, w.GetChunk(c))
	assert.Equal(t, 1, w.Len())
}

func TestUnboundedExtents(t *testing.T) {
	w := New(Extents{})
	b := w.CreateBlock(Pos{10000, 5000, 10000}, KindStone, false, nil)
	require.NotNil(t, b)
	assert.Equal(t, ChunkCoord{1250, 625, 1250}, ChunkOf(b.Pos))
}

func TestFloorDivAndMod(t *testing.T) {
	tests := []struct {
		a, q, m int
	}{
		{0, 0, 0},
		{7, 0, 7},
		{8, 1, 0},
		{-1, -1, 7},
		{-8, -1, 0},
		{-9, -2, 7},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, ChunkSize); got != tt.q {
			t.Errorf("floorDiv(%d) = %d, want %d", tt.a, got, tt.q)
		}
		if got := mod(tt.a, ChunkSize); got != tt.m {
			t.Errorf("mod(%d) = %d, want %d", tt.a, got, tt.m)
		}
	}
}

func BenchmarkCreateBlock(b *testing.B) {
	w := New(DefaultExtents())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.CreateBlock(Pos{i % 512, (i / 512) % 256, (i / 131072) % 512}, KindStone, true, nil)
	}
}
