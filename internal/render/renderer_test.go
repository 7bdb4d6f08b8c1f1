package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelsand/internal/metrics"
	"voxelsand/internal/world"
)

type stubMeshes struct {
	meshes map[MeshKey]*Mesh
	mat    *Material
}

func newStubMeshes() *stubMeshes {
	s := &stubMeshes{meshes: make(map[MeshKey]*Mesh), mat: &Material{Name: DefaultMaterial}}
	for k := world.KindAir + 1; k <= world.KindGrassEntity; k++ {
		for _, v := range []Variant{VariantSide, VariantTop, VariantBottom} {
			key := MeshKey{Kind: k, Variant: v}
			s.meshes[key] = &Mesh{Name: k.String() + "_" + v.String()}
		}
	}
	return s
}

func (s *stubMeshes) Mesh(key MeshKey) *Mesh         { return s.meshes[key] }
func (s *stubMeshes) Material(name string) *Material { return s.mat }

// flatGen fills y < height with stone and everything else with air.
type flatGen struct {
	w      *world.World
	height int
	calls  int
}

func (g *flatGen) GenerateChunk(c world.ChunkCoord, constructing bool) *world.Chunk {
	if !g.w.Extents().Contains(c) {
		return nil
	}
	if chunk := g.w.GetChunk(c); chunk != nil {
		return chunk
	}
	g.calls++
	chunk := g.w.SetChunk(c, world.NewChunk(c, constructing))
	origin := c.Origin()
	for i := range world.ChunkSize {
		for j := range world.ChunkSize {
			for k := range world.ChunkSize {
				p := origin.Add(world.Pos{X: i, Y: j, Z: k})
				if p.Y < g.height {
					g.w.CreateBlock(p, world.KindStone, false, chunk)
				}
			}
		}
	}
	chunk.FillAir()
	return chunk
}

type faceRef struct {
	pos  world.Pos
	face world.Face
}

func liveFaces(w *world.World, r *Renderer) map[faceRef]bool {
	out := make(map[faceRef]bool)
	for _, c := range w.Chunks() {
		c.Each(func(b *world.Block) {
			for f := world.Face(0); f < world.FaceCount; f++ {
				if h, ok := b.Faces[f].Get(); ok && r.FaceList().Valid(h) {
					out[faceRef{b.Pos, f}] = true
				}
			}
		})
	}
	return out
}

func newTestRenderer(t *testing.T, height int, opts Options) (*world.World, *flatGen, *Renderer) {
	t.Helper()
	w := world.New(world.DefaultExtents())
	gen := &flatGen{w: w, height: height}
	return w, gen, NewRenderer(w, gen, newStubMeshes(), opts)
}

func place(r *Renderer, w *world.World, p world.Pos, k world.Kind) *world.Block {
	b := w.CreateBlock(p, k, false, nil)
	r.RenderBlock(b)
	return b
}

func remove(r *Renderer, w *world.World, p world.Pos) {
	r.UnrenderBlock(p)
	w.CreateBlock(p, world.KindAir, true, nil)
}

func TestFaceKeyVariants(t *testing.T) {
	assert.Equal(t, MeshKey{world.KindGrass, VariantTop}, FaceKey(world.KindGrass, world.FaceUp))
	assert.Equal(t, MeshKey{world.KindDirt, VariantSide}, FaceKey(world.KindGrass, world.FaceDown))
	assert.Equal(t, MeshKey{world.KindGrass, VariantSide}, FaceKey(world.KindGrass, world.FaceLeft))
	assert.Equal(t, MeshKey{world.KindTNT, VariantTop}, FaceKey(world.KindTNT, world.FaceUp))
	assert.Equal(t, MeshKey{world.KindTNT, VariantBottom}, FaceKey(world.KindTNT, world.FaceDown))
	assert.Equal(t, MeshKey{world.KindStone, VariantSide}, FaceKey(world.KindStone, world.FaceUp))
}

func TestRenderBlockSymmetricCancellation(t *testing.T) {
	w, _, r := newTestRenderer(t, 0, Options{})
	r.RenderChunk(world.ChunkCoord{X: 1, Y: 1, Z: 1})

	a := place(r, w, world.Pos{X: 10, Y: 10, Z: 10}, world.KindStone)
	require.Equal(t, 6, r.FaceList().Live())

	b := place(r, w, world.Pos{X: 11, Y: 10, Z: 10}, world.KindStone)
	assert.Equal(t, 10, r.FaceList().Live(), "shared face pair must not be drawn")

	_, aLeft := a.Faces[world.FaceLeft].Get()
	_, bRight := b.Faces[world.FaceRight].Get()
	assert.False(t, aLeft)
	assert.False(t, bRight)

	faces := liveFaces(w, r)
	assert.Len(t, faces, r.FaceList().Live())
	assert.False(t, faces[faceRef{a.Pos, world.FaceLeft}])
}

func TestRenderBlockTransparentIndependence(t *testing.T) {
	w, _, r := newTestRenderer(t, 0, Options{})
	r.RenderChunk(world.ChunkCoord{X: 1, Y: 1, Z: 1})
	center := world.Pos{X: 10, Y: 10, Z: 10}

	rose := place(r, w, center, world.KindRose)
	for f := world.Face(0); f < world.FaceCount; f++ {
		place(r, w, center.Add(f.Dir()), world.KindStone)
	}
	for f := world.Face(0); f < world.FaceCount; f++ {
		h, ok := rose.Faces[f].Get()
		assert.True(t, ok && r.FaceList().Valid(h), "rose face %v should stay rendered", f)
	}

	enclosed := world.Pos{X: 20, Y: 20, Z: 20}
	for f := world.Face(0); f < world.FaceCount; f++ {
		place(r, w, enclosed.Add(f.Dir()), world.KindStone)
	}
	web := place(r, w, enclosed, world.KindSpiderWeb)
	for f := world.Face(0); f < world.FaceCount; f++ {
		h, ok := web.Faces[f].Get()
		assert.True(t, ok && r.FaceList().Valid(h), "web face %v should be rendered", f)
	}
}

func TestPlaceRemoveRoundTrip(t *testing.T) {
	w, _, r := newTestRenderer(t, 4, Options{})
	r.RenderChunk(world.ChunkCoord{X: 1, Y: 0, Z: 1})
	before := liveFaces(w, r)
	require.True(t, before[faceRef{world.Pos{X: 10, Y: 3, Z: 10}, world.FaceUp}])

	positions := []world.Pos{{X: 10, Y: 4, Z: 10}, {X: 12, Y: 3, Z: 12}, {X: 9, Y: 5, Z: 9}}
	for _, p := range positions {
		for _, k := range []world.Kind{world.KindBrick, world.KindRose} {
			if p.Y == 3 {
				remove(r, w, p)
				before = liveFaces(w, r)
			}
			place(r, w, p, k)
			assert.NotEqual(t, before, liveFaces(w, r))
			remove(r, w, p)
			assert.Equal(t, before, liveFaces(w, r), "round trip of %v at %v", k, p)
		}
	}
}

func TestRenderBlockIdempotent(t *testing.T) {
	w, _, r := newTestRenderer(t, 0, Options{})
	r.RenderChunk(world.ChunkCoord{X: 1, Y: 1, Z: 1})
	b := place(r, w, world.Pos{X: 10, Y: 10, Z: 10}, world.KindStone)
	n := r.FaceList().Len()

	r.RenderBlock(b)
	r.RenderBlock(b)
	assert.Equal(t, n, r.FaceList().Len())

	r.UnrenderFace(b, world.FaceUp)
	r.UnrenderFace(b, world.FaceUp)
	assert.Equal(t, 5, r.FaceList().Live())

	r.RenderBlock(nil)
	r.RenderBlock(w.GetBlock(world.Pos{X: 12, Y: 12, Z: 12}))
	assert.Equal(t, 5, r.FaceList().Live())
}

func TestRenderChunkGeneratesOnce(t *testing.T) {
	w, gen, r := newTestRenderer(t, 4, Options{})
	c := world.ChunkCoord{X: 2, Y: 0, Z: 2}

	r.RenderChunk(c)
	n := r.FaceList().Len()
	r.RenderChunk(c)
	r.RenderChunk(world.ChunkCoord{X: -1, Y: 0, Z: 0})

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, n, r.FaceList().Len())
	assert.Len(t, r.RenderedChunks(), 1)
	assert.True(t, w.GetChunk(c).Rendered())
	// Top surface plus the four outer walls of the stone slab over y=0..3
	// and the bottom at y=0 because y=-1 is negative.
	assert.Equal(t, 64+64+4*32, r.FaceList().Live())
}

func TestUnrenderChunkKeepsTerrain(t *testing.T) {
	w, _, r := newTestRenderer(t, 4, Options{})
	c := world.ChunkCoord{X: 2, Y: 0, Z: 2}
	r.RenderChunk(c)
	chunk := w.GetChunk(c)

	r.UnrenderChunk(chunk)
	r.UnrenderChunk(chunk)
	r.UnrenderChunk(nil)

	assert.Equal(t, 0, r.FaceList().Live())
	assert.False(t, chunk.Rendered())
	assert.Empty(t, r.RenderedChunks())
	assert.Same(t, chunk, w.GetChunk(c))
	assert.Equal(t, world.KindStone, w.GetBlock(world.Pos{X: 16, Y: 0, Z: 16}).Kind)
}

func TestUnrenderBlockSkipsUnrenderedNeighbourChunk(t *testing.T) {
	w, gen, r := newTestRenderer(t, 4, Options{})
	gen.GenerateChunk(world.ChunkCoord{X: 0, Y: 0, Z: 0}, false)
	r.RenderChunk(world.ChunkCoord{X: 1, Y: 0, Z: 0})

	// (8,3,3) sits in the rendered chunk; its right neighbour (7,3,3) does not.
	remove(r, w, world.Pos{X: 8, Y: 3, Z: 3})
	n := w.GetBlock(world.Pos{X: 7, Y: 3, Z: 3})
	_, ok := n.Faces[world.FaceLeft].Get()
	assert.False(t, ok)

	below := w.GetBlock(world.Pos{X: 8, Y: 2, Z: 3})
	h, ok := below.Faces[world.FaceUp].Get()
	assert.True(t, ok && r.FaceList().Valid(h))
}

func TestRenderAllChunksStalesHandles(t *testing.T) {
	w, _, r := newTestRenderer(t, 4, Options{GenRadius: 1})
	r.RenderChunk(world.ChunkCoord{X: 1, Y: 0, Z: 1})
	b := w.GetBlock(world.Pos{X: 10, Y: 3, Z: 10})
	old, ok := b.Faces[world.FaceUp].Get()
	require.True(t, ok)

	r.RenderAllChunks(mgl32.Vec3{12, 4, 12}, true)

	assert.False(t, r.FaceList().Valid(old))
	fresh, ok := b.Faces[world.FaceUp].Get()
	require.True(t, ok)
	assert.True(t, r.FaceList().Valid(fresh))
	assert.NotEqual(t, old.Generation, fresh.Generation)
	assert.Len(t, r.RenderedChunks(), 1, "rerender only draws existing chunks")

	live := r.FaceList().Live()
	assert.False(t, r.FaceList().Retract(old), "stale handle must not hit a fresh slot")
	assert.Equal(t, live, r.FaceList().Live())
}

func TestRenderAllChunksGeneratesSphere(t *testing.T) {
	w, _, r := newTestRenderer(t, 4, Options{GenRadius: 1})
	r.RenderAllChunks(mgl32.Vec3{20, 20, 20}, false)

	// Chunk (2,2,2) and its six face neighbours.
	assert.Equal(t, 7, w.Len())
	assert.Len(t, r.RenderedChunks(), 7)
	for _, c := range r.RenderedChunks() {
		assert.LessOrEqual(t, c.Coord.Distance(world.ChunkCoord{X: 2, Y: 2, Z: 2}), 1.0)
	}
}

func TestUpdateRenderChunksEvictsFarChunks(t *testing.T) {
	m := metrics.New(nil)
	w, _, r := newTestRenderer(t, 4, Options{RenderRadius: 1, MaxChunks: 2, Metrics: m})
	far := []world.ChunkCoord{{X: 20, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 20}, {X: 30, Y: 0, Z: 30}}
	for _, c := range far {
		r.RenderChunk(c)
	}
	center := world.ChunkCoord{X: 5, Y: 0, Z: 5}

	r.UpdateRenderChunks(center, mgl32.Vec3{44, 4, 44})

	require.NotEmpty(t, r.RenderedChunks())
	for _, c := range r.RenderedChunks() {
		assert.LessOrEqual(t, c.Coord.Chebyshev(center), 1)
		assert.True(t, c.Rendered())
	}
	faces := liveFaces(w, r)
	for _, c := range far {
		chunk := w.GetChunk(c)
		require.NotNil(t, chunk, "evicted chunks stay in the world")
		assert.False(t, chunk.Rendered())
		chunk.Each(func(b *world.Block) {
			for f := world.Face(0); f < world.FaceCount; f++ {
				assert.False(t, faces[faceRef{b.Pos, f}])
			}
		})
	}
	_, _, _, _, evictions := m.Collectors()
	assert.Equal(t, 3.0, testutil.ToFloat64(evictions))
}

func TestUpdateRenderChunksOverflowRebuilds(t *testing.T) {
	m := metrics.New(nil)
	w, _, r := newTestRenderer(t, 4, Options{RenderRadius: 1, GenRadius: 1, MaxFaces: 10, Metrics: m})
	gen := r.FaceList().Generation()

	r.UpdateRenderChunks(world.ChunkCoord{X: 1, Y: 0, Z: 1}, mgl32.Vec3{12, 4, 12})

	assert.Greater(t, r.FaceList().Generation(), gen)
	_, _, _, rebuilds, _ := m.Collectors()
	assert.Equal(t, 1.0, testutil.ToFloat64(rebuilds))
	for _, c := range r.RenderedChunks() {
		assert.True(t, c.Rendered())
	}
	assert.Len(t, liveFaces(w, r), r.FaceList().Live())
}

func TestFaceTransformStaysOnBlock(t *testing.T) {
	p := world.Pos{X: 3, Y: 4, Z: 5}
	corners := []mgl32.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}, {1, 1, 0, 1}}
	for f := world.Face(0); f < world.FaceCount; f++ {
		m := FaceTransform(p, f)
		n := FaceNormal(f)
		for _, c := range corners {
			v := m.Mul4x1(c).Vec3()
			for axis := 0; axis < 3; axis++ {
				lo := float32(p.Vec3()[axis])
				switch {
				case n[axis] > 0:
					assert.InDelta(t, lo+1, v[axis], 1e-4, "face %v axis %d", f, axis)
				case n[axis] < 0:
					assert.InDelta(t, lo, v[axis], 1e-4, "face %v axis %d", f, axis)
				default:
					assert.GreaterOrEqual(t, v[axis], lo-1e-4, "face %v axis %d", f, axis)
					assert.LessOrEqual(t, v[axis], lo+1+1e-4, "face %v axis %d", f, axis)
				}
			}
		}
	}
}
