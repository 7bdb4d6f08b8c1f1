package render

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/metrics"
	"voxelsand/internal/profiling"
	"voxelsand/internal/world"
)

const (
	DefaultRenderRadius = 3
	DefaultGenRadius    = 4
	DefaultMaxChunks    = 200
	DefaultMaxFaces     = 100000
)

// ChunkGenerator populates chunks on demand.
type ChunkGenerator interface {
	GenerateChunk(c world.ChunkCoord, constructing bool) *world.Chunk
}

// Options tunes the streaming policy. Zero fields take the defaults.
type Options struct {
	RenderRadius int
	GenRadius    int
	MaxChunks    int
	MaxFaces     int
	Material     string

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.RenderRadius <= 0 {
		o.RenderRadius = DefaultRenderRadius
	}
	if o.GenRadius <= 0 {
		o.GenRadius = DefaultGenRadius
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = DefaultMaxChunks
	}
	if o.MaxFaces <= 0 {
		o.MaxFaces = DefaultMaxFaces
	}
	if o.Material == "" {
		o.Material = DefaultMaterial
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Renderer keeps the render list in sync with the world: one object per
// visible face, streamed in and out as the player moves.
type Renderer struct {
	world    *world.World
	gen      ChunkGenerator
	meshes   MeshSource
	material *Material
	opts     Options
	log      *slog.Logger
	metrics  *metrics.Metrics

	faces    FaceList
	rendered []*world.Chunk
}

// NewRenderer wires a renderer to its collaborators. The material is resolved
// once; a missing material leaves objects with a nil Material.
func NewRenderer(w *world.World, gen ChunkGenerator, meshes MeshSource, opts Options) *Renderer {
	opts = opts.withDefaults()
	return &Renderer{
		world:    w,
		gen:      gen,
		meshes:   meshes,
		material: meshes.Material(opts.Material),
		opts:     opts,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
}

// FaceList exposes the render list.
func (r *Renderer) FaceList() *FaceList { return &r.faces }

// Objects returns the ordered render list for the draw loop.
func (r *Renderer) Objects() []Object { return r.faces.Objects() }

// RenderedChunks returns the chunks currently in view, in render order.
func (r *Renderer) RenderedChunks() []*world.Chunk { return r.rendered }

// Options returns the effective streaming options.
func (r *Renderer) Options() Options { return r.opts }

// emitFace appends face f of b unless it already holds a live handle.
func (r *Renderer) emitFace(b *world.Block, f world.Face) {
	if h, ok := b.Faces[f].Get(); ok && r.faces.Valid(h) {
		return
	}
	mesh := r.meshes.Mesh(FaceKey(b.Kind, f))
	if mesh == nil {
		r.log.Debug("no mesh for face", "kind", b.Kind, "face", f)
		b.Faces[f].Clear()
		return
	}
	b.Faces[f].Set(r.faces.Append(newFaceObject(b, f, mesh, r.material)))
}

// UnrenderFace retracts face f of b. Calling it on an unrendered face is a no-op.
func (r *Renderer) UnrenderFace(b *world.Block, f world.Face) {
	if b == nil {
		return
	}
	if h, ok := b.Faces[f].Clear(); ok {
		r.faces.Retract(h)
	}
}

// RenderBlock emits the faces of b that border air or nothing, and retracts
// the faces of opaque neighbours that b now covers.
func (r *Renderer) RenderBlock(b *world.Block) {
	if b == nil || b.Kind == world.KindAir {
		return
	}
	if b.Transparent {
		for f := world.Face(0); f < world.FaceCount; f++ {
			r.emitFace(b, f)
		}
		return
	}
	for f := world.Face(0); f < world.FaceCount; f++ {
		np := b.Pos.Add(f.Dir())
		if np.Negative() {
			r.emitFace(b, f)
			continue
		}
		n := r.world.GetBlock(np)
		switch {
		case n == nil || n.Kind == world.KindAir:
			r.emitFace(b, f)
		case n.Transparent:
		default:
			r.UnrenderFace(n, f.Opposite())
		}
	}
}

// UnrenderBlock retracts the block at p and re-exposes the faces of opaque
// neighbours that sit in rendered chunks.
func (r *Renderer) UnrenderBlock(p world.Pos) {
	b := r.world.GetBlock(p)
	if b == nil || b.Kind == world.KindAir {
		return
	}
	for f := world.Face(0); f < world.FaceCount; f++ {
		r.UnrenderFace(b, f)
	}
	for f := world.Face(0); f < world.FaceCount; f++ {
		np := p.Add(f.Dir())
		if np.Negative() {
			continue
		}
		n := r.world.GetBlock(np)
		if n == nil || n.Kind == world.KindAir || n.Transparent {
			continue
		}
		if chunk := r.world.GetChunk(world.ChunkOf(np)); chunk == nil || !chunk.Rendered() {
			continue
		}
		r.emitFace(n, f.Opposite())
	}
}

// RenderChunk renders every block of chunk c, generating it first if needed.
func (r *Renderer) RenderChunk(c world.ChunkCoord) {
	if c.Negative() {
		return
	}
	chunk := r.world.GetChunk(c)
	if chunk == nil {
		chunk = r.gen.GenerateChunk(c, false)
		if chunk == nil {
			return
		}
	}
	if chunk.Rendered() {
		return
	}
	defer profiling.Track("render.RenderChunk")()

	chunk.Each(func(b *world.Block) {
		if b.Kind != world.KindAir {
			r.RenderBlock(b)
		}
	})
	chunk.SetRendered(true)
	r.rendered = append(r.rendered, chunk)
	r.metrics.ChunkRendered()
}

// unrenderChunk retracts every face of chunk without touching the rendered list.
func (r *Renderer) unrenderChunk(chunk *world.Chunk) bool {
	if chunk == nil || !chunk.Rendered() {
		return false
	}
	chunk.Each(func(b *world.Block) {
		if b.Kind == world.KindAir {
			return
		}
		for f := world.Face(0); f < world.FaceCount; f++ {
			r.UnrenderFace(b, f)
		}
	})
	chunk.SetRendered(false)
	r.metrics.ChunkUnrendered()
	return true
}

// UnrenderChunk retracts every face of chunk and drops it from the rendered
// list. The chunk stays in the world.
func (r *Renderer) UnrenderChunk(chunk *world.Chunk) {
	if !r.unrenderChunk(chunk) {
		return
	}
	for i, c := range r.rendered {
		if c == chunk {
			r.rendered = append(r.rendered[:i], r.rendered[i+1:]...)
			break
		}
	}
	r.publish()
}

// RenderAllChunks rebuilds the render list around playerPos. Unless rerender
// is set, every chunk within the generation radius is generated first; a
// rerender only draws chunks that already exist.
func (r *Renderer) RenderAllChunks(playerPos mgl32.Vec3, rerender bool) {
	defer profiling.Track("render.RenderAllChunks")()

	r.faces.Reset()
	for _, c := range r.rendered {
		c.SetRendered(false)
	}
	r.rendered = r.rendered[:0]

	center := world.ChunkOfVec3(playerPos.X(), playerPos.Y(), playerPos.Z())
	radius := r.opts.GenRadius
	if !rerender {
		eachInSphere(center, radius, func(c world.ChunkCoord) {
			r.gen.GenerateChunk(c, false)
		})
	}
	eachInSphere(center, radius, func(c world.ChunkCoord) {
		if rerender && r.world.GetChunk(c) == nil {
			return
		}
		r.RenderChunk(c)
	})
	r.publish()
}

// UpdateRenderChunks streams chunks in around chunkPos, then enforces the face
// and chunk budgets.
func (r *Renderer) UpdateRenderChunks(chunkPos world.ChunkCoord, playerPos mgl32.Vec3) {
	defer profiling.Track("render.UpdateRenderChunks")()

	eachInSphere(chunkPos, r.opts.RenderRadius, r.RenderChunk)

	if r.faces.Len() > r.opts.MaxFaces {
		slots := r.faces.Len()
		for _, c := range r.rendered {
			r.unrenderChunk(c)
		}
		r.rendered = r.rendered[:0]
		r.RenderAllChunks(playerPos, true)
		r.metrics.Rebuild()
		r.log.Info("render list overflow, rebuilt",
			"slots", slots, "live", r.faces.Live(), "chunks", len(r.rendered))
		return
	}

	if len(r.rendered) > r.opts.MaxChunks {
		before := len(r.rendered)
		kept := r.rendered[:0]
		for _, c := range r.rendered {
			if c.Coord.Chebyshev(chunkPos) > r.opts.RenderRadius {
				r.unrenderChunk(c)
				continue
			}
			kept = append(kept, c)
		}
		clear(r.rendered[len(kept):])
		r.rendered = kept
		r.metrics.Evicted(before - len(kept))
		r.log.Info("evicted far chunks", "before", before, "after", len(kept))
	}
	r.publish()
}

func (r *Renderer) publish() {
	r.metrics.Faces(r.faces.Len(), r.faces.Live(), len(r.rendered))
}

// eachInSphere visits every chunk coordinate within Euclidean distance radius
// of center, x-major.
func eachInSphere(center world.ChunkCoord, radius int, fn func(world.ChunkCoord)) {
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			for z := center.Z - radius; z <= center.Z+radius; z++ {
				c := world.ChunkCoord{X: x, Y: y, Z: z}
				if c.Distance(center) <= float64(radius) {
					fn(c)
				}
			}
		}
	}
}
