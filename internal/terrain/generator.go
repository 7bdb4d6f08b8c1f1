package terrain

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"voxelsand/internal/metrics"
	"voxelsand/internal/profiling"
	"voxelsand/internal/structure"
	"voxelsand/internal/world"
)

// Vertical bands of the optional passes, as [min, max).
const (
	veinTop     = 20
	caveTop     = 50
	skyBottom   = 80
	skyTop      = 128
	passBottom  = 1 // y=0 is reserved for bedrock
	townMinimum = 0.25

	DefaultTownRadius = 50
	DefaultTownGap    = 30
)

// Options toggles the optional generation passes.
type Options struct {
	Seed       int64
	Caves      bool
	Veins      bool
	SkyIslands bool
	Buildings  bool
	TownRadius int
	TownGap    int

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// DefaultOptions enables caves only.
func DefaultOptions() Options {
	return Options{
		Caves:      true,
		TownRadius: DefaultTownRadius,
		TownGap:    DefaultTownGap,
	}
}

// BlockObserver is told about structure writes that land in chunks already
// on screen. *render.Renderer satisfies it.
type BlockObserver interface {
	UnrenderBlock(p world.Pos)
	RenderBlock(b *world.Block)
	UnrenderFace(b *world.Block, f world.Face)
}

// Generator populates chunks of a World on demand. It is not safe for
// concurrent use.
type Generator struct {
	world   *world.World
	field   NoiseField
	opts    Options
	heights *heightCache
	model   *structure.Model
	watch   BlockObserver
	rng     *rand.Rand
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewGenerator creates a generator writing into w.
func NewGenerator(w *world.World, field NoiseField, opts Options) *Generator {
	if opts.TownRadius <= 0 {
		opts.TownRadius = DefaultTownRadius
	}
	if opts.TownGap <= 0 {
		opts.TownGap = DefaultTownGap
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Generator{
		world:   w,
		field:   field,
		opts:    opts,
		heights: newHeightCache(w.Extents().ChunksXZ * world.ChunkSize),
		rng:     rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0xDA3E39CB94B95BDB)),
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
}

// SetModel installs the structure used for town buildings. nil disables them.
func (g *Generator) SetModel(m *structure.Model) {
	g.model = m
}

// SetObserver installs o to keep rendered chunks in sync with roads and
// buildings written after they were drawn. nil turns it off.
func (g *Generator) SetObserver(o BlockObserver) {
	g.watch = o
}

// Model returns the installed structure model.
func (g *Generator) Model() *structure.Model {
	return g.model
}

// Field returns the noise source.
func (g *Generator) Field() NoiseField {
	return g.field
}

// SurfaceHeight returns the memoised soil height of column (x,z).
func (g *Generator) SurfaceHeight(x, z int) int {
	return g.heights.get(x, z, g.field.SurfaceHeight)
}

// GenerateChunk returns the chunk at c, populating it first if it does not
// exist yet. constructing marks the chunk as claimed by a structure, which
// keeps it from spawning a town of its own. Coordinates outside the world
// yield nil.
func (g *Generator) GenerateChunk(c world.ChunkCoord, constructing bool) *world.Chunk {
	if !g.world.Extents().Contains(c) {
		return nil
	}
	if chunk := g.world.GetChunk(c); chunk != nil {
		if constructing {
			chunk.MarkBuilt()
		}
		return chunk
	}
	defer profiling.Track("terrain.GenerateChunk")()
	start := time.Now()

	// Registered before population so structures spilling back into this
	// chunk find it instead of recursing.
	chunk := g.world.SetChunk(c, world.NewChunk(c, constructing))
	lo := c.Origin()
	hi := lo.Add(world.Pos{X: world.ChunkSize, Y: world.ChunkSize, Z: world.ChunkSize})

	g.columns(lo, hi, func(x, z int) {
		top := min(hi.Y, g.field.BaseRockHeight(x, z))
		for y := lo.Y; y < top; y++ {
			g.world.CreateBlock(world.Pos{X: x, Y: y, Z: z}, world.KindStone, false, chunk)
		}
	})

	g.columns(lo, hi, func(x, z int) {
		h := g.SurfaceHeight(x, z)
		top := min(hi.Y, h)
		for y := lo.Y; y < top; y++ {
			p := world.Pos{X: x, Y: y, Z: z}
			if y >= h-1 {
				g.world.CreateBlock(p, world.KindGrass, true, chunk)
				break
			}
			g.world.CreateBlock(p, world.KindDirt, false, chunk)
		}
	})

	g.columns(lo, hi, func(x, z int) {
		if g.opts.Veins {
			g.pass(chunk, x, z, max(lo.Y, passBottom), min(hi.Y, veinTop), g.veinBlock)
		}
		if g.opts.Caves {
			g.pass(chunk, x, z, max(lo.Y, passBottom), min(hi.Y, caveTop), g.caveBlock)
		}
		if g.opts.SkyIslands {
			g.pass(chunk, x, z, max(lo.Y, skyBottom), min(hi.Y, skyTop), g.skyBlock)
		}
	})

	if g.opts.Buildings && !chunk.Built() && g.model != nil {
		g.GenerateTown(lo.X, lo.Z, g.opts.TownRadius, g.opts.TownGap)
	}

	if c.Y == 0 {
		g.columns(lo, hi, func(x, z int) {
			g.world.CreateBlock(world.Pos{X: x, Y: 0, Z: z}, world.KindBedrock, true, chunk)
		})
	}

	chunk.FillAir()
	g.metrics.ChunkGenerated(time.Since(start))
	return chunk
}

func (g *Generator) columns(lo, hi world.Pos, fn func(x, z int)) {
	for x := lo.X; x < hi.X; x++ {
		for z := lo.Z; z < hi.Z; z++ {
			fn(x, z)
		}
	}
}

// pass overwrites y in [from,to) wherever pick returns a kind. KindNone
// leaves the block alone.
func (g *Generator) pass(chunk *world.Chunk, x, z, from, to int, pick func(x, y, z int) world.Kind) {
	for y := from; y < to; y++ {
		if k := pick(x, y, z); k != world.KindNone {
			g.world.CreateBlock(world.Pos{X: x, Y: y, Z: z}, k, true, chunk)
		}
	}
}

func (g *Generator) veinBlock(x, y, z int) world.Kind {
	if g.field.Ore(x, y, z) {
		return world.KindIronOre
	}
	return world.KindNone
}

func (g *Generator) caveBlock(x, y, z int) world.Kind {
	if g.field.Cave(x, y, z) {
		return world.KindAir
	}
	return world.KindNone
}

func (g *Generator) skyBlock(x, y, z int) world.Kind {
	if g.field.SkyIsland(x, y, z) {
		return world.KindDirt
	}
	return world.KindNone
}
