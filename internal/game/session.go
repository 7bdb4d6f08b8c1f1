package game

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxelsand/internal/config"
	"voxelsand/internal/metrics"
	"voxelsand/internal/physics"
	"voxelsand/internal/profiling"
	"voxelsand/internal/registry"
	"voxelsand/internal/render"
	"voxelsand/internal/terrain"
	"voxelsand/internal/world"
)

// DefaultSlowTick is the tick duration above which a warning is logged.
const DefaultSlowTick = 50 * time.Millisecond

// Session is one running sandbox: a world, the generator feeding it and the
// renderer tracking what the player can see. It is driven from a single
// goroutine.
type Session struct {
	ID        uuid.UUID
	Config    *config.Config
	World     *world.World
	Generator *terrain.Generator
	Renderer  *render.Renderer
	Catalog   *registry.Catalog

	SlowTick time.Duration

	log *slog.Logger

	chunk   world.ChunkCoord
	started bool
	ticks   int
}

// Stats is a snapshot of the session's counters.
type Stats struct {
	Ticks          int
	Chunks         int
	RenderedChunks int
	FaceSlots      int
	LiveFaces      int
}

// NewSession builds a session from cfg. A nil logger uses slog.Default and
// a nil m records no metrics. When buildings are enabled but the model
// cannot be loaded, the session starts without them.
func NewSession(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	id := uuid.New()
	log = log.With("session", id.String())

	w := world.New(worldExtents(cfg.World))
	gen := terrain.NewGenerator(w, terrain.NewField(cfg.Gen.Seed), generatorOptions(cfg.Gen, log, m))
	if cfg.Gen.Buildings {
		model, err := loadModel(cfg.Structure, cfg.Gen.Seed)
		if err != nil {
			log.Warn("towns disabled", "err", err)
		} else {
			gen.SetModel(model)
		}
	}
	catalog := registry.NewCatalog()
	renderer := render.NewRenderer(w, gen, catalog, renderOptions(cfg.Render, log, m))
	gen.SetObserver(renderer)

	return &Session{
		ID:        id,
		Config:    cfg,
		World:     w,
		Generator: gen,
		Renderer:  renderer,
		Catalog:   catalog,
		SlowTick:  DefaultSlowTick,
		log:       log,
	}
}

// Spawn returns a standing position above the surface of column (x,z).
func (s *Session) Spawn(x, z int) mgl32.Vec3 {
	h := s.Generator.SurfaceHeight(x, z)
	return mgl32.Vec3{float32(x) + 0.5, float32(h) + 2, float32(z) + 0.5}
}

// Start generates and renders everything around spawn.
func (s *Session) Start(spawn mgl32.Vec3) {
	defer profiling.Track("game.Start")()
	start := time.Now()
	s.Renderer.RenderAllChunks(spawn, false)
	s.chunk = world.ChunkOfVec3(spawn.X(), spawn.Y(), spawn.Z())
	s.started = true

	st := s.Stats()
	s.log.Info("session started",
		"spawn", spawn, "chunks", st.Chunks, "rendered", st.RenderedChunks,
		"faces", st.LiveFaces, "took", time.Since(start))
}

// Tick advances the session with the player at playerPos. It reports whether
// the player entered a new chunk, which triggers streaming.
func (s *Session) Tick(playerPos mgl32.Vec3) bool {
	if !s.started {
		s.Start(playerPos)
		return true
	}
	profiling.ResetFrame()
	start := time.Now()
	s.ticks++

	c := world.ChunkOfVec3(playerPos.X(), playerPos.Y(), playerPos.Z())
	crossed := c != s.chunk
	if crossed {
		func() {
			defer profiling.Track("game.Stream")()
			s.Renderer.UpdateRenderChunks(c, playerPos)
		}()
		s.chunk = c
	}

	if d := time.Since(start); s.SlowTick > 0 && d > s.SlowTick {
		s.log.Warn("slow tick", "tick", s.ticks, "chunk", c, "took", d, "top", profiling.TopN(3))
	}
	return crossed
}

// Break removes the block at p. It reports false when there is nothing
// to break.
func (s *Session) Break(p world.Pos) bool {
	b := s.World.GetBlock(p)
	if b == nil || b.Kind == world.KindAir {
		return false
	}
	s.Renderer.UnrenderBlock(p)
	s.World.CreateBlock(p, world.KindAir, true, nil)
	s.log.Debug("block broken", "pos", p, "kind", b.Kind)
	return true
}

// Place puts kind at p unless a solid block is already there. The chunk
// holding p is generated first, so placing never leaves a half-filled chunk.
func (s *Session) Place(p world.Pos, kind world.Kind) bool {
	if kind == world.KindAir || !kind.Valid() || p.Negative() {
		return false
	}
	if s.Generator.GenerateChunk(world.ChunkOf(p), false) == nil {
		return false
	}
	if existing := s.World.GetBlock(p); existing != nil && existing.Kind != world.KindAir {
		return false
	}
	b := s.World.CreateBlock(p, kind, false, nil)
	if b == nil {
		return false
	}
	s.Renderer.RenderBlock(b)
	s.log.Debug("block placed", "pos", p, "kind", kind)
	return true
}

// BreakAt breaks the block the player at origin looks at along dir.
func (s *Session) BreakAt(origin, dir mgl32.Vec3) (world.Pos, bool) {
	p, ok := physics.Pick(s.World, origin, dir, physics.DefaultReach, false)
	if !ok {
		return world.Pos{}, false
	}
	return p, s.Break(p)
}

// PlaceAt places kind in front of the block the player looks at.
func (s *Session) PlaceAt(origin, dir mgl32.Vec3, kind world.Kind) (world.Pos, bool) {
	p, ok := physics.Pick(s.World, origin, dir, physics.DefaultReach, true)
	if !ok {
		return world.Pos{}, false
	}
	return p, s.Place(p, kind)
}

// Stats returns the current counters.
func (s *Session) Stats() Stats {
	faces := s.Renderer.FaceList()
	return Stats{
		Ticks:          s.ticks,
		Chunks:         s.World.Len(),
		RenderedChunks: len(s.Renderer.RenderedChunks()),
		FaceSlots:      faces.Len(),
		LiveFaces:      faces.Live(),
	}
}

// Chunk returns the chunk the player was last seen in.
func (s *Session) Chunk() world.ChunkCoord {
	return s.chunk
}
