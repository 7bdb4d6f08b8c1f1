package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/profiling"
)

// Path yields the player position for tick i.
type Path func(i int) mgl32.Vec3

// Line walks from start along step, one step per tick.
func Line(start, step mgl32.Vec3) Path {
	return func(i int) mgl32.Vec3 {
		return start.Add(step.Mul(float32(i)))
	}
}

// App drives a session headlessly along a path.
type App struct {
	session *Session
	limiter *TickLimiter
	log     *slog.Logger

	// ReportEvery logs a progress line every n ticks. Zero disables it.
	ReportEvery int
}

// NewApp wraps s with a limiter of tps ticks per second.
func NewApp(s *Session, tps int, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{session: s, limiter: NewTickLimiter(tps), log: log}
}

// Run ticks the session steps times along path. It returns early with the
// context error when ctx is cancelled.
func (a *App) Run(ctx context.Context, steps int, path Path) (Stats, error) {
	start := time.Now()
	a.session.Start(path(0))
	crossings := 0
	for i := 1; i <= steps; i++ {
		if err := a.limiter.Wait(ctx); err != nil {
			a.log.Info("walk interrupted", "tick", i, "err", err)
			return a.session.Stats(), err
		}
		if a.session.Tick(path(i)) {
			crossings++
		}
		if a.ReportEvery > 0 && i%a.ReportEvery == 0 {
			st := a.session.Stats()
			a.log.Info("walk progress",
				"tick", i, "chunk", a.session.Chunk(), "chunks", st.Chunks,
				"rendered", st.RenderedChunks, "faces", st.LiveFaces, "slots", st.FaceSlots)
		}
	}
	a.log.Info("walk finished",
		"steps", steps, "crossings", crossings, "took", time.Since(start),
		"top", profiling.TopN(5))
	return a.session.Stats(), nil
}
