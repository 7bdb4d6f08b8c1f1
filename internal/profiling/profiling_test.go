package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	p := New()
	for i := 0; i < 3; i++ {
		stop := p.Track("terrain.GenerateChunk")
		time.Sleep(time.Millisecond)
		stop()
	}
	p.Track("render.RenderChunk")()

	s := p.Snapshot()["terrain.GenerateChunk"]
	if s.Calls != 3 {
		t.Errorf("Calls = %d, want 3", s.Calls)
	}
	if s.Total < 3*time.Millisecond {
		t.Errorf("Total = %v, want >= 3ms", s.Total)
	}

	top := p.Top(1)
	if len(top) != 1 || top[0].Name != "terrain.GenerateChunk" {
		t.Errorf("Top(1) = %+v", top)
	}
	if out := p.TopN(5); !strings.Contains(out, "terrain.GenerateChunk:") || !strings.Contains(out, "(3)") {
		t.Errorf("TopN = %q", out)
	}

	p.Reset()
	if len(p.Snapshot()) != 0 {
		t.Errorf("Reset left samples behind")
	}
}

func TestDefaultProfiler(t *testing.T) {
	ResetFrame()
	Track("game.Tick")()
	if _, ok := Snapshot()["game.Tick"]; !ok {
		t.Errorf("expected game.Tick sample")
	}
	if TopN(0) != "" {
		t.Errorf("TopN(0) should be empty")
	}
	ResetFrame()
}
