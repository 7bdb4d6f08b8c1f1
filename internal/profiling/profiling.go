package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Per-tick CPU timings for the streaming loop.

// Sample is the accumulated time and call count of one tracked operation.
type Sample struct {
	Name  string
	Total time.Duration
	Calls int
}

// Profiler accumulates samples for the current tick.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]Sample
}

// New returns an empty profiler.
func New() *Profiler {
	return &Profiler{totals: make(map[string]Sample)}
}

var std = New()

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("render.RenderChunk")()
func Track(name string) func() { return std.Track(name) }

// ResetFrame clears the default profiler. Call at the start of each tick.
func ResetFrame() { std.Reset() }

// Snapshot returns a copy of the default profiler's samples.
func Snapshot() map[string]Sample { return std.Snapshot() }

// TopN formats the n most expensive operations of the default profiler.
func TopN(n int) string { return std.TopN(n) }

func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		p.mu.Lock()
		s := p.totals[name]
		s.Name = name
		s.Total += d
		s.Calls++
		p.totals[name] = s
		p.mu.Unlock()
	}
}

func (p *Profiler) Reset() {
	p.mu.Lock()
	clear(p.totals)
	p.mu.Unlock()
}

func (p *Profiler) Snapshot() map[string]Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]Sample, len(p.totals))
	for k, v := range p.totals {
		out[k] = v
	}
	return out
}

// Top returns up to n samples ordered by descending total time.
func (p *Profiler) Top(n int) []Sample {
	ss := p.Snapshot()
	list := make([]Sample, 0, len(ss))
	for _, s := range ss {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Total == list[j].Total {
			return list[i].Name < list[j].Name
		}
		return list[i].Total > list[j].Total
	})
	if n < len(list) {
		list = list[:n]
	}
	return list
}

// TopN formats the n most expensive operations.
// Example: "render.RenderChunk:4.2ms(12), terrain.GenerateChunk:2.1ms(3)"
func (p *Profiler) TopN(n int) string {
	top := p.Top(n)
	parts := make([]string, 0, len(top))
	for _, s := range top {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", s.Name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
