package physics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/physics"
	"voxelsand/internal/world"
)

// airWorld returns a world whose chunk (0,0,0) is all air with stone at the
// given positions.
func airWorld(stone ...world.Pos) *world.World {
	w := world.New(world.DefaultExtents())
	for _, p := range stone {
		w.CreateBlock(p, world.KindStone, true, nil)
	}
	w.GetOrCreateChunk(world.ChunkCoord{}).FillAir()
	return w
}

func TestPickBreakAndPlace(t *testing.T) {
	w := airWorld(world.Pos{X: 5, Y: 1, Z: 1})
	origin := mgl32.Vec3{0.5, 1.5, 1.5}
	dir := mgl32.Vec3{1, 0, 0}

	p, ok := physics.Pick(w, origin, dir, physics.DefaultReach, false)
	if !ok || p != (world.Pos{X: 5, Y: 1, Z: 1}) {
		t.Fatalf("break pick = %v, %v", p, ok)
	}
	p, ok = physics.Pick(w, origin, dir, physics.DefaultReach, true)
	if !ok || p != (world.Pos{X: 4, Y: 1, Z: 1}) {
		t.Fatalf("place pick = %v, %v", p, ok)
	}

	if _, ok := physics.Pick(w, origin, dir, 4, false); ok {
		t.Error("block beyond reach was picked")
	}
}

func TestPickEnclosed(t *testing.T) {
	w := airWorld(world.Pos{X: 1, Y: 1, Z: 1})
	origin := mgl32.Vec3{0.5, 1.5, 1.5}
	dir := mgl32.Vec3{1, 0, 0}

	if _, ok := physics.Pick(w, origin, dir, physics.DefaultReach, true); ok {
		t.Error("placed into a solid first step")
	}
	r := physics.Raycast(w, origin, dir, physics.DefaultReach)
	if !r.Found || r.Steps != 1 || r.HasAdjacent() {
		t.Errorf("raycast = %+v", r)
	}
}

func TestPickNegativeStops(t *testing.T) {
	w := airWorld()
	if _, ok := physics.Pick(w, mgl32.Vec3{0.5, 1.5, 1.5}, mgl32.Vec3{-1, 0, 0}, physics.DefaultReach, false); ok {
		t.Error("picked a negative position")
	}
}

func TestPickUngeneratedIsSolid(t *testing.T) {
	w := airWorld()
	p, ok := physics.Pick(w, mgl32.Vec3{6.5, 1.5, 1.5}, mgl32.Vec3{1, 0, 0}, physics.DefaultReach, false)
	if !ok || p != (world.Pos{X: 8, Y: 1, Z: 1}) {
		t.Errorf("pick into missing chunk = %v, %v", p, ok)
	}
}

func TestPickDiagonal(t *testing.T) {
	w := airWorld(world.Pos{X: 3, Y: 3, Z: 3})
	dir := mgl32.Vec3{1, 1, 1}
	p, ok := physics.Pick(w, mgl32.Vec3{0.5, 0.5, 0.5}, dir, physics.DefaultReach, true)
	if !ok || p != (world.Pos{X: 2, Y: 2, Z: 2}) {
		t.Errorf("diagonal place = %v, %v", p, ok)
	}
}

func BenchmarkRaycast(b *testing.B) {
	w := airWorld(world.Pos{X: 7, Y: 4, Z: 4})
	origin := mgl32.Vec3{1.5, 4.5, 4.5}
	dir := mgl32.Vec3{1, 0, 0}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = physics.Raycast(w, origin, dir, 8)
	}
}
