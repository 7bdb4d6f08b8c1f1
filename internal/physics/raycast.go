package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/profiling"
	"voxelsand/internal/world"
)

// DefaultReach is how many blocks ahead the player can touch.
const DefaultReach = 5

// Solids answers whether a block position is air. Unknown positions must
// report false.
type Solids interface {
	IsAirBlock(x, y, z int) bool
}

// RaycastResult stores the outcome of a block walk.
type RaycastResult struct {
	Hit      world.Pos
	Adjacent world.Pos // last air step before Hit
	Steps    int       // 1-based step at which Hit was found
	Found    bool
}

// HasAdjacent reports whether at least one air step preceded the hit.
func (r RaycastResult) HasAdjacent() bool {
	return r.Found && r.Steps > 1
}

// Raycast walks up to reach whole steps of dir, starting one step past
// origin, and stops at the first non-air block. The walk ends without a
// hit as soon as a position has a negative coordinate.
func Raycast(w Solids, origin, dir mgl32.Vec3, reach int) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	var prev world.Pos
	at := origin
	for i := 1; i <= reach; i++ {
		at = at.Add(dir)
		p := world.PosFromVec3(at)
		if p.Negative() {
			return RaycastResult{}
		}
		if !w.IsAirBlock(p.X, p.Y, p.Z) {
			return RaycastResult{Hit: p, Adjacent: prev, Steps: i, Found: true}
		}
		prev = p
	}
	return RaycastResult{}
}

// Pick returns the block a player at origin looking along dir would break,
// or with place set, the air position a new block would go into. Placement
// fails when the very first step is already solid.
func Pick(w Solids, origin, dir mgl32.Vec3, reach int, place bool) (world.Pos, bool) {
	r := Raycast(w, origin, dir, reach)
	switch {
	case !r.Found:
		return world.Pos{}, false
	case !place:
		return r.Hit, true
	case !r.HasAdjacent():
		return world.Pos{}, false
	}
	return r.Adjacent, true
}
