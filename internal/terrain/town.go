package terrain

import (
	"errors"
	"fmt"
	"math"

	"voxelsand/internal/world"
)

// ErrDiagonalRoad is returned for road requests not parallel to X or Z.
var ErrDiagonalRoad = errors.New("terrain: road must be parallel to the x or z axis")

// Column is a horizontal block position.
type Column struct {
	X, Z int
}

// GenerateStraightRoad lays cobblestone from start to end, inclusive, with
// 2*halfWidth+1 blocks across. The whole cross-section takes the surface
// height of the centre line. Equal endpoints are treated as a Z road.
func (g *Generator) GenerateStraightRoad(start, end Column, halfWidth int) error {
	switch {
	case start.X == end.X:
		z0, z1 := min(start.Z, end.Z), max(start.Z, end.Z)
		for x := start.X - halfWidth; x <= start.X+halfWidth; x++ {
			for z := z0; z <= z1; z++ {
				g.placeRoad(world.Pos{X: x, Y: g.SurfaceHeight(start.X, z), Z: z})
			}
		}
	case start.Z == end.Z:
		x0, x1 := min(start.X, end.X), max(start.X, end.X)
		for z := start.Z - halfWidth; z <= start.Z+halfWidth; z++ {
			for x := x0; x <= x1; x++ {
				g.placeRoad(world.Pos{X: x, Y: g.SurfaceHeight(x, start.Z), Z: z})
			}
		}
	default:
		g.log.Warn("diagonal road requested", "start", start, "end", end)
		return fmt.Errorf("%w: %v -> %v", ErrDiagonalRoad, start, end)
	}
	return nil
}

func (g *Generator) placeRoad(p world.Pos) {
	chunk := g.GenerateChunk(world.ChunkOf(p), true)
	if chunk == nil {
		g.log.Debug("road block out of border", "pos", p)
		return
	}
	g.write(chunk, p, world.KindCobblestone, true)
}

// write stores a structure block, routing it through the observer when the
// chunk is already rendered.
func (g *Generator) write(chunk *world.Chunk, p world.Pos, k world.Kind, replace bool) *world.Block {
	if g.watch == nil {
		return g.world.CreateBlock(p, k, replace, chunk)
	}
	if !chunk.Rendered() {
		b := g.world.CreateBlock(p, k, replace, chunk)
		g.cover(b)
		return b
	}
	i, j, l := world.Local(p)
	if old := chunk.Block(i, j, l); old != nil && old.Kind != world.KindAir {
		if !replace {
			return old
		}
		g.watch.UnrenderBlock(p)
	}
	b := g.world.CreateBlock(p, k, replace, chunk)
	g.watch.RenderBlock(b)
	return b
}

// GenerateTown scatters buildings on a gap-spaced grid within maxR of (x,z),
// denser towards the centre, and links the rows with roads. Nothing happens
// where the town density noise is below the threshold.
func (g *Generator) GenerateTown(x, z, maxR, gap int) {
	if gap <= 0 || maxR <= 0 {
		return
	}
	if g.field.TownDensity(x, z) < townMinimum {
		return
	}
	maxD := float64(2 * maxR)
	if g.model != nil {
		for i := -maxR; i <= maxR; i += gap {
			for j := -maxR; j <= maxR; j += gap {
				bx, bz := x+i, z+j
				if bx < 0 || bz < 0 {
					continue
				}
				chance := math.Cos(math.Pi * float64(abs(i)+abs(j)) / maxD)
				g.placeBuilding(world.Pos{X: bx, Y: g.SurfaceHeight(bx, bz), Z: bz}, chance)
			}
		}
	}
	for i := -maxR; i < maxR; i += gap {
		roadX := x + i + gap/2
		if err := g.GenerateStraightRoad(Column{roadX, z - maxR}, Column{roadX, z + maxR}, 1); err != nil {
			g.log.Error("town road", "err", err)
		}
	}
	for i := -maxR; i < maxR; i += gap {
		roadZ := z + i + gap/2
		if err := g.GenerateStraightRoad(Column{x - maxR, roadZ}, Column{x + maxR, roadZ}, 1); err != nil {
			g.log.Error("town road", "err", err)
		}
	}
}

// placeBuilding voxelises the model at base with the given probability.
// Structure blocks never replace existing ones.
func (g *Generator) placeBuilding(base world.Pos, chance float64) {
	if g.model == nil || g.rng.Float64() >= chance {
		return
	}
	outside := 0
	g.model.Rasterize(base.Vec3(), func(p world.Pos, k world.Kind) {
		chunk := g.GenerateChunk(world.ChunkOf(p), true)
		if chunk == nil {
			outside++
			g.metrics.StructureVoxel("out_of_border")
			return
		}
		g.write(chunk, p, k, false)
		g.metrics.StructureVoxel("placed")
	})
	if outside > 0 {
		g.log.Debug("structure voxels out of border", "model", g.model.Name, "base", base, "count", outside)
	}
}

// cover retracts faces of opaque neighbours in other chunks that b now hides.
func (g *Generator) cover(b *world.Block) {
	if b == nil || b.Kind == world.KindAir || b.Transparent {
		return
	}
	home := world.ChunkOf(b.Pos)
	for f := world.Face(0); f < world.FaceCount; f++ {
		np := b.Pos.Add(f.Dir())
		if np.Negative() || world.ChunkOf(np) == home {
			continue
		}
		if n := g.world.GetBlock(np); n != nil && n.Kind != world.KindAir && !n.Transparent {
			g.watch.UnrenderFace(n, f.Opposite())
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
