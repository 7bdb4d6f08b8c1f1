package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/render"
	"voxelsand/internal/world"
)

// AtlasSize is the side length, in tiles, of the square texture atlas.
const AtlasSize = 16

// Tile is a row-major index into the texture atlas.
type Tile int

// Cell returns the tile's column and row.
func (t Tile) Cell() (u, v int) {
	return int(t) % AtlasSize, int(t) / AtlasSize
}

// Atlas tiles referenced by the built-in blocks.
const (
	TileClay Tile = iota
	TileStone
	TileDirt
	TileGrassSide
	TileOakSlab
	TileDoubleStoneSlab
	_
	TileBrick
	TileTNTSide
	TileTNTTop
	TileTNTBottom
	TileSpiderWeb
	TileRose
	TileYellowFlower
	TileWater
	TileOakSapling
	TileCobblestone
	TileBedrock
)

const (
	TileGoldOre Tile = 2*AtlasSize + iota
	TileIronOre
	TileCoalOre
	TileBookShelf
	TileMossStone
	TileObsidian
	TileGrassTransparent
	TileGrassEntity
	TileGrassTop
)

// BlockDefinition binds a kind to its atlas tiles.
type BlockDefinition struct {
	Kind   world.Kind
	Name   string
	Top    Tile
	Side   Tile
	Bottom Tile
}

func (d *BlockDefinition) tile(v render.Variant) Tile {
	switch v {
	case render.VariantTop:
		return d.Top
	case render.VariantBottom:
		return d.Bottom
	}
	return d.Side
}

// Catalog owns every face mesh and material. It is populated once and then
// only read; lookups never allocate.
type Catalog struct {
	mu        sync.RWMutex
	blocks    map[world.Kind]*BlockDefinition
	names     map[string]world.Kind
	tiles     map[Tile]*render.Mesh
	meshes    map[render.MeshKey]*render.Mesh
	materials map[string]*render.Material
}

var _ render.MeshSource = (*Catalog)(nil)

// NewCatalog returns a catalog holding the built-in blocks and the default
// material.
func NewCatalog() *Catalog {
	c := &Catalog{
		blocks:    make(map[world.Kind]*BlockDefinition),
		names:     make(map[string]world.Kind),
		tiles:     make(map[Tile]*render.Mesh),
		meshes:    make(map[render.MeshKey]*render.Mesh),
		materials: make(map[string]*render.Material),
	}
	c.RegisterMaterial(render.DefaultMaterial)
	for _, def := range builtinBlocks() {
		if err := c.RegisterBlock(def); err != nil {
			panic(err)
		}
	}
	return c
}

func uniform(k world.Kind, t Tile) *BlockDefinition {
	return &BlockDefinition{Kind: k, Name: k.String(), Top: t, Side: t, Bottom: t}
}

func builtinBlocks() []*BlockDefinition {
	return []*BlockDefinition{
		uniform(world.KindClay, TileClay),
		uniform(world.KindStone, TileStone),
		uniform(world.KindDirt, TileDirt),
		{Kind: world.KindGrass, Name: world.KindGrass.String(), Top: TileGrassTop, Side: TileGrassSide, Bottom: TileDirt},
		uniform(world.KindOakSlab, TileOakSlab),
		uniform(world.KindDoubleStoneSlab, TileDoubleStoneSlab),
		uniform(world.KindBrick, TileBrick),
		{Kind: world.KindTNT, Name: world.KindTNT.String(), Top: TileTNTTop, Side: TileTNTSide, Bottom: TileTNTBottom},
		uniform(world.KindSpiderWeb, TileSpiderWeb),
		uniform(world.KindRose, TileRose),
		uniform(world.KindYellowFlower, TileYellowFlower),
		uniform(world.KindWater, TileWater),
		uniform(world.KindOakSapling, TileOakSapling),
		uniform(world.KindCobblestone, TileCobblestone),
		uniform(world.KindBedrock, TileBedrock),
		uniform(world.KindGoldOre, TileGoldOre),
		uniform(world.KindIronOre, TileIronOre),
		uniform(world.KindCoalOre, TileCoalOre),
		uniform(world.KindBookShelf, TileBookShelf),
		uniform(world.KindMossStone, TileMossStone),
		uniform(world.KindObsidian, TileObsidian),
		uniform(world.KindGrassTransparent, TileGrassTransparent),
		uniform(world.KindGrassEntity, TileGrassEntity),
	}
}

// RegisterBlock adds def and creates the meshes for all three variants.
// Faces sharing a tile share a mesh.
func (c *Catalog) RegisterBlock(def *BlockDefinition) error {
	if !def.Kind.Valid() || def.Kind == world.KindAir {
		return fmt.Errorf("registry: kind %v cannot be drawn", def.Kind)
	}
	for _, t := range []Tile{def.Top, def.Side, def.Bottom} {
		if t < 0 || int(t) >= AtlasSize*AtlasSize {
			return fmt.Errorf("registry: %s tile %d outside the atlas", def.Name, t)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.blocks[def.Kind]; exists {
		return fmt.Errorf("registry: %s registered twice", def.Name)
	}
	c.blocks[def.Kind] = def
	c.names[def.Name] = def.Kind
	for _, v := range []render.Variant{render.VariantSide, render.VariantTop, render.VariantBottom} {
		t := def.tile(v)
		mesh, ok := c.tiles[t]
		if !ok {
			mesh = tileMesh(t)
			c.tiles[t] = mesh
		}
		c.meshes[render.MeshKey{Kind: def.Kind, Variant: v}] = mesh
	}
	return nil
}

// RegisterMaterial makes name resolvable. Registering twice is a no-op.
func (c *Catalog) RegisterMaterial(name string) *render.Material {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.materials[name]; ok {
		return m
	}
	m := &render.Material{Name: name}
	c.materials[name] = m
	return m
}

func (c *Catalog) Mesh(key render.MeshKey) *render.Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meshes[key]
}

func (c *Catalog) Material(name string) *render.Material {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.materials[name]
}

// Block returns the definition for k, or nil.
func (c *Catalog) Block(k world.Kind) *BlockDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[k]
}

// Lookup resolves a block by name.
func (c *Catalog) Lookup(name string) (world.Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.names[name]
	return k, ok
}

// Kinds lists the registered kinds in ascending order.
func (c *Catalog) Kinds() []world.Kind {
	c.mu.RLock()
	out := make([]world.Kind, 0, len(c.blocks))
	for k := range c.blocks {
		out = append(out, k)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MeshCount reports the number of distinct meshes, one per used tile.
func (c *Catalog) MeshCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tiles)
}

// quadCorners is a unit quad in the XY plane as two triangles.
var quadCorners = [6]mgl32.Vec2{{0, 1}, {0, 0}, {1, 1}, {1, 1}, {0, 0}, {1, 0}}

// tileMesh builds the face quad textured with atlas tile t. Both texture
// axes run opposite to the quad's.
func tileMesh(t Tile) *render.Mesh {
	u, v := t.Cell()
	d := float32(1) / AtlasSize
	m := &render.Mesh{
		Name:     fmt.Sprintf("tile_%d", t),
		Texture:  fmt.Sprintf("atlas[%d,%d]", u, v),
		Vertices: make([]render.Vertex, len(quadCorners)),
	}
	for i, p := range quadCorners {
		m.Vertices[i] = render.Vertex{
			Position: mgl32.Vec3{p.X(), p.Y(), 0},
			Normal:   mgl32.Vec3{0, 0, 1},
			UV:       mgl32.Vec2{(1 - p.X() + float32(u)) * d, (1 - p.Y() + float32(v)) * d},
		}
	}
	return m
}
