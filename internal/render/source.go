package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/world"
)

// DefaultMaterial is the pipeline every block face is drawn with.
const DefaultMaterial = "textured"

// Variant selects which texture of a block kind a face uses.
type Variant int

const (
	VariantSide Variant = iota
	VariantTop
	VariantBottom
)

func (v Variant) String() string {
	switch v {
	case VariantTop:
		return "top"
	case VariantBottom:
		return "bottom"
	}
	return "side"
}

// MeshKey identifies a face mesh.
type MeshKey struct {
	Kind    world.Kind
	Variant Variant
}

// Vertex is one corner of a face quad in model space.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is an uploaded face quad. The renderer only ever holds pointers to meshes
// owned by a MeshSource.
type Mesh struct {
	Name     string
	Texture  string
	Vertices []Vertex
}

// Material names a pipeline/layout pair owned by the GPU layer.
type Material struct {
	Name string
}

// MeshSource resolves meshes and materials. Lookups must not allocate new
// resources; a nil result means "not registered".
type MeshSource interface {
	Mesh(key MeshKey) *Mesh
	Material(name string) *Material
}

// FaceKey returns the mesh used for face f of a block of kind k.
func FaceKey(k world.Kind, f world.Face) MeshKey {
	switch k {
	case world.KindGrass:
		switch f {
		case world.FaceUp:
			return MeshKey{Kind: world.KindGrass, Variant: VariantTop}
		case world.FaceDown:
			return MeshKey{Kind: world.KindDirt, Variant: VariantSide}
		}
	case world.KindTNT:
		switch f {
		case world.FaceUp:
			return MeshKey{Kind: world.KindTNT, Variant: VariantTop}
		case world.FaceDown:
			return MeshKey{Kind: world.KindTNT, Variant: VariantBottom}
		}
	}
	return MeshKey{Kind: k, Variant: VariantSide}
}
