package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/world"
)

// Object is one entry of the render list: a single block face.
type Object struct {
	Mesh      *Mesh
	Material  *Material
	Transform mgl32.Mat4
	Light     mgl32.Vec4
	Normal    mgl32.Vec3
}

// Live reports whether the slot still draws something.
func (o *Object) Live() bool {
	return o != nil && o.Mesh != nil
}

var faceOffsets = [world.FaceCount]mgl32.Vec3{
	{0, 0, 0},
	{0, 0, 1},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 0},
	{1, 0, 1},
}

var faceRotations = [world.FaceCount]mgl32.Mat4{
	mgl32.HomogRotate3DX(0),
	mgl32.HomogRotate3DY(mgl32.DegToRad(90)),
	mgl32.HomogRotate3DX(mgl32.DegToRad(90)),
	mgl32.HomogRotate3DX(mgl32.DegToRad(-90)),
	mgl32.HomogRotate3DY(mgl32.DegToRad(-90)),
	mgl32.HomogRotate3DY(mgl32.DegToRad(180)),
}

// FaceTransform places the unit quad of face f at block position p.
func FaceTransform(p world.Pos, f world.Face) mgl32.Mat4 {
	t := p.Vec3().Add(faceOffsets[f])
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).Mul4(faceRotations[f])
}

// FaceNormal returns the outward normal of face f.
func FaceNormal(f world.Face) mgl32.Vec3 {
	return f.Dir().Vec3()
}

func newFaceObject(b *world.Block, f world.Face, mesh *Mesh, mat *Material) Object {
	return Object{
		Mesh:      mesh,
		Material:  mat,
		Transform: FaceTransform(b.Pos, f),
		Light:     mgl32.Vec4{0, 0, 0, b.Brightness},
		Normal:    FaceNormal(f),
	}
}
