package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultBrightness is the light level a fresh block starts with.
const DefaultBrightness = float32(1.0 / 16.0)

// Pos is an integer world position.
type Pos struct {
	X, Y, Z int
}

// Add returns p shifted by d.
func (p Pos) Add(d Pos) Pos {
	return Pos{p.X + d.X, p.Y + d.Y, p.Z + d.Z}
}

// Negative reports whether any component lies below the world's lower boundary.
func (p Pos) Negative() bool {
	return p.X < 0 || p.Y < 0 || p.Z < 0
}

// Vec3 converts the position to a float vector.
func (p Pos) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

// PosFromVec3 floors a world-space point to the block containing it.
func PosFromVec3(v mgl32.Vec3) Pos {
	return Pos{floorToInt(v.X()), floorToInt(v.Y()), floorToInt(v.Z())}
}

// Face identifies one side of a block. Opposite faces sum to 5.
type Face int

const (
	FaceFront Face = iota
	FaceRight
	FaceUp
	FaceDown
	FaceLeft
	FaceBack

	FaceCount = 6
)

var faceDirs = [FaceCount]Pos{
	{0, 0, -1}, // F
	{-1, 0, 0}, // R
	{0, 1, 0},  // U
	{0, -1, 0}, // D
	{1, 0, 0},  // L
	{0, 0, 1},  // B
}

// Dir returns the unit offset towards the neighbour sharing this face.
func (f Face) Dir() Pos {
	return faceDirs[f]
}

// Opposite returns the face of the neighbour that touches f.
func (f Face) Opposite() Face {
	return 5 - f
}

func (f Face) String() string {
	return [FaceCount]string{"front", "right", "up", "down", "left", "back"}[f]
}

// FaceHandle addresses one render object. Generation lets the owner of
// the list detect handles that survived a rebuild.
type FaceHandle struct {
	Index      int
	Generation uint32
}

// FaceSlot is either empty (face not rendered) or holds a handle.
type FaceSlot struct {
	handle   FaceHandle
	rendered bool
}

// Get returns the handle and whether the face is marked rendered.
func (s FaceSlot) Get() (FaceHandle, bool) {
	return s.handle, s.rendered
}

// Set marks the face rendered at h.
func (s *FaceSlot) Set(h FaceHandle) {
	s.handle = h
	s.rendered = true
}

// Clear marks the face unrendered and returns the handle it held.
func (s *FaceSlot) Clear() (FaceHandle, bool) {
	h, ok := s.handle, s.rendered
	*s = FaceSlot{}
	return h, ok
}

// Block is a single voxel cell.
type Block struct {
	Pos         Pos
	Kind        Kind
	Transparent bool
	Brightness  float32
	Faces       [FaceCount]FaceSlot
}

// NewBlock builds a block value with no rendered faces.
func NewBlock(pos Pos, kind Kind) Block {
	return Block{
		Pos:         pos,
		Kind:        kind,
		Transparent: kind.Transparent(),
		Brightness:  DefaultBrightness,
	}
}

// IsAir reports whether the block is air. A nil block is not air.
func (b *Block) IsAir() bool {
	return b != nil && b.Kind == KindAir
}
