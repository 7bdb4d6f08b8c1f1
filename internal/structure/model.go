package structure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"voxelsand/internal/world"
)

// DefaultMagnification scales model units to blocks.
const DefaultMagnification = 2.5

// Triangle is a scaled model triangle and the kind it paints.
type Triangle struct {
	Vertices [3]mgl32.Vec3
	Kind     world.Kind
}

// Model is a voxelisable structure.
type Model struct {
	Name      string
	Triangles []Triangle
}

// NewModel scales obj by magnification and paints each triangle with the
// kind found under its third corner's texture coordinate.
func NewModel(name string, obj *OBJ, strip *Strip, pal Palette, magnification float32) *Model {
	kinds := make([]world.Kind, len(obj.TexCoords))
	for i, uv := range obj.TexCoords {
		kinds[i] = pal.Kind(strip.ARGB(uv.X()))
	}
	m := &Model{Name: name, Triangles: make([]Triangle, 0, len(obj.Triangles))}
	for _, tri := range obj.Triangles {
		var t Triangle
		for i, c := range tri {
			t.Vertices[i] = obj.Vertices[c.Vertex].Mul(magnification)
		}
		t.Kind = world.KindNone
		if vt := tri[2].TexCoord; vt >= 0 {
			t.Kind = kinds[vt]
		}
		m.Triangles = append(m.Triangles, t)
	}
	return m
}

// Rasterize walks every triangle in barycentric steps no longer than one
// block and calls fn for each visited block position. Positions repeat.
func (m *Model) Rasterize(origin mgl32.Vec3, fn func(p world.Pos, k world.Kind)) {
	for _, tri := range m.Triangles {
		a, b, c := tri.Vertices[0], tri.Vertices[1], tri.Vertices[2]
		centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
		oa := a.Sub(centroid)
		ob := b.Sub(centroid)
		oc := c.Sub(centroid)
		base := origin.Add(centroid)

		longest := max(b.Sub(a).Len(), c.Sub(a).Len(), c.Sub(b).Len())
		if longest == 0 {
			fn(world.PosFromVec3(base), tri.Kind)
			continue
		}
		step := 1 / longest
		for s := float32(0); s <= 1; s += step {
			for t := float32(0); t <= 1-s; t += step {
				w := base.Add(oa.Mul(s)).Add(ob.Mul(t)).Add(oc.Mul(1 - s - t))
				fn(world.PosFromVec3(w), tri.Kind)
			}
		}
	}
}

// Loader reads models from <dir>/<name>.obj with a <name>.png or <name>.bmp
// strip and caches them by name.
type Loader struct {
	dir           string
	palette       Palette
	magnification float32
	cache         map[string]*Model
}

func NewLoader(dir string, pal Palette, magnification float32) *Loader {
	if magnification <= 0 {
		magnification = DefaultMagnification
	}
	return &Loader{
		dir:           dir,
		palette:       pal,
		magnification: magnification,
		cache:         make(map[string]*Model),
	}
}

func (l *Loader) LoadModel(name string) (*Model, error) {
	if m, ok := l.cache[name]; ok {
		return m, nil
	}
	obj, err := LoadOBJ(filepath.Join(l.dir, name+".obj"))
	if err != nil {
		return nil, fmt.Errorf("could not load model %q: %w", name, err)
	}
	stripPath := filepath.Join(l.dir, name+".png")
	if _, err := os.Stat(stripPath); err != nil {
		stripPath = filepath.Join(l.dir, name+".bmp")
	}
	strip, err := LoadStrip(stripPath)
	if err != nil {
		return nil, fmt.Errorf("could not load model %q: %w", name, err)
	}
	m := NewModel(name, obj, strip, l.palette, l.magnification)
	l.cache[name] = m
	return m, nil
}
