package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoVertices is returned for OBJ data without a single vertex.
var ErrNoVertices = errors.New("structure: obj has no vertices")

// Corner references one vertex of a face by zero-based index. TexCoord is -1
// when the face carries no texture coordinate.
type Corner struct {
	Vertex   int
	TexCoord int
}

// OBJ is the subset of a Wavefront file needed for voxelising: positions,
// texture coordinates and triangulated faces.
type OBJ struct {
	Vertices  []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Triangles [][3]Corner
}

// LoadOBJ reads and parses the file at path.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open obj: %w", err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	return obj, nil
}

// ParseOBJ reads v, vt and f statements. Polygons are fan-triangulated and
// negative indices count back from the last element seen so far. Everything
// else is ignored.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		var err error
		switch fields[0] {
		case "v":
			err = obj.parseVertex(fields[1:])
		case "vt":
			err = obj.parseTexCoord(fields[1:])
		case "f":
			err = obj.parseFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(obj.Vertices) == 0 {
		return nil, ErrNoVertices
	}
	return obj, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", fields[i], err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (o *OBJ) parseVertex(fields []string) error {
	v, err := parseFloats(fields, 3)
	if err != nil {
		return err
	}
	o.Vertices = append(o.Vertices, mgl32.Vec3{v[0], v[1], v[2]})
	return nil
}

func (o *OBJ) parseTexCoord(fields []string) error {
	if len(fields) == 1 {
		fields = append(fields, "0")
	}
	v, err := parseFloats(fields, 2)
	if err != nil {
		return err
	}
	o.TexCoords = append(o.TexCoords, mgl32.Vec2{v[0], v[1]})
	return nil
}

func (o *OBJ) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}
	corners := make([]Corner, len(fields))
	for i, f := range fields {
		c, err := o.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		o.Triangles = append(o.Triangles, [3]Corner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// parseCorner handles v, v/vt, v//vn and v/vt/vn.
func (o *OBJ) parseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	v, err := resolveIndex(parts[0], len(o.Vertices))
	if err != nil {
		return Corner{}, fmt.Errorf("vertex index: %w", err)
	}
	c := Corner{Vertex: v, TexCoord: -1}
	if len(parts) > 1 && parts[1] != "" {
		vt, err := resolveIndex(parts[1], len(o.TexCoords))
		if err != nil {
			return Corner{}, fmt.Errorf("texcoord index: %w", err)
		}
		c.TexCoord = vt
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, errors.New("index 0 is invalid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}
