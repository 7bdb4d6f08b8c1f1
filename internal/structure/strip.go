package structure

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
)

// StripWidth is the required width of a palette strip image.
const StripWidth = 256

// ErrStripSize is returned when a strip image is not exactly 256x1.
var ErrStripSize = errors.New("structure: strip image must be 256x1")

// Strip holds the ARGB colour of each pixel of a 256x1 palette image.
type Strip [StripWidth]uint32

// LoadStrip decodes the PNG or BMP file at path.
func LoadStrip(path string) (*Strip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open strip: %w", err)
	}
	defer f.Close()

	s, err := DecodeStrip(f)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	return s, nil
}

// DecodeStrip reads any registered image format.
func DecodeStrip(r io.Reader) (*Strip, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode strip: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != StripWidth || b.Dy() != 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrStripSize, b.Dx(), b.Dy())
	}
	var s Strip
	for x := range StripWidth {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y)).(color.NRGBA)
		s[x] = uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	}
	return &s, nil
}

// ARGB returns the colour under texture coordinate u, nearest pixel.
func (s *Strip) ARGB(u float32) uint32 {
	i := int(StripWidth * u)
	i = max(0, min(StripWidth-1, i))
	return s[i]
}
