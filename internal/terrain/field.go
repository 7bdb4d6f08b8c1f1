package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// NoiseField supplies every noise-derived decision the generator makes.
// Implementations must be deterministic per coordinate.
type NoiseField interface {
	// BaseRockHeight is the exclusive top of the stone layer.
	BaseRockHeight(x, z int) int
	// SurfaceHeight is the exclusive top of the soil column; grass sits at h-1.
	SurfaceHeight(x, z int) int
	Cave(x, y, z int) bool
	Ore(x, y, z int) bool
	SkyIsland(x, y, z int) bool
	TownDensity(x, z int) float64
}

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
)

// Field is the default seeded NoiseField.
type Field struct {
	seed    int64
	perlin  *perlin.Perlin
	perlin3 *perlin.Perlin
}

var _ NoiseField = (*Field)(nil)

// NewField builds a field from seed.
func NewField(seed int64) *Field {
	return &Field{
		seed:    seed,
		perlin:  perlin.NewPerlin(perlinAlpha, perlinBeta, 1, seed),
		perlin3: perlin.NewPerlin(perlinAlpha, perlinBeta, 1, seed^0x5DEECE66D),
	}
}

// Seed returns the seed the field was built with.
func (f *Field) Seed() int64 { return f.seed }

func (f *Field) noise2(x, z float64) float64 {
	return f.perlin.Noise2D(x, z)
}

func (f *Field) noise3(x, y, z float64) float64 {
	return f.perlin3.Noise3D(x, y, z)
}

func (f *Field) BaseRockHeight(x, z int) int {
	const (
		base = 35.0
		amp  = 35.0
		freq = 0.015
	)
	n := f.noise2(float64(x)*freq, float64(z)*freq)
	shaped := continent(n)*0.5 + peakValley(n)*0.1 + erosion(n)*0.4
	return int(base + amp*shaped)
}

// SurfaceHeight blends a plains profile and a mountain profile with a
// worley-driven weight.
func (f *Field) SurfaceHeight(x, z int) int {
	fx, fz := float64(x), float64(z)
	s := f.seed

	// plains
	n1 := 1 - math.Abs(f.noise2((fx+1000)/60, (fz+1000)/60))
	n2 := 0.5 * (f.noise2((fx+100)/150, (fz+100)/150) + 1)
	n3 := fbm(fx/250, fz/250, s)
	n4 := worley(fx/100, fz/100, s)
	plains := weighted(n1, n2, n3, n4, 0, 1, 1, 0.1)
	plains = 40 * math.Pow(plains, 2.5)

	// mountains
	ridge := 0.0
	amp, freq := 0.5, 64.0
	for range 4 {
		ridge += (1 - math.Abs(f.noise2(fx/freq, fz/freq))) * amp
		freq *= 0.5
		amp *= 0.5
	}
	n2 = 0.5 * (f.noise2((fx+100)/60, (fz+100)/60) + 1)
	n3 = fbm(fx/200, fz/200, s)
	n4 = fbm((fx+50)/400, (fz+50)/400, s)
	mountains := weighted(ridge, n2, n3, n4, 4, 3, 10, 0)
	mountains = (140*mountains + 100*(worley(fx/200, fz/200, s)+fbm(fx/500, fz/500, s))) / 2

	// blend weight
	n1 = worley((fx+10)/200, (fz+10)/200, s)
	n3 = fbm(fx/400, fz/400, s)
	n4 = fbm(fx/200, fz/200, s)
	mix := weighted(n1, 0, n3, n4, 1, 0, 1, 1)
	exp := worley((fx+3000)/400, (fz+3000)/400, s)
	mix = 1 - math.Pow(mix, 4*exp)

	h := (1-mix)*mountains + mix*plains
	return max(0, int(math.Floor(h)))
}

func weighted(n1, n2, n3, n4, a, b, c, d float64) float64 {
	return (n1*a + n2*b + n3*c + n4*d) / (a + b + c + d)
}

// Cave carves round holes plus a band of twisting pipes between them.
func (f *Field) Cave(x, y, z int) bool {
	const (
		holeFreq  = 0.15
		holeThres = -0.2
		pipeFreq  = 0.2
		pipeLow   = -0.25
		pipeHigh  = -0.2
	)
	fx, fy, fz := float64(x), float64(y), float64(z)
	if f.noise3(fx*holeFreq, fy*holeFreq, fz*holeFreq) < holeThres {
		return true
	}
	p := f.noise3(fx*pipeFreq, fy*pipeFreq, fz*pipeFreq)
	return p > pipeLow && p < pipeHigh
}

func (f *Field) Ore(x, y, z int) bool {
	const freq, thres = 0.2, -0.45
	return f.noise3(float64(x)*freq, float64(y)*freq, float64(z)*freq) < thres
}

func (f *Field) SkyIsland(x, y, z int) bool {
	const freq, thres = 0.05, 0.35
	return f.noise3(float64(x)*freq, float64(y)*freq, float64(z)*freq) > thres
}

func (f *Field) TownDensity(x, z int) float64 {
	const density = 0.45
	return f.noise2(float64(x)*density+1000, float64(z)*density+1000)
}
