package terrain

import (
	"math"
)

// Hashed lattice noise used alongside Perlin. Everything here is a pure
// function of its inputs and the seed.

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64 style integer hash, stable across runs.
func hash2(x, z, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// unit maps the low 32 bits of h to [0,1].
func unit(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := fade(x - x0)
	fz := fade(z - z0)
	ix, iz := int64(x0), int64(z0)

	v00 := unit(hash2(ix, iz, seed))
	v10 := unit(hash2(ix+1, iz, seed))
	v01 := unit(hash2(ix, iz+1, seed))
	v11 := unit(hash2(ix+1, iz+1, seed))

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz) // [0,1]
}

// fbm sums six octaves of value noise starting at frequency 4. The result is
// not normalised and lies in [0, 0.985).
func fbm(x, z float64, seed int64) float64 {
	total := 0.0
	freq := 4.0
	amp := 0.5
	for range 6 {
		total += valueNoise2D(x*freq, z*freq, seed) * amp
		freq *= 2
		amp *= 0.5
	}
	return total
}

// worley returns the distance to the nearest feature point, one point per
// unit cell, clamped to 1.
func worley(x, z float64, seed int64) float64 {
	cx := math.Floor(x)
	cz := math.Floor(z)
	fx := x - cx
	fz := z - cz
	minDist := 1.0
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			h := hash2(int64(cx)+int64(dx), int64(cz)+int64(dz), seed)
			px := unit(h)
			pz := unit(h >> 32)
			ddx := float64(dx) + px - fx
			ddz := float64(dz) + pz - fz
			minDist = math.Min(minDist, math.Sqrt(ddx*ddx+ddz*ddz))
		}
	}
	return minDist
}
