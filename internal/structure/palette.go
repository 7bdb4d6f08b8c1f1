package structure

import (
	"math/rand/v2"

	"voxelsand/internal/world"
)

// Palette maps a strip colour to the block kind it paints.
type Palette interface {
	Kind(argb uint32) world.Kind
}

// FixedPalette is an explicit colour table. Unlisted colours paint nothing.
type FixedPalette map[uint32]world.Kind

// DefaultFixedPalette returns the stock colour table.
func DefaultFixedPalette() FixedPalette {
	return FixedPalette{
		0xFF949494: world.KindClay,
		0xFF7E7E7E: world.KindCobblestone,
		0xFF865C42: world.KindDirt,
	}
}

func (p FixedPalette) Kind(argb uint32) world.Kind {
	if k, ok := p[argb]; ok {
		return k
	}
	return world.KindNone
}

// RandomPalette gives every distinct colour a random placeable kind on first
// sight and keeps it. The sequence is fixed by the seed.
type RandomPalette struct {
	rng      *rand.Rand
	kinds    []world.Kind
	assigned map[uint32]world.Kind
}

func NewRandomPalette(seed int64) *RandomPalette {
	return &RandomPalette{
		rng:      rand.New(rand.NewPCG(uint64(seed), 0x9E3779B97F4A7C15)),
		kinds:    world.Placeable(),
		assigned: make(map[uint32]world.Kind),
	}
}

func (p *RandomPalette) Kind(argb uint32) world.Kind {
	if k, ok := p.assigned[argb]; ok {
		return k
	}
	k := p.kinds[p.rng.IntN(len(p.kinds))]
	p.assigned[argb] = k
	return k
}
