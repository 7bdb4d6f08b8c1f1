package world

import "fmt"

// Kind identifies the type of a block.
type Kind int16

const (
	// KindNone is the "leave it alone" result of generator predicates. It is never stored.
	KindNone Kind = iota - 1
	KindAir
	KindClay
	KindStone
	KindDirt
	KindGrass
	KindOakSlab
	KindDoubleStoneSlab
	KindBrick
	KindTNT
	KindSpiderWeb
	KindRose
	KindYellowFlower
	KindWater
	KindOakSapling
	KindCobblestone
	KindBedrock
	KindGoldOre
	KindIronOre
	KindCoalOre
	KindBookShelf
	KindMossStone
	KindObsidian
	KindGrassTransparent
	KindGrassEntity

	kindCount
)

var kindNames = map[Kind]string{
	KindNone:             "none",
	KindAir:              "air",
	KindClay:             "clay",
	KindStone:            "stone",
	KindDirt:             "dirt",
	KindGrass:            "grass",
	KindOakSlab:          "oak_slab",
	KindDoubleStoneSlab:  "double_stone_slab",
	KindBrick:            "brick",
	KindTNT:              "tnt",
	KindSpiderWeb:        "web",
	KindRose:             "rose",
	KindYellowFlower:     "yellow_flower",
	KindWater:            "water",
	KindOakSapling:       "oak_sapling",
	KindCobblestone:      "cobblestone",
	KindBedrock:          "bedrock",
	KindGoldOre:          "gold_ore",
	KindIronOre:          "iron_ore",
	KindCoalOre:          "coal_ore",
	KindBookShelf:        "bookshelf",
	KindMossStone:        "mossy_cobblestone",
	KindObsidian:         "obsidian",
	KindGrassTransparent: "grass_transparent",
	KindGrassEntity:      "tallgrass",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a block name as printed by Kind.String.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown block kind %q", name)
}

// Transparent reports whether every face of the kind is drawn regardless of neighbours.
func (k Kind) Transparent() bool {
	switch k {
	case KindSpiderWeb, KindRose, KindYellowFlower:
		return true
	}
	return false
}

// Valid reports whether k is a storable kind (air included).
func (k Kind) Valid() bool {
	return k >= KindAir && k < kindCount
}

// Placeable returns every kind a player or structure may put into the world.
func Placeable() []Kind {
	kinds := make([]Kind, 0, int(kindCount)-1)
	for k := KindAir + 1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
