package config

// Palette names accepted by StructureConfig.Palette.
const (
	PaletteFixed  = "fixed"
	PaletteRandom = "random"
)

// WorldConfig bounds the chunk grid. Zero leaves an axis unbounded.
type WorldConfig struct {
	ChunksXZ int `yaml:"chunks_xz"`
	ChunksY  int `yaml:"chunks_y"`
}

// GenConfig holds world generation configuration.
type GenConfig struct {
	Seed       int64 `yaml:"seed"`
	Caves      bool  `yaml:"caves"`
	Veins      bool  `yaml:"veins"`
	SkyIslands bool  `yaml:"sky_islands"`
	Buildings  bool  `yaml:"buildings"`
	TownRadius int   `yaml:"town_radius"`
	TownGap    int   `yaml:"town_gap"`
}

// StructureConfig locates the model used for town buildings.
type StructureConfig struct {
	Dir           string  `yaml:"dir"`
	Model         string  `yaml:"model"`
	Magnification float32 `yaml:"magnification"`
	// Palette is "fixed" or "random".
	Palette string `yaml:"palette"`
}
