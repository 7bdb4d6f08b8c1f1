package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted when Load gets no path.
const EnvConfig = "VOXELSAND_CONFIG"

// Render radius bounds, in chunks.
const (
	MinRenderRadius = 1
	MaxRenderRadius = 16
)

// Config is the root of the YAML configuration.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Gen       GenConfig       `yaml:"gen"`
	Render    RenderConfig    `yaml:"render"`
	Structure StructureConfig `yaml:"structure"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// RenderConfig controls chunk streaming around the player.
type RenderConfig struct {
	RenderRadius int    `yaml:"render_radius"`
	GenRadius    int    `yaml:"gen_radius"`
	MaxChunks    int    `yaml:"max_chunks"`
	MaxFaces     int    `yaml:"max_faces"`
	Material     string `yaml:"material"`
}

// SetRenderRadius sets the render radius in chunks, clamped to
// [MinRenderRadius, MaxRenderRadius]. The generation radius is raised to
// match when it falls below.
func (r *RenderConfig) SetRenderRadius(radius int) {
	r.RenderRadius = min(max(radius, MinRenderRadius), MaxRenderRadius)
	if r.GenRadius < r.RenderRadius {
		r.GenRadius = r.RenderRadius
	}
}

// SetGenRadius sets the generation radius; it never drops below the render radius.
func (r *RenderConfig) SetGenRadius(radius int) {
	r.GenRadius = max(radius, r.RenderRadius)
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		World: WorldConfig{ChunksXZ: 64, ChunksY: 32},
		Gen: GenConfig{
			Caves:      true,
			TownRadius: 50,
			TownGap:    30,
		},
		Render: RenderConfig{
			RenderRadius: 3,
			GenRadius:    4,
			MaxChunks:    200,
			MaxFaces:     100000,
			Material:     "textured",
		},
		Structure: StructureConfig{
			Dir:           "assets/models",
			Model:         "house",
			Magnification: 2.5,
			Palette:       PaletteFixed,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// $VOXELSAND_CONFIG; when that is unset too the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Render.SetRenderRadius(c.Render.RenderRadius)
	c.Render.SetGenRadius(c.Render.GenRadius)
	if c.World.ChunksXZ < 0 || c.World.ChunksY < 0 {
		return fmt.Errorf("negative world extents %dx%d", c.World.ChunksXZ, c.World.ChunksY)
	}
	switch c.Structure.Palette {
	case PaletteFixed, PaletteRandom:
	case "":
		c.Structure.Palette = PaletteFixed
	default:
		return fmt.Errorf("unknown palette %q", c.Structure.Palette)
	}
	return nil
}
