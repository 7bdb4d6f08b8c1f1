package game

import (
	"fmt"
	"log/slog"

	"voxelsand/internal/config"
	"voxelsand/internal/metrics"
	"voxelsand/internal/render"
	"voxelsand/internal/structure"
	"voxelsand/internal/terrain"
	"voxelsand/internal/world"
)

func worldExtents(cfg config.WorldConfig) world.Extents {
	return world.Extents{ChunksXZ: cfg.ChunksXZ, ChunksY: cfg.ChunksY}
}

func generatorOptions(cfg config.GenConfig, log *slog.Logger, m *metrics.Metrics) terrain.Options {
	return terrain.Options{
		Seed:       cfg.Seed,
		Caves:      cfg.Caves,
		Veins:      cfg.Veins,
		SkyIslands: cfg.SkyIslands,
		Buildings:  cfg.Buildings,
		TownRadius: cfg.TownRadius,
		TownGap:    cfg.TownGap,
		Logger:     log,
		Metrics:    m,
	}
}

func renderOptions(cfg config.RenderConfig, log *slog.Logger, m *metrics.Metrics) render.Options {
	return render.Options{
		RenderRadius: cfg.RenderRadius,
		GenRadius:    cfg.GenRadius,
		MaxChunks:    cfg.MaxChunks,
		MaxFaces:     cfg.MaxFaces,
		Material:     cfg.Material,
		Logger:       log,
		Metrics:      m,
	}
}

func palette(cfg config.StructureConfig, seed int64) structure.Palette {
	if cfg.Palette == config.PaletteRandom {
		return structure.NewRandomPalette(seed)
	}
	return structure.DefaultFixedPalette()
}

// loadModel reads the town building described by cfg.
func loadModel(cfg config.StructureConfig, seed int64) (*structure.Model, error) {
	loader := structure.NewLoader(cfg.Dir, palette(cfg, seed), cfg.Magnification)
	m, err := loader.LoadModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}
	return m, nil
}
