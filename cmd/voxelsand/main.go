package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"voxelsand/internal/config"
	"voxelsand/internal/game"
	"voxelsand/internal/metrics"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $"+config.EnvConfig+")")
		seed       = flag.Int64("seed", 0, "world seed, overrides the config when non-zero")
		steps      = flag.Int("steps", 256, "ticks to walk")
		tps        = flag.Int("tps", 0, "ticks per second, 0 runs unthrottled")
		metricsOn  = flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :2112")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Gen.Seed = *seed
	}
	if *metricsOn != "" {
		cfg.Metrics.Addr = *metricsOn
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *steps, *tps, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("run", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, steps, tps int, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	s := game.NewSession(cfg, log, m)
	app := game.NewApp(s, tps, log)
	app.ReportEvery = 32

	g, ctx := errgroup.WithContext(ctx)
	walkDone := make(chan struct{})
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-ctx.Done():
			case <-walkDone:
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		})
	}

	g.Go(func() error {
		defer close(walkDone)
		spawn := s.Spawn(0, 0)
		st, err := app.Run(ctx, steps, game.Line(spawn, mgl32.Vec3{1, 0, 0.5}))
		fmt.Printf("session %s: ticks=%d chunks=%d rendered=%d faces=%d slots=%d\n",
			s.ID, st.Ticks, st.Chunks, st.RenderedChunks, st.LiveFaces, st.FaceSlots)
		return err
	})
	return g.Wait()
}
