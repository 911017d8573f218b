// Command mapview renders frames of a map session headlessly.
//
// It opens a backend (by default wgpu on the noop HAL), builds a session
// from a YAML config file or the defaults, and records and submits the
// requested number of frames. Useful for checking that every shader compiles, links and
// produces valid pipelines without a window.
//
// Usage:
//
//	mapview -config mapview.yaml -frames 120 -fling 3,0
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/mapview"
	"github.com/gogpu/mapview/backend"
	"github.com/gogpu/mapview/backend/wgpu"
	"github.com/gogpu/mapview/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mapview:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath = flag.String("config", "", "YAML config file")
		frames  = flag.Int("frames", 60, "number of frames to render")
		step    = flag.Duration("dt", time.Second/60, "simulated time per frame")
		kind    = flag.String("world", "", "override the world: planar or spherical")
		fling   = flag.String("fling", "", "initial scroll velocity vx,vy in tiles per second")
		name    = flag.String("backend", backend.WGPU, "backend: "+strings.Join(backend.Available(), ", "))
		verbose = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *kind != "" {
		cfg.World = *kind
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if *verbose {
		level = slog.LevelDebug
	}
	mapview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts, err := mapview.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	b, err := backend.Open(*name, cfg.Viewport.Width, cfg.Viewport.Height)
	if err != nil {
		return err
	}
	defer b.Close()

	s, err := mapview.NewSession(b.Device(), opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	if *fling != "" {
		vx, vy, err := parseVec(*fling)
		if err != nil {
			return fmt.Errorf("-fling: %w", err)
		}
		s.Fling(vx, vy)
	}

	// Draw statistics are only available from the wgpu backend.
	var gpu *wgpu.Device
	if h, ok := b.(*wgpu.Headless); ok {
		gpu = h.GPU()
	}
	var draws int
	for i := range *frames {
		s.Tick(*step)
		if err := s.Frame(); err != nil {
			return err
		}
		if gpu != nil {
			draws += gpu.Pending().Draws
		}
		if err := b.Present(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	c := s.State().Center
	mapview.Logger().Info("mapview: done",
		"frames", *frames,
		"draws", draws,
		"world", s.World().Kind(),
		"lat", float64(c.Lat)*180/math.Pi,
		"lon", float64(c.Lon)*180/math.Pi,
	)
	fmt.Printf("%d frames, %d draws, %s world\n", *frames, draws, s.World().Kind())
	return nil
}

func parseVec(s string) (x, y float32, err error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("want vx,vy, got %q", s)
	}
	fx, err := strconv.ParseFloat(strings.TrimSpace(a), 32)
	if err != nil {
		return 0, 0, err
	}
	fy, err := strconv.ParseFloat(strings.TrimSpace(b), 32)
	if err != nil {
		return 0, 0, err
	}
	return float32(fx), float32(fy), nil
}
