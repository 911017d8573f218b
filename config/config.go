// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads session settings from YAML files.
//
// A file only needs the fields it wants to change; everything else keeps
// the value from Default:
//
//	world: spherical
//	zoom: 4
//	center:
//	  lat: 48.85
//	  lon: 2.35
//	overview:
//	  side: 192
//	  margin: 16
//	layers: [background, basemap, cursor, overview]
//	autoscroll:
//	  half_life: 400ms
//	log_level: debug
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/mapview/world"
)

// ErrInvalid matches every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Layer names accepted in Config.Layers, bottom to top.
const (
	LayerBackground = "background"
	LayerBasemap    = "basemap"
	LayerCursor     = "cursor"
	LayerOverview   = "overview"
)

var knownLayers = []string{LayerBackground, LayerBasemap, LayerCursor, LayerOverview}

// maxZoom mirrors the deepest zoom level a session accepts.
const maxZoom = 24

// Config is the file form of a session's settings.
type Config struct {
	World      string     `yaml:"world"`
	Zoom       int        `yaml:"zoom"`
	Center     LatLon     `yaml:"center"`
	Overview   Overview   `yaml:"overview"`
	Layers     []string   `yaml:"layers"`
	Autoscroll Autoscroll `yaml:"autoscroll"`
	Viewport   Viewport   `yaml:"viewport"`
	LogLevel   string     `yaml:"log_level"`
}

// LatLon is a geographic position in degrees.
type LatLon struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Overview configures the minimap. A zero side disables it.
type Overview struct {
	Side   int `yaml:"side"`
	Margin int `yaml:"margin"`
}

// Autoscroll configures kinetic panning.
type Autoscroll struct {
	HalfLife Duration `yaml:"half_life"`
}

// Viewport is the render surface size in pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		World:    world.Planar.String(),
		Zoom:     2,
		Overview: Overview{Side: 256, Margin: 10},
		Layers:   slices.Clone(knownLayers),
		Autoscroll: Autoscroll{
			HalfLife: Duration(250 * time.Millisecond),
		},
		Viewport: Viewport{Width: 800, Height: 600},
		LogLevel: "warn",
	}
}

// Load reads the file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if _, err := c.Kind(); err != nil {
		return fmt.Errorf("%w: world: %w", ErrInvalid, err)
	}
	if c.Zoom < 0 || c.Zoom > maxZoom {
		return fmt.Errorf("%w: zoom %d not in [0, %d]", ErrInvalid, c.Zoom, maxZoom)
	}
	if c.Center.Lat < -90 || c.Center.Lat > 90 {
		return fmt.Errorf("%w: center latitude %g", ErrInvalid, c.Center.Lat)
	}
	if c.Center.Lon < -180 || c.Center.Lon > 180 {
		return fmt.Errorf("%w: center longitude %g", ErrInvalid, c.Center.Lon)
	}
	if c.Overview.Side < 0 || c.Overview.Margin < 0 {
		return fmt.Errorf("%w: overview %+v", ErrInvalid, c.Overview)
	}
	for _, l := range c.Layers {
		if !slices.Contains(knownLayers, l) {
			return fmt.Errorf("%w: unknown layer %q", ErrInvalid, l)
		}
	}
	if c.Autoscroll.HalfLife < 0 {
		return fmt.Errorf("%w: negative autoscroll half-life", ErrInvalid)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Kind returns the configured projection model.
func (c *Config) Kind() (world.Kind, error) {
	return world.ParseKind(c.World)
}

// Level returns the configured log level. An empty level means warn.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelWarn, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
