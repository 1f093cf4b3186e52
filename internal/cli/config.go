package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/specmap/specmap/pkg/layout"
	"github.com/specmap/specmap/pkg/pipeline"
)

// DefaultConfigPath is the project config file looked up in the working
// directory. All values are optional; flags override config, config
// overrides built-in defaults.
const DefaultConfigPath = "specmap.toml"

// Config is the TOML project configuration.
//
// Example:
//
//	algo = "cluster"
//	refine = true
//	formats = ["json", "svg"]
//
//	[layout]
//	node_spacing = 120
//	vertical_spacing = 180
//
//	[serve]
//	addr = ":8787"
//	watch = true
type Config struct {
	Algo        string       `toml:"algo"`
	Orientation string       `toml:"orientation"`
	Refine      bool         `toml:"refine"`
	Formats     []string     `toml:"formats"`
	Layout      LayoutConfig `toml:"layout"`
	Serve       ServeConfig  `toml:"serve"`
}

// LayoutConfig overrides individual numeric layout knobs. Zero values keep
// the built-in defaults.
type LayoutConfig struct {
	CellSize        float64 `toml:"cell_size"`
	NodeRadius      float64 `toml:"node_radius"`
	Padding         float64 `toml:"padding"`
	NodeSpacing     float64 `toml:"node_spacing"`
	LevelSpacing    float64 `toml:"level_spacing"`
	ClusterRadius   float64 `toml:"cluster_radius"`
	VerticalSpacing float64 `toml:"vertical_spacing"`
	MaxLayoutWidth  float64 `toml:"max_layout_width"`
	MinSeparation   float64 `toml:"min_separation"`
	MaxIterations   int     `toml:"max_iterations"`
}

// ServeConfig configures the live server defaults.
type ServeConfig struct {
	Addr  string `toml:"addr"`
	Watch bool   `toml:"watch"`
}

// LoadConfig reads a TOML config file. A missing file yields the zero
// config and no error; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// PipelineOptions converts the config into pipeline options, leaving unset
// values at the pipeline defaults.
func (c Config) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Algo:        c.Algo,
		Orientation: c.Orientation,
		Refine:      c.Refine,
		Formats:     c.Formats,
		Config:      c.LayoutOverrides(),
	}
	return opts
}

// LayoutOverrides merges the config's layout section over the defaults.
func (c Config) LayoutOverrides() layout.Config {
	cfg := layout.DefaultConfig()
	if c.Layout.CellSize > 0 {
		cfg.CellSize = c.Layout.CellSize
	}
	if c.Layout.NodeRadius > 0 {
		cfg.NodeRadius = c.Layout.NodeRadius
	}
	if c.Layout.Padding > 0 {
		cfg.Padding = c.Layout.Padding
	}
	if c.Layout.NodeSpacing > 0 {
		cfg.NodeSpacing = c.Layout.NodeSpacing
	}
	if c.Layout.LevelSpacing > 0 {
		cfg.LevelSpacing = c.Layout.LevelSpacing
	}
	if c.Layout.ClusterRadius > 0 {
		cfg.ClusterRadius = c.Layout.ClusterRadius
	}
	if c.Layout.VerticalSpacing > 0 {
		cfg.VerticalSpacing = c.Layout.VerticalSpacing
	}
	if c.Layout.MaxLayoutWidth > 0 {
		cfg.MaxLayoutWidth = c.Layout.MaxLayoutWidth
	}
	if c.Layout.MinSeparation > 0 {
		cfg.MinSeparation = c.Layout.MinSeparation
	}
	if c.Layout.MaxIterations > 0 {
		cfg.MaxIterations = c.Layout.MaxIterations
	}
	return cfg
}
