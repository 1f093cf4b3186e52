// Package pipeline provides the core load → layout → render pipeline.
//
// This package implements the complete engine flow used by the CLI and the
// live server. By centralizing this logic, we ensure consistent behavior
// across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a graph document (JSON or YAML) and build the in-memory graph
//  2. Layout: Compute positions with the tree or cluster algorithm, optionally
//     followed by overlap refinement
//  3. Render: Generate output in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
// The impact traversal is a separate, layout-independent operation exposed
// alongside the stages.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "model.json",
//	    Algo:    pipeline.AlgoTree,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, opts)
//	lay, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, lay, g, opts)
//	chain, err := runner.Impact(ctx, g, "NodeA")
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/specmap/specmap/pkg/cache"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
	"github.com/specmap/specmap/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Algorithm constants for layout selection.
const (
	AlgoTree    = "tree"
	AlgoCluster = "cluster"
)

// DefaultAlgo is the default layout algorithm.
const DefaultAlgo = AlgoTree

// DefaultOrientation is the default tree layout orientation.
const DefaultOrientation = string(layout.TopToBottom)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidAlgos is the set of supported layout algorithms.
var ValidAlgos = map[string]bool{
	AlgoTree:    true,
	AlgoCluster: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the engine pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input   string `json:"input,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Algo        string        `json:"algo,omitempty"`
	Orientation string        `json:"orientation,omitempty"`
	Refine      bool          `json:"refine,omitempty"`
	Config      layout.Config `json:"config"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded model graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph document.
	GraphHash string

	// Layout contains the positioned nodes and frame.
	Layout graphio.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAlgo checks that a layout algorithm is valid.
func ValidateAlgo(algo string) error {
	if !ValidAlgos[algo] {
		return errors.New(errors.ErrCodeInvalidAlgorithm,
			"invalid algorithm: %q (must be one of: tree, cluster)", algo)
	}
	return nil
}

// ValidateOrientation checks that a tree orientation is valid.
func ValidateOrientation(o string) error {
	if !layout.Orientation(o).Valid() {
		return errors.New(errors.ErrCodeInvalidOrientation,
			"invalid orientation: %q (must be one of: top-to-bottom, left-to-right)", o)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if err := errors.ValidatePath(o.Input); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Algo == "" {
		o.Algo = DefaultAlgo
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.Config == (layout.Config{}) {
		o.Config = layout.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateAlgo(o.Algo); err != nil {
		return err
	}
	return ValidateOrientation(o.Orientation)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateAlgo(o.Algo); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsTree returns true if the tree layout is selected.
func (o *Options) IsTree() bool {
	return o.Algo == "" || o.Algo == AlgoTree
}

// IsCluster returns true if the cluster layout is selected.
func (o *Options) IsCluster() bool {
	return o.Algo == AlgoCluster
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algo:        o.Algo,
		Orientation: o.Orientation,
		Refine:      o.Refine,
		ConfigHash:  configHash(o.Config),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
	}
}

// configHash fingerprints the numeric configuration for cache keys.
func configHash(cfg layout.Config) string {
	data, _ := json.Marshal(cfg)
	return cache.Hash(data)
}
