package pipeline

import (
	"context"
	"time"

	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
	"github.com/specmap/specmap/pkg/observability"
	"github.com/specmap/specmap/pkg/render/dot"
)

// RenderFromLayout generates all requested artifact formats from a computed
// layout. DOT source is generated once and shared by the svg/png renders.
func RenderFromLayout(ctx context.Context, lay graphio.Layout, g *graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	dotSource := ""

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Engine().OnRenderStart(ctx, format)

		data, err := renderOne(format, lay, g, opts, &dotSource)
		observability.Engine().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOne(format string, lay graphio.Layout, g *graph.Graph, opts Options, dotSource *string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graphio.MarshalLayout(lay)
	case FormatDOT:
		return []byte(dotFor(lay, g, opts, dotSource)), nil
	case FormatSVG:
		return dot.RenderSVG(dotFor(lay, g, opts, dotSource))
	case FormatPNG:
		return dot.RenderPNG(dotFor(lay, g, opts, dotSource))
	default:
		return nil, ValidateFormat(format)
	}
}

func dotFor(lay graphio.Layout, g *graph.Graph, opts Options, cached *string) string {
	if *cached == "" {
		*cached = dot.ToDOT(g, lay, dot.Options{Detailed: opts.Detailed})
	}
	return *cached
}
