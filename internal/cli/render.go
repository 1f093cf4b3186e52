package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/pkg/pipeline"
)

// renderCommand creates the render command for producing output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := c.pipelineOptions()
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "render [graph.json|graph.yaml]",
		Short: "Render a model graph to JSON, DOT, SVG, or PNG",
		Long: `Render a model graph to JSON, DOT, SVG, or PNG.

The render command runs the full pipeline: it loads the graph, computes the
layout (cached), and produces one file per requested format next to the
input. Positions in DOT/SVG/PNG output are the engine's, pinned so Graphviz
only rasterizes and never re-layouts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "formats", "f", pipeline.FormatJSON, "comma-separated output formats: json, dot, svg, png")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringVarP(&opts.Algo, "algo", "a", opts.Algo, "layout algorithm: tree (default), cluster")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "tree orientation: top-to-bottom (default), left-to-right")
	cmd.Flags().BoolVar(&opts.Refine, "refine", opts.Refine, "run overlap refinement after layout")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include symbol types in node labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input))
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return nil
}
