package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specmap/specmap/pkg/graphio"
	"github.com/specmap/specmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.pipelineOptions()
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.yaml]",
		Short: "Compute node positions for a model graph",
		Long: `Compute node positions for a model graph.

The layout command takes a graph document (JSON or YAML) and computes node
positions with the selected algorithm. The output is a layout.json file that
the rendering collaborator consumes, and that 'render' turns into DOT, SVG,
or PNG.

The tree algorithm requires at least one hierarchy root and lays the
hierarchy out level by level; the cluster algorithm accepts any graph shape
and groups children radially around their parents.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Algo, "algo", "a", opts.Algo, "layout algorithm: tree (default), cluster")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", opts.Orientation, "tree orientation: top-to-bottom (default), left-to-right")
	cmd.Flags().BoolVar(&opts.Refine, "refine", opts.Refine, "run overlap refinement after layout")
	cmd.Flags().Float64Var(&opts.Config.NodeSpacing, "node-spacing", opts.Config.NodeSpacing, "minimum sibling spacing (tree)")
	cmd.Flags().Float64Var(&opts.Config.LevelSpacing, "level-spacing", opts.Config.LevelSpacing, "gap between hierarchy levels (tree)")
	cmd.Flags().Float64Var(&opts.Config.VerticalSpacing, "vertical-spacing", opts.Config.VerticalSpacing, "level row height (cluster)")
	cmd.Flags().Float64Var(&opts.Config.MinSeparation, "min-separation", opts.Config.MinSeparation, "push-apart threshold (refine)")
	cmd.Flags().IntVar(&opts.Config.MaxIterations, "max-iterations", opts.Config.MaxIterations, "refinement iteration cap")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", opts.Input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Algo))
	spinner.Start()

	lay, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input))
		outputPath = base + ".layout.json"
	}

	if err := graphio.WriteLayoutFile(lay, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", "specmap render "+opts.Input+" -f svg")

	return nil
}
