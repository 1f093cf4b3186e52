package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
	"github.com/specmap/specmap/pkg/layout"
	"github.com/specmap/specmap/pkg/layout/cluster"
	"github.com/specmap/specmap/pkg/layout/refine"
	"github.com/specmap/specmap/pkg/layout/tree"
	"github.com/specmap/specmap/pkg/observability"
	"github.com/specmap/specmap/pkg/traverse"
)

// GenerateLayout computes positions for the graph with the selected
// algorithm, then optionally runs overlap refinement over the result.
func GenerateLayout(ctx context.Context, g *graph.Graph, opts Options) (graphio.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graphio.Layout{}, err
	}

	start := time.Now()
	observability.Engine().OnLayoutStart(ctx, opts.Algo, g.NodeCount())

	res, err := computePositions(g, opts)
	observability.Engine().OnLayoutComplete(ctx, opts.Algo, time.Since(start), err)
	if err != nil {
		return graphio.Layout{}, err
	}

	if opts.Refine {
		refineStart := time.Now()
		stats := refine.Refine(g, res.Positions, opts.Config)
		observability.Engine().OnRefineComplete(ctx, stats.Iterations, stats.ResidualPairs, time.Since(refineStart))
		opts.Logger.Debug("refined layout",
			"iterations", stats.Iterations,
			"initial_pairs", stats.InitialPairs,
			"residual_pairs", stats.ResidualPairs)
	}

	orientation := ""
	if opts.IsTree() {
		orientation = opts.Orientation
	}
	return graphio.NewLayout(g, res.Positions, opts.Algo, orientation), nil
}

func computePositions(g *graph.Graph, opts Options) (layout.Result, error) {
	if opts.IsCluster() {
		return cluster.Layout(g, opts.Config), nil
	}

	res, err := tree.Layout(g, layout.Orientation(opts.Orientation), opts.Config)
	if err != nil {
		if stderrors.Is(err, layout.ErrNoRoot) {
			return layout.Result{}, errors.Wrap(errors.ErrCodeNoRoot, err,
				"tree layout requires at least one hierarchy root")
		}
		return layout.Result{}, errors.Wrap(errors.ErrCodeInternal, err, "tree layout")
	}
	return res, nil
}

// ComputeImpact runs the directional impact traversal with instrumentation.
func ComputeImpact(ctx context.Context, g *graph.Graph, start string) ([]string, error) {
	began := time.Now()
	chain, err := traverse.ImpactChain(g, start)
	observability.Engine().OnImpactComplete(ctx, start, len(chain), time.Since(began), err)
	return chain, err
}
