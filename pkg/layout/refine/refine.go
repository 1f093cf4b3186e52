// Package refine implements bounded post-layout overlap relaxation.
//
// Refinement is a micro-force pass, not a force-directed layout: it only
// separates pairs that are already too close, moves both members a small
// fraction of the deficit, and runs a fixed, small number of iterations. The
// global structure produced by the tree or cluster layout is preserved.
package refine

import (
	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/layout"
	"github.com/specmap/specmap/pkg/layout/spatial"
)

const (
	// pushFactor is the fraction of the separation deficit each member of a
	// conflicting pair moves per iteration. Both move, so a pair closes 30%
	// of its deficit per pass.
	pushFactor = 0.15

	// convergedRatio ends refinement early once the share of pairs still
	// being adjusted drops below it.
	convergedRatio = 0.1
)

// Stats summarizes one refinement run.
type Stats struct {
	Iterations    int // passes actually executed
	InitialPairs  int // conflicting pairs before the first pass
	ResidualPairs int // conflicting pairs after the last pass

	// PairHistory records the conflicting-pair count entering each pass,
	// followed by the count after the last pass. Counts never increase
	// from one entry to the next.
	PairHistory []int
}

// Refine separates overlapping nodes in place, rebuilding the spatial index
// each iteration. Positions are top-left corners; separation is measured
// between footprint centers. Coincident centers are left untouched since no
// push direction exists for them.
func Refine(g *graph.Graph, positions map[string]graph.Position, cfg layout.Config) Stats {
	minSep := cfg.MinSeparation
	if minSep <= 0 {
		minSep = layout.DefaultMinSeparation
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = layout.DefaultMaxIterations
	}

	var stats Stats
	for iter := 0; iter < maxIter; iter++ {
		pairs := conflictingPairs(g, positions, cfg, minSep)
		stats.PairHistory = append(stats.PairHistory, len(pairs))
		if iter == 0 {
			stats.InitialPairs = len(pairs)
		}
		stats.ResidualPairs = len(pairs)
		if len(pairs) == 0 {
			return stats
		}
		stats.Iterations++

		adjusted := 0
		for _, p := range pairs {
			if p.Distance <= 0 {
				continue
			}
			deficit := minSep - p.Distance
			if deficit <= 0 {
				continue
			}
			push := deficit * pushFactor
			ux := (p.B.X - p.A.X) / p.Distance
			uy := (p.B.Y - p.A.Y) / p.Distance

			shift(positions, p.A.ID, -ux*push, -uy*push)
			shift(positions, p.B.ID, ux*push, uy*push)
			adjusted++
		}

		if float64(adjusted) < convergedRatio*float64(len(pairs)) {
			break
		}
	}

	stats.ResidualPairs = len(conflictingPairs(g, positions, cfg, minSep))
	stats.PairHistory = append(stats.PairHistory, stats.ResidualPairs)
	return stats
}

// conflictingPairs indexes footprint centers and returns pairs closer than
// the separation threshold. Each entry carries half the threshold as its
// radius so the grid's radius-sum test reduces to a plain distance check.
func conflictingPairs(g *graph.Graph, positions map[string]graph.Position, cfg layout.Config, minSep float64) []spatial.Pair {
	cellSize := cfg.CellSize
	if cellSize < minSep {
		cellSize = minSep
	}
	grid := spatial.New(cellSize, 0)

	for _, n := range g.Nodes() {
		p, ok := positions[n.ID]
		if !ok {
			continue
		}
		grid.Insert(spatial.Entry{
			ID:     n.ID,
			X:      p.X + n.Footprint.Width/2,
			Y:      p.Y + n.Footprint.Height/2,
			Radius: minSep / 2,
		})
	}
	return grid.OverlappingPairs()
}

func shift(positions map[string]graph.Position, id string, dx, dy float64) {
	p := positions[id]
	positions[id] = graph.Position{X: p.X + dx, Y: p.Y + dy}
}
