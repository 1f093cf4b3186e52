// Package tree implements the recursive single-root hierarchical layout.
//
// Hierarchy relations (childof/parentof/hierarchy) are collapsed into a
// parent→children adjacency and laid out depth-first: each leaf claims a
// slot along the sibling axis sized by its footprint, and each internal node
// is centered over the midpoint of its first and last child. Depth grows
// along the orientation axis by the parent's footprint plus the configured
// level spacing, so levels never collide regardless of node sizes.
//
// Multiple roots are joined under a synthetic root that receives no
// position. Zero roots - every node claiming a parent - is the one fatal
// shape error ([layout.ErrNoRoot]).
package tree

import (
	"fmt"
	"math"

	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/layout"
)

// slotMargin is added to a node's footprint when sizing its sibling slot.
const slotMargin = 10.0

type layouter struct {
	g       *graph.Graph
	o       layout.Orientation
	cfg     layout.Config
	extents map[string]float64 // memoized subtree cross-axis extents
	visited map[string]bool
	pos     map[string]graph.Position
}

// Layout computes positions for the hierarchy rooted in g.
//
// Positions are top-left corners. The layout is deterministic: children are
// processed in edge insertion order and no randomness is involved, so
// repeated invocations produce identical positions. A child edge pointing at
// a missing or already-placed node is skipped and the rest of the tree lays
// out around the gap.
func Layout(g *graph.Graph, o layout.Orientation, cfg layout.Config) (layout.Result, error) {
	if !o.Valid() {
		return layout.Result{}, fmt.Errorf("invalid orientation %q", o)
	}
	res := layout.Result{Positions: make(map[string]graph.Position)}
	if g.NodeCount() == 0 {
		return res, nil
	}

	roots := g.Roots()
	if len(roots) == 0 {
		return layout.Result{}, fmt.Errorf("%d nodes: %w", g.NodeCount(), layout.ErrNoRoot)
	}

	l := &layouter{
		g:       g,
		o:       o,
		cfg:     cfg,
		extents: make(map[string]float64),
		visited: make(map[string]bool),
		pos:     res.Positions,
	}

	if len(roots) == 1 {
		l.measure(roots[0])
		l.resetVisited()
		l.assign(roots[0], 0, 0)
	} else {
		// Synthetic root: lay the discovered roots out side by side at
		// depth zero, without emitting a position for the joint parent.
		for _, r := range roots {
			l.measure(r)
		}
		l.resetVisited()
		cursor := 0.0
		for _, r := range roots {
			l.assign(r, cursor, 0)
			cursor += l.extents[r] + cfg.NodeSpacing
		}
	}

	res.Bounds = layout.BoundsOf(g, res.Positions)
	return res, nil
}

func (l *layouter) resetVisited() { l.visited = make(map[string]bool) }

// children returns the node's hierarchy children, skipping IDs that do not
// resolve to a node and IDs already claimed by another subtree.
func (l *layouter) children(id string) []string {
	var out []string
	for _, c := range l.g.HierarchyChildren(id) {
		if _, ok := l.g.Node(c); !ok {
			continue
		}
		if l.visited[c] {
			continue
		}
		l.visited[c] = true
		out = append(out, c)
	}
	return out
}

// crossExtent is the node's footprint along the sibling axis.
func (l *layouter) crossExtent(n *graph.Node) float64 {
	if l.o == layout.LeftToRight {
		return n.Footprint.Height
	}
	return n.Footprint.Width
}

// depthExtent is the node's footprint along the hierarchy-depth axis.
func (l *layouter) depthExtent(n *graph.Node) float64 {
	if l.o == layout.LeftToRight {
		return n.Footprint.Width
	}
	return n.Footprint.Height
}

// slot is the sibling-axis space a single node claims for itself.
func (l *layouter) slot(n *graph.Node) float64 {
	return math.Max(l.cfg.NodeSpacing, l.crossExtent(n)+slotMargin)
}

// measure computes subtree cross-axis extents post-order: a subtree claims
// the larger of the node's own slot and its children's total extent.
func (l *layouter) measure(id string) float64 {
	n, _ := l.g.Node(id)
	l.visited[id] = true

	own := l.slot(n)
	total := 0.0
	for i, c := range l.children(id) {
		if i > 0 {
			total += l.cfg.NodeSpacing
		}
		total += l.measure(c)
	}

	ext := math.Max(own, total)
	l.extents[id] = ext
	return ext
}

// assign places the subtree rooted at id into [crossStart, crossStart+extent]
// at the given depth coordinate. Children are placed first; the node is then
// centered over the midpoint of its first and last child.
func (l *layouter) assign(id string, crossStart, depth float64) {
	n, _ := l.g.Node(id)
	l.visited[id] = true

	ext := l.extents[id]
	children := l.children(id)

	var cross float64
	if len(children) == 0 {
		cross = crossStart + ext/2 - l.crossExtent(n)/2
	} else {
		total := -l.cfg.NodeSpacing
		for _, c := range children {
			total += l.extents[c] + l.cfg.NodeSpacing
		}

		childDepth := depth + l.depthExtent(n) + l.cfg.LevelSpacing
		cursor := crossStart + (ext-total)/2
		for _, c := range children {
			l.assign(c, cursor, childDepth)
			cursor += l.extents[c] + l.cfg.NodeSpacing
		}

		first := l.crossOf(children[0])
		last := l.crossOf(children[len(children)-1])
		cross = (first + last) / 2
	}

	if l.o == layout.LeftToRight {
		l.pos[id] = graph.Position{X: depth, Y: cross}
	} else {
		l.pos[id] = graph.Position{X: cross, Y: depth}
	}
}

func (l *layouter) crossOf(id string) float64 {
	if l.o == layout.LeftToRight {
		return l.pos[id].Y
	}
	return l.pos[id].X
}

