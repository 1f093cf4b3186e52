// Package cluster implements the type-leveled radial layout.
//
// Configuration nodes are split off into a left-hand column; the remaining
// nodes are leveled by the canonical symbol-type ordering. Nodes with
// hierarchy children become cluster centers spread along their level, and
// their children orbit them as satellites in arcs or circles sized by child
// count. Anything unreachable lands in an overflow row below the hierarchy.
//
// Placement conflicts are resolved by a single bounded retry procedure (see
// conflict.go) shared by centers, satellites, and orphans: the layout is
// best-effort and never fails because residual overlap remains.
package cluster

import (
	"math"
	"slices"

	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/layout"
)

const (
	// centerColumnX is the x-coordinate the main hierarchy spreads around.
	centerColumnX = 0.0

	// configColumnX is the fixed column for configuration-domain nodes,
	// left of the main layout.
	configColumnX = -350.0

	// configSpacing is the vertical step of the config column stack.
	configSpacing = 100.0

	// orphanSpacing is the horizontal step of the overflow row.
	orphanSpacing = 120.0

	// orphanRowGap separates the overflow row from the lowest level.
	orphanRowGap = 100.0

	// centerConflictDistance is the distance at which a proposed cluster
	// center counts as colliding with an already-placed node.
	centerConflictDistance = 50.0
)

// Layout computes positions for the full node/edge set. Unlike the tree
// layout it accepts any shape: no root is required and every node receives
// a position.
func Layout(g *graph.Graph, cfg layout.Config) layout.Result {
	l := &clusterer{
		g:   g,
		cfg: cfg,
		pos: make(map[string]graph.Position),
	}

	configNodes, mainNodes := splitDomains(g)
	l.placeConfigColumn(configNodes)

	centers := l.placeCenters(mainNodes)
	for _, c := range centers {
		l.placeSatellites(c)
	}
	l.placeOrphans(mainNodes)

	return layout.Result{
		Positions: l.pos,
		Bounds:    layout.BoundsOf(g, l.pos),
	}
}

type clusterer struct {
	g   *graph.Graph
	cfg layout.Config
	pos map[string]graph.Position
}

// splitDomains separates configuration-domain nodes from the main
// traceability hierarchy, preserving insertion order in both halves.
func splitDomains(g *graph.Graph) (config, main []*graph.Node) {
	for _, n := range g.Nodes() {
		if n.Symbol.IsConfigDomain() {
			config = append(config, n)
		} else {
			main = append(main, n)
		}
	}
	return config, main
}

// placeConfigColumn stacks configuration nodes vertically at a fixed
// negative-x column, configset headers first.
func (l *clusterer) placeConfigColumn(nodes []*graph.Node) {
	ordered := make([]*graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Symbol == graph.SymbolConfigSet {
			ordered = append(ordered, n)
		}
	}
	for _, n := range nodes {
		if n.Symbol != graph.SymbolConfigSet {
			ordered = append(ordered, n)
		}
	}

	y := 0.0
	for _, n := range ordered {
		l.pos[n.ID] = graph.Position{X: configColumnX, Y: y}
		y += configSpacing
	}
}

// clusterSpacing sizes the horizontal gap between cluster centers by how
// many satellites each must accommodate.
func clusterSpacing(childCount int) float64 {
	return clamp(float64(childCount)*40, 250, 350)
}

// placeCenters places every main-domain node with hierarchy children along
// its type level and returns them in placement order.
func (l *clusterer) placeCenters(nodes []*graph.Node) []*graph.Node {
	byRank := make(map[int][]*graph.Node)
	var ranks []int
	for _, n := range nodes {
		if len(l.g.HierarchyChildren(n.ID)) == 0 {
			continue
		}
		r := n.Symbol.LevelRank()
		if _, seen := byRank[r]; !seen {
			ranks = append(ranks, r)
		}
		byRank[r] = append(byRank[r], n)
	}
	slices.Sort(ranks)

	var centers []*graph.Node
	maxOffset := l.cfg.MaxLayoutWidth / 3

	for _, rank := range ranks {
		level := byRank[rank]
		levelY := float64(rank) * l.cfg.VerticalSpacing

		// Horizontal order within a level follows the type ordering, with
		// the per-type index spreading same-typed centers around the column.
		typeCount := make(map[graph.SymbolType]int)
		for _, n := range level {
			typeCount[n.Symbol]++
		}
		slices.SortStableFunc(level, func(a, b *graph.Node) int {
			return a.Symbol.LevelRank() - b.Symbol.LevelRank()
		})

		typeIndex := make(map[graph.SymbolType]int)
		for _, n := range level {
			i := typeIndex[n.Symbol]
			typeIndex[n.Symbol]++

			mid := float64(typeCount[n.Symbol]-1) / 2
			offset := (float64(i) - mid) * clusterSpacing(len(l.g.HierarchyChildren(n.ID)))
			candidate := graph.Position{
				X: centerColumnX + clamp(offset, -maxOffset, maxOffset),
				Y: levelY,
			}

			if conflicts(candidate, l.pos, centerConflictDistance) {
				candidate = placeWithConflictAvoidance(candidate, 0, 0, l.pos, centerStrategy)
			}
			l.pos[n.ID] = candidate
			centers = append(centers, n)
		}
	}
	return centers
}

// satelliteRadius scales the base orbit with the cluster size, bounded to
// 35-50 units.
func (l *clusterer) satelliteRadius(childCount int) float64 {
	base := l.cfg.ClusterRadius
	if base <= 0 {
		base = layout.DefaultClusterRadius
	}
	return clamp(base+float64(childCount)*3, 35, 50)
}

// placeSatellites arranges a center's not-yet-placed children around the
// center's actual resolved position, never the pre-conflict candidate.
func (l *clusterer) placeSatellites(center *graph.Node) {
	anchor := l.pos[center.ID]

	var children []string
	for _, c := range l.g.HierarchyChildren(center.ID) {
		if _, placed := l.pos[c]; placed {
			continue
		}
		if _, ok := l.g.Node(c); !ok {
			continue
		}
		children = append(children, c)
	}

	count := len(children)
	radius := l.satelliteRadius(count)

	switch count {
	case 0:
	case 1:
		l.pos[children[0]] = placeWithConflictAvoidance(anchor, radius, 0, l.pos, soloSatelliteStrategy)
	case 2:
		l.pos[children[0]] = placeWithConflictAvoidance(anchor, radius, -0.3*math.Pi, l.pos, pairSatelliteStrategy)
		l.pos[children[1]] = placeWithConflictAvoidance(anchor, radius, 0.3*math.Pi, l.pos, pairSatelliteStrategy)
	default:
		step := 2 * math.Pi / float64(count)
		for i, c := range children {
			// Mild radius jitter breaks up the mechanical circle.
			jittered := radius * (1 + float64(i%3)*0.1)
			l.pos[c] = placeWithConflictAvoidance(anchor, jittered, float64(i)*step, l.pos, circleSatelliteStrategy)
		}
	}
}

// placeOrphans puts every remaining main-domain node in an overflow row
// below the hierarchy, fanning out around the center column and checking
// conflicts against the entire placed set.
func (l *clusterer) placeOrphans(nodes []*graph.Node) {
	maxRank := 0
	for _, n := range nodes {
		if r := n.Symbol.LevelRank(); r > maxRank {
			maxRank = r
		}
	}
	rowY := float64(maxRank+1)*l.cfg.VerticalSpacing + orphanRowGap

	i := 0
	for _, n := range nodes {
		if _, placed := l.pos[n.ID]; placed {
			continue
		}
		anchor := graph.Position{
			X: centerColumnX + fanOffset(i)*orphanSpacing,
			Y: rowY,
		}
		l.pos[n.ID] = placeWithConflictAvoidance(anchor, 0, 0, l.pos, orphanStrategy)
		i++
	}
}

// fanOffset yields 0, +1, -1, +2, -2, ... so the overflow row grows
// symmetrically around the center column.
func fanOffset(i int) float64 {
	k := float64((i + 1) / 2)
	if i%2 == 0 {
		return -k
	}
	return k
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
