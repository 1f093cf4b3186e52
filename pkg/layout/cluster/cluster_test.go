package cluster

import (
	"math"
	"testing"

	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/layout"
)

func buildGraph(t *testing.T, nodes []graph.Node, edges []graph.Edge) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.Source, e.Target, err)
		}
	}
	return g
}

func dist(a, b graph.Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestLayout_AllNodesPlaced(t *testing.T) {
	g := buildGraph(t,
		[]graph.Node{
			{ID: "pl", Symbol: graph.SymbolProductLine},
			{ID: "fs", Symbol: graph.SymbolFeatureSet},
			{ID: "f1", Symbol: graph.SymbolFeature},
			{ID: "f2", Symbol: graph.SymbolFeature},
			{ID: "cfg", Symbol: graph.SymbolConfig},
			{ID: "cs", Symbol: graph.SymbolConfigSet},
			{ID: "stray", Symbol: graph.SymbolBlock},
		},
		[]graph.Edge{
			{Source: "pl", Target: "fs", Relation: graph.RelationChildOf},
			{Source: "fs", Target: "f1", Relation: graph.RelationChildOf},
			{Source: "fs", Target: "f2", Relation: graph.RelationChildOf},
		},
	)

	res := Layout(g, layout.DefaultConfig())
	if len(res.Positions) != g.NodeCount() {
		t.Errorf("len(Positions) = %d, want %d (every node placed)", len(res.Positions), g.NodeCount())
	}
}

func TestLayout_ConfigColumn(t *testing.T) {
	g := buildGraph(t,
		[]graph.Node{
			{ID: "c1", Symbol: graph.SymbolConfig},
			{ID: "cs", Symbol: graph.SymbolConfigSet},
			{ID: "c2", Symbol: graph.SymbolConfig},
		},
		nil,
	)

	res := Layout(g, layout.DefaultConfig())

	// Configset headers stack first, then configs in insertion order.
	if got := res.Positions["cs"]; got.X != configColumnX || got.Y != 0 {
		t.Errorf("cs = %v, want {%v 0}", got, configColumnX)
	}
	if got := res.Positions["c1"]; got.X != configColumnX || got.Y != configSpacing {
		t.Errorf("c1 = %v, want {%v %v}", got, configColumnX, configSpacing)
	}
	if got := res.Positions["c2"]; got.X != configColumnX || got.Y != 2*configSpacing {
		t.Errorf("c2 = %v, want {%v %v}", got, configColumnX, 2*configSpacing)
	}
}

func TestLayout_CenterLevels(t *testing.T) {
	g := buildGraph(t,
		[]graph.Node{
			{ID: "pl", Symbol: graph.SymbolProductLine},
			{ID: "fs", Symbol: graph.SymbolFeatureSet},
			{ID: "f", Symbol: graph.SymbolFeature},
		},
		[]graph.Edge{
			{Source: "pl", Target: "fs", Relation: graph.RelationChildOf},
			{Source: "fs", Target: "f", Relation: graph.RelationChildOf},
		},
	)

	cfg := layout.DefaultConfig()
	res := Layout(g, cfg)

	pl := res.Positions["pl"]
	if pl.X != centerColumnX || pl.Y != 0 {
		t.Errorf("pl = %v, want {%v 0}", pl, centerColumnX)
	}

	fs := res.Positions["fs"]
	if fs.Y != 1*cfg.VerticalSpacing {
		t.Errorf("fs.Y = %v, want %v (featureset level)", fs.Y, cfg.VerticalSpacing)
	}
}

func TestLayout_SatellitePairSymmetric(t *testing.T) {
	g := buildGraph(t,
		[]graph.Node{
			{ID: "fs", Symbol: graph.SymbolFeatureSet},
			{ID: "a", Symbol: graph.SymbolFeature},
			{ID: "b", Symbol: graph.SymbolFeature},
		},
		[]graph.Edge{
			{Source: "fs", Target: "a", Relation: graph.RelationChildOf},
			{Source: "fs", Target: "b", Relation: graph.RelationChildOf},
		},
	)

	cfg := layout.DefaultConfig()
	res := Layout(g, cfg)

	anchor := res.Positions["fs"]
	a, b := res.Positions["a"], res.Positions["b"]

	radius := clamp(cfg.ClusterRadius+2*3, 35, 50)
	if got := dist(anchor, a); math.Abs(got-radius) > 1e-9 {
		t.Errorf("dist(fs, a) = %v, want %v", got, radius)
	}
	if got := dist(anchor, b); math.Abs(got-radius) > 1e-9 {
		t.Errorf("dist(fs, b) = %v, want %v", got, radius)
	}
	// Mirror arcs at -0.3pi and +0.3pi straddle the anchor.
	if math.Abs((a.X-anchor.X)+(b.X-anchor.X)) > 1e-9 {
		t.Errorf("satellites x = (%v, %v), want symmetric around %v", a.X, b.X, anchor.X)
	}
}

func TestLayout_SatelliteCircle(t *testing.T) {
	nodes := []graph.Node{{ID: "fs", Symbol: graph.SymbolFeatureSet}}
	var edges []graph.Edge
	children := []string{"c1", "c2", "c3", "c4", "c5"}
	for _, c := range children {
		nodes = append(nodes, graph.Node{ID: c, Symbol: graph.SymbolFeature})
		edges = append(edges, graph.Edge{Source: "fs", Target: c, Relation: graph.RelationChildOf})
	}
	g := buildGraph(t, nodes, edges)

	res := Layout(g, layout.DefaultConfig())
	anchor := res.Positions["fs"]

	for _, c := range children {
		d := dist(anchor, res.Positions[c])
		if d < 30 {
			t.Errorf("dist(fs, %s) = %v, want an orbit well clear of the center", c, d)
		}
	}
}

func TestLayout_OrphanRow(t *testing.T) {
	g := buildGraph(t,
		[]graph.Node{
			{ID: "lonely1", Symbol: graph.SymbolUnknown},
			{ID: "lonely2", Symbol: graph.SymbolUnknown},
		},
		nil,
	)

	cfg := layout.DefaultConfig()
	res := Layout(g, cfg)

	rowY := float64(graph.SymbolUnknown.LevelRank()+1)*cfg.VerticalSpacing + orphanRowGap
	for id, p := range res.Positions {
		if p.Y != rowY {
			t.Errorf("%s.Y = %v, want %v", id, p.Y, rowY)
		}
	}

	a, b := res.Positions["lonely1"], res.Positions["lonely2"]
	if dist(a, b) < orphanStrategy.MinSeparation {
		t.Errorf("dist(lonely1, lonely2) = %v, want >= %v", dist(a, b), orphanStrategy.MinSeparation)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	build := func() layout.Result {
		g := buildGraph(t,
			[]graph.Node{
				{ID: "pl", Symbol: graph.SymbolProductLine},
				{ID: "fs1", Symbol: graph.SymbolFeatureSet},
				{ID: "fs2", Symbol: graph.SymbolFeatureSet},
				{ID: "f1", Symbol: graph.SymbolFeature},
				{ID: "f2", Symbol: graph.SymbolFeature},
				{ID: "f3", Symbol: graph.SymbolFeature},
				{ID: "cfg", Symbol: graph.SymbolConfig},
			},
			[]graph.Edge{
				{Source: "pl", Target: "fs1", Relation: graph.RelationChildOf},
				{Source: "pl", Target: "fs2", Relation: graph.RelationChildOf},
				{Source: "fs1", Target: "f1", Relation: graph.RelationChildOf},
				{Source: "fs1", Target: "f2", Relation: graph.RelationChildOf},
				{Source: "fs2", Target: "f3", Relation: graph.RelationChildOf},
			},
		)
		return Layout(g, layout.DefaultConfig())
	}

	first := build()
	second := build()
	for id, want := range first.Positions {
		if got := second.Positions[id]; got != want {
			t.Errorf("Positions[%s] = %v, want %v", id, got, want)
		}
	}
}

func TestFanOffset(t *testing.T) {
	want := []float64{0, 1, -1, 2, -2, 3}
	for i, w := range want {
		if got := fanOffset(i); got != w {
			t.Errorf("fanOffset(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestPlaceWithConflictAvoidance_NoConflictKeepsCandidate(t *testing.T) {
	anchor := graph.Position{X: 100, Y: 100}
	got := placeWithConflictAvoidance(anchor, 40, 0, nil, soloSatelliteStrategy)
	want := graph.Position{X: 100, Y: 140} // zero angle points straight down
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("placeWithConflictAvoidance() = %v, want %v", got, want)
	}
}

func TestPlaceWithConflictAvoidance_MovesOffConflict(t *testing.T) {
	placed := map[string]graph.Position{
		"blocker": {X: 0, Y: 100},
	}
	got := placeWithConflictAvoidance(graph.Position{}, 100, 0, placed, circleSatelliteStrategy)
	if d := dist(got, placed["blocker"]); d < circleSatelliteStrategy.MinSeparation {
		t.Errorf("dist to blocker = %v, want >= %v", d, circleSatelliteStrategy.MinSeparation)
	}
}
