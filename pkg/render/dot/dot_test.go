package dot

import (
	"strings"
	"testing"

	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
)

func fixture(t *testing.T) (*graph.Graph, graphio.Layout) {
	t.Helper()
	g := graph.New()
	nodes := []graph.Node{
		{ID: "P", DisplayName: "Main ProductLine", Footprint: graph.Footprint{Width: 80, Height: 40}},
		{ID: "F", DisplayName: "Feature One", Symbol: graph.SymbolFeature, Footprint: graph.Footprint{Width: 80, Height: 40}},
		{ID: "C", DisplayName: "c_variant", Symbol: graph.SymbolConfig, Footprint: graph.Footprint{Width: 80, Height: 40}},
		{ID: "FS", DisplayName: "Brakes FeatureSet", Footprint: graph.Footprint{Width: 80, Height: 40}},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "P", Target: "F", Relation: graph.RelationChildOf},
		{ID: "e2", Source: "F", Target: "C", Relation: graph.RelationSatisfies},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}

	positions := map[string]graph.Position{
		"P":  {X: 100, Y: 0},
		"F":  {X: 60, Y: 130},
		"C":  {X: -350, Y: 0},
		"FS": {X: 300, Y: 130},
	}
	return g, graphio.NewLayout(g, positions, "tree", "top-to-bottom")
}

func TestToDOT_PinnedNeatoPositions(t *testing.T) {
	g, lay := fixture(t)
	out := ToDOT(g, lay, Options{})

	if !strings.Contains(out, "layout=neato") {
		t.Error("missing layout=neato directive")
	}
	// P: center (140, 20), scaled by 72 and y negated.
	if !strings.Contains(out, `pos="1.944,-0.278!"`) {
		t.Errorf("missing pinned position for P in:\n%s", out)
	}
	if !strings.Contains(out, `"P" [`) {
		t.Error("missing node statement for P")
	}
	if !strings.Contains(out, `label="Main ProductLine"`) {
		t.Error("missing display-name label")
	}
}

func TestToDOT_EdgeStyling(t *testing.T) {
	g, lay := fixture(t)
	out := ToDOT(g, lay, Options{})

	if !strings.Contains(out, `"P" -> "F";`) {
		t.Error("hierarchy edge should carry no attributes")
	}
	if !strings.Contains(out, `"F" -> "C" [style=dashed, label="satisfies", fontsize=9];`) {
		t.Errorf("logical edge missing dashed style in:\n%s", out)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g, lay := fixture(t)
	out := ToDOT(g, lay, Options{Detailed: true})

	if !strings.Contains(out, "Feature One\\nfeature") {
		t.Errorf("detailed label missing symbol type in:\n%s", out)
	}
}

func TestToDOT_SelectionAndHighlight(t *testing.T) {
	g, lay := fixture(t)
	out := ToDOT(g, lay, Options{
		Selected:  "P",
		Highlight: map[string]bool{"F": true},
	})

	pLine := lineFor(out, `"P" [`)
	if !strings.Contains(pLine, `fillcolor="#f9d71c"`) || !strings.Contains(pLine, "penwidth=2") {
		t.Errorf("selected node styling missing: %s", pLine)
	}

	fLine := lineFor(out, `"F" [`)
	if !strings.Contains(fLine, `fillcolor="#cce5ff"`) {
		t.Errorf("highlight styling missing: %s", fLine)
	}
}

func TestToDOT_DomainStyling(t *testing.T) {
	g, lay := fixture(t)
	out := ToDOT(g, lay, Options{})

	cLine := lineFor(out, `"C" [`)
	if !strings.Contains(cLine, `fillcolor="#e8e8e8"`) {
		t.Errorf("config domain styling missing: %s", cLine)
	}

	fsLine := lineFor(out, `"FS" [`)
	if !strings.Contains(fsLine, "dashed") {
		t.Errorf("set node styling missing: %s", fsLine)
	}
}

func lineFor(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, prefix) {
			return line
		}
	}
	return ""
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100pt" height="50pt" viewBox="-10.5 -20.25 100.00 50.00">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}
	if !strings.Contains(out, "<g></g>") {
		t.Error("body content lost")
	}
}

func TestNormalizeViewBox_NoViewBox(t *testing.T) {
	in := []byte("<svg><g/></svg>")
	if got := string(normalizeViewBox(in)); got != "<svg><g/></svg>" {
		t.Errorf("normalizeViewBox() = %q, want unchanged", got)
	}
}
