package graphio

import (
	"strings"
	"testing"

	"github.com/specmap/specmap/pkg/graph"
)

func TestBuild_DropsDanglingEdges(t *testing.T) {
	doc := Document{
		Nodes: []NodeDoc{{ID: "a"}, {ID: "b"}},
		Edges: []EdgeDoc{
			{Source: "a", Target: "b", Relation: "childof"},
			{Source: "a", Target: "ghost", Relation: "satisfies"},
			{Source: "ghost", Target: "b", Relation: "satisfies"},
		},
	}

	g, err := Build(doc, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBuild_DuplicateNodeKeepsFirst(t *testing.T) {
	doc := Document{
		Nodes: []NodeDoc{
			{ID: "a", DisplayName: "First"},
			{ID: "a", DisplayName: "Second"},
		},
	}

	g, err := Build(doc, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
	}
	n, _ := g.Node("a")
	if n.DisplayName != "First" {
		t.Errorf("DisplayName = %s, want First", n.DisplayName)
	}
}

func TestBuild_AssignsEdgeIDs(t *testing.T) {
	doc := Document{
		Nodes: []NodeDoc{{ID: "a"}, {ID: "b"}},
		Edges: []EdgeDoc{
			{Source: "a", Target: "b", Relation: "childof"},
			{ID: "e-7", Source: "b", Target: "a", Relation: "satisfies"},
		},
	}

	g, err := Build(doc, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	edges := g.Edges()
	if edges[0].ID == "" {
		t.Error("edge without an ID should get one assigned")
	}
	if edges[1].ID != "e-7" {
		t.Errorf("edge ID = %s, want e-7 (explicit IDs are preserved)", edges[1].ID)
	}
}

func TestBuild_LegacyTypeAlias(t *testing.T) {
	doc := Document{
		Nodes: []NodeDoc{{ID: "a"}, {ID: "b"}},
		Edges: []EdgeDoc{{Source: "a", Target: "b", LegacyType: "listedfor"}},
	}

	g, err := Build(doc, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Edges()[0].Relation != graph.RelationListedFor {
		t.Errorf("Relation = %v, want %v", g.Edges()[0].Relation, graph.RelationListedFor)
	}
}

func TestBuild_RelationWinsOverLegacyType(t *testing.T) {
	e := EdgeDoc{Relation: "satisfies", LegacyType: "childof"}
	if got := e.relation(); got != graph.RelationSatisfies {
		t.Errorf("relation() = %v, want %v", got, graph.RelationSatisfies)
	}
}

func TestReadGraph_JSON(t *testing.T) {
	input := `{
		"nodes": [
			{"id": "pl1", "label": "Main ProductLine"},
			{"id": "fs1", "label": "Brakes FeatureSet"}
		],
		"edges": [
			{"source": "pl1", "target": "fs1", "relation": "childof"}
		]
	}`

	g, err := ReadGraph(strings.NewReader(input), false, nil)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", g.NodeCount(), g.EdgeCount())
	}
	n, _ := g.Node("pl1")
	if n.Symbol != graph.SymbolProductLine {
		t.Errorf("Symbol = %v, want %v", n.Symbol, graph.SymbolProductLine)
	}
}

func TestReadGraph_YAML(t *testing.T) {
	input := `nodes:
  - id: pl1
    label: Main ProductLine
  - id: fs1
    type: featureset
edges:
  - source: pl1
    target: fs1
    relation: childof
`

	g, err := ReadGraph(strings.NewReader(input), true, nil)
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", g.NodeCount(), g.EdgeCount())
	}
	n, _ := g.Node("fs1")
	if n.Symbol != graph.SymbolFeatureSet {
		t.Errorf("Symbol = %v, want %v", n.Symbol, graph.SymbolFeatureSet)
	}
}

func TestReadGraph_InvalidJSON(t *testing.T) {
	if _, err := ReadGraph(strings.NewReader("{not json"), false, nil); err == nil {
		t.Error("ReadGraph should fail on malformed JSON")
	}
}

func TestIsYAMLPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"graph.yaml", true},
		{"graph.YML", true},
		{"graph.json", false},
		{"graph", false},
	}
	for _, tt := range tests {
		if got := isYAMLPath(tt.path); got != tt.want {
			t.Errorf("isYAMLPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
