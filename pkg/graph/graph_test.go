package graph

import (
	"errors"
	"testing"
)

func buildGraph(t *testing.T, nodes []Node, edges []Edge) *Graph {
	t.Helper()
	g := New()
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

func TestAddNode_Errors(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}

	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddNode_InfersSymbol(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "tc1", DisplayName: "Brake Testcase"})
	n, _ := g.Node("tc1")
	if n.Symbol != SymbolTestCase {
		t.Errorf("Symbol = %v, want %v", n.Symbol, SymbolTestCase)
	}

	// Declared unknown strings are re-inferred, not stored.
	_ = g.AddNode(Node{ID: "x", Symbol: "garbage", DisplayName: "Main ProductLine"})
	n, _ = g.Node("x")
	if n.Symbol != SymbolProductLine {
		t.Errorf("Symbol = %v, want %v", n.Symbol, SymbolProductLine)
	}
}

func TestAddEdge_UnknownEndpoints(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})

	if err := g.AddEdge(Edge{Source: "ghost", Target: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{Source: "a", Target: "ghost"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge = %v, want ErrUnknownTargetNode", err)
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	g := buildGraph(t, []Node{{ID: "z"}, {ID: "a"}, {ID: "m"}}, nil)

	want := []string{"z", "a", "m"}
	got := g.NodeIDs()
	if len(got) != len(want) {
		t.Fatalf("NodeIDs() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NodeIDs()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAdjacency(t *testing.T) {
	g := buildGraph(t,
		[]Node{{ID: "p"}, {ID: "c1"}, {ID: "c2"}, {ID: "r"}},
		[]Edge{
			{Source: "p", Target: "c1", Relation: RelationChildOf},
			{Source: "p", Target: "c2", Relation: RelationHierarchy},
			{Source: "c1", Target: "r", Relation: RelationSatisfies},
		},
	)

	out := g.Outgoing("p")
	if len(out) != 2 {
		t.Fatalf("Outgoing(p) len = %d, want 2", len(out))
	}
	if out[0].ID != "c1" || out[1].ID != "c2" {
		t.Errorf("Outgoing(p) = %v, want c1 then c2", out)
	}

	in := g.Incoming("r")
	if len(in) != 1 || in[0].ID != "c1" || in[0].Relation != RelationSatisfies {
		t.Errorf("Incoming(r) = %v, want [{c1 satisfies}]", in)
	}
}

func TestHierarchyChildren_OnlyHierarchyRelations(t *testing.T) {
	g := buildGraph(t,
		[]Node{{ID: "p"}, {ID: "c"}, {ID: "r"}},
		[]Edge{
			{Source: "p", Target: "c", Relation: RelationChildOf},
			{Source: "p", Target: "r", Relation: RelationSatisfies},
		},
	)

	children := g.HierarchyChildren("p")
	if len(children) != 1 || children[0] != "c" {
		t.Errorf("HierarchyChildren(p) = %v, want [c]", children)
	}
}

func TestRoots(t *testing.T) {
	g := buildGraph(t,
		[]Node{{ID: "root1"}, {ID: "root2"}, {ID: "child"}},
		[]Edge{{Source: "root1", Target: "child", Relation: RelationChildOf}},
	)

	roots := g.Roots()
	if len(roots) != 2 {
		t.Fatalf("Roots() len = %d, want 2", len(roots))
	}
	if roots[0] != "root1" || roots[1] != "root2" {
		t.Errorf("Roots() = %v, want [root1 root2]", roots)
	}
}

func TestRoots_CycleHasNone(t *testing.T) {
	g := buildGraph(t,
		[]Node{{ID: "a"}, {ID: "b"}},
		[]Edge{
			{Source: "a", Target: "b", Relation: RelationChildOf},
			{Source: "b", Target: "a", Relation: RelationChildOf},
		},
	)

	if roots := g.Roots(); len(roots) != 0 {
		t.Errorf("Roots() = %v, want empty for a hierarchy cycle", roots)
	}
}

func TestNode_Label(t *testing.T) {
	n := Node{ID: "id1"}
	if n.Label() != "id1" {
		t.Errorf("Label() = %s, want id1", n.Label())
	}
	n.DisplayName = "Pretty"
	if n.Label() != "Pretty" {
		t.Errorf("Label() = %s, want Pretty", n.Label())
	}
}
