package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source
	// node does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Footprint is the rendered extent of a node, supplied by the caller (for
// example from text measurement) and opaque to the engine.
type Footprint struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Position is an engine-assigned coordinate pair. Layouts place the top-left
// corner of a node's footprint at its position.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node represents one model element. Nodes are immutable once added: layout
// results are returned as separate position maps, never written back.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID            string     // Unique identifier
	DisplayName   string     // Human-readable label (defaults to ID)
	Symbol        SymbolType // Resolved symbol type (never empty after AddNode)
	FileExtension string     // Source file extension, fallback signal for inference
	Footprint     Footprint  // Rendered extent, supplied by the caller
}

// Label returns the display name if set, otherwise the ID.
func (n Node) Label() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.ID
}

// Edge represents a directed, typed connection. Source → Target is the
// canonical downstream direction; for hierarchy relations the source is the
// parent.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Relation RelationType
}

// Neighbor is one adjacency entry: the node on the far side of an edge
// together with the relation that connects it.
type Neighbor struct {
	ID       string
	Relation RelationType
}

// Graph is the in-memory container shared by all layout and traversal
// components. It is built once per render cycle from the DSL parser's output
// and discarded on the next data refresh.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order, for deterministic iteration
	edges    []Edge
	outgoing map[string][]Neighbor // source → targets
	incoming map[string][]Neighbor // target → sources
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]Neighbor),
		incoming: make(map[string][]Neighbor),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if the ID is already present. A node with an
// empty or unrecognized Symbol is resolved through InferSymbolType so that
// every stored node carries a usable type.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Symbol == "" || !knownSymbols[n.Symbol] {
		n.Symbol = InferSymbolType(string(n.Symbol), n.Label(), n.FileExtension)
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Returns
// ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is missing;
// callers assembling graphs from parser output typically drop such edges
// with a warning rather than aborting (see graphio.Build).
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], Neighbor{ID: e.Target, Relation: e.Relation})
	g.incoming[e.Target] = append(g.incoming[e.Target], Neighbor{ID: e.Source, Relation: e.Relation})
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs; treat them as read-only.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Outgoing returns the neighbors reachable by following edges out of the
// node ("downstream"). The returned slice is a read-only view.
func (g *Graph) Outgoing(id string) []Neighbor { return g.outgoing[id] }

// Incoming returns the neighbors with edges pointing at the node
// ("upstream"). The returned slice is a read-only view.
func (g *Graph) Incoming(id string) []Neighbor { return g.incoming[id] }

// HierarchyChildren returns the IDs of the node's children under the
// collapsed hierarchy adjacency (childof/parentof/hierarchy relations only),
// in edge insertion order.
func (g *Graph) HierarchyChildren(id string) []string {
	var children []string
	for _, nb := range g.outgoing[id] {
		if nb.Relation.IsHierarchy() {
			children = append(children, nb.ID)
		}
	}
	return children
}

// HierarchyParent returns the ID of the node's first hierarchy parent and
// true, or "" and false for a root.
func (g *Graph) HierarchyParent(id string) (string, bool) {
	for _, nb := range g.incoming[id] {
		if nb.Relation.IsHierarchy() {
			return nb.ID, true
		}
	}
	return "", false
}

// Roots returns the IDs of nodes with no hierarchy parent, in insertion
// order. An empty result on a non-empty graph means every node claims a
// parent - a shape the tree layout treats as fatal.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if _, ok := g.HierarchyParent(id); !ok {
			roots = append(roots, id)
		}
	}
	return roots
}
