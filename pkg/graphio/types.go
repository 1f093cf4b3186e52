package graphio

import (
	"io"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/specmap/specmap/pkg/graph"
)

// Document is the wire format for a graph as produced by the DSL parser.
type Document struct {
	Nodes []NodeDoc `json:"nodes" yaml:"nodes"`
	Edges []EdgeDoc `json:"edges" yaml:"edges"`
}

// NodeDoc is one serialized node. Type may be any string: values outside
// the closed symbol set are resolved by fallback inference.
type NodeDoc struct {
	ID            string          `json:"id" yaml:"id"`
	DisplayName   string          `json:"label,omitempty" yaml:"label,omitempty"`
	Type          string          `json:"type,omitempty" yaml:"type,omitempty"`
	FileExtension string          `json:"ext,omitempty" yaml:"ext,omitempty"`
	Footprint     graph.Footprint `json:"footprint,omitempty" yaml:"footprint,omitempty"`
}

// EdgeDoc is one serialized edge. The relation is canonically carried under
// "relation"; the legacy "type" key is accepted as an alias and mapped onto
// Relation at this boundary only.
type EdgeDoc struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Source     string `json:"source" yaml:"source"`
	Target     string `json:"target" yaml:"target"`
	Relation   string `json:"relation,omitempty" yaml:"relation,omitempty"`
	LegacyType string `json:"type,omitempty" yaml:"type,omitempty"`
}

// relation resolves the canonical relation, honoring the legacy alias.
func (e EdgeDoc) relation() graph.RelationType {
	if e.Relation != "" {
		return graph.RelationType(e.Relation)
	}
	return graph.RelationType(e.LegacyType)
}

// Build assembles an in-memory graph from a document.
//
// Degenerate input degrades gracefully: duplicate node IDs keep the first
// occurrence, edges whose endpoints are missing are dropped, and both are
// logged at warn level. Edges without an ID are assigned a fresh UUID so
// downstream consumers can always address them. Build never fails for shape
// reasons; the only hard requirement is that nodes have non-empty IDs.
func Build(doc Document, logger *charmlog.Logger) (*graph.Graph, error) {
	if logger == nil {
		logger = charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	}

	g := graph.New()
	for _, nd := range doc.Nodes {
		n := graph.Node{
			ID:            nd.ID,
			DisplayName:   nd.DisplayName,
			Symbol:        graph.InferSymbolType(nd.Type, nd.DisplayName, nd.FileExtension),
			FileExtension: nd.FileExtension,
			Footprint:     nd.Footprint,
		}
		switch err := g.AddNode(n); err {
		case nil:
		case graph.ErrDuplicateNodeID:
			logger.Warn("duplicate node ID, keeping first occurrence", "id", nd.ID)
		default:
			return nil, err
		}
	}

	dropped := 0
	for _, ed := range doc.Edges {
		e := graph.Edge{
			ID:       ed.ID,
			Source:   ed.Source,
			Target:   ed.Target,
			Relation: ed.relation(),
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := g.AddEdge(e); err != nil {
			dropped++
			logger.Warn("dropping dangling edge",
				"source", ed.Source,
				"target", ed.Target,
				"relation", e.Relation)
		}
	}
	if dropped > 0 {
		logger.Warn("dropped dangling edges", "count", dropped, "kept", g.EdgeCount())
	}

	return g, nil
}

// FromGraph converts an in-memory graph back to its document form with
// nodes and edges in insertion order.
func FromGraph(g *graph.Graph) Document {
	doc := Document{
		Nodes: make([]NodeDoc, 0, g.NodeCount()),
		Edges: make([]EdgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:            n.ID,
			DisplayName:   n.DisplayName,
			Type:          string(n.Symbol),
			FileExtension: n.FileExtension,
			Footprint:     n.Footprint,
		})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Relation: string(e.Relation),
		})
	}
	return doc
}
