// Package traverse implements the directional impact traversal.
//
// The impact chain of a node is the union of everything it transitively
// depends on (upstream, following incoming edges) and everything it
// transitively impacts (downstream, following outgoing edges). The two
// walks are independent depth-first searches with separate visited sets,
// and the selected node itself is excluded from the result.
//
// Organizational set nodes (featureset, reqset, testset and friends) are
// included when reached but never expanded: their members are the
// semantically related items, so walking through a set to its other members
// would flood the chain with false positives. The one sanctioned crossing
// is a featureset's listedfor edge, which links a feature container to the
// product line it belongs to.
package traverse

import (
	"sort"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/graph"
)

// ImpactChain computes the set of node IDs related to start, as a sorted
// slice. Returns a NODE_NOT_FOUND error when start does not resolve.
func ImpactChain(g *graph.Graph, start string) ([]string, error) {
	if _, ok := g.Node(start); !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", start)
	}

	result := make(map[string]bool)

	walk(g, start, g.Outgoing, result)
	walk(g, start, g.Incoming, result)

	delete(result, start)

	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// walk runs one directional depth-first search. The direction is abstracted
// by the neighbors function, so the upstream and downstream walks share the
// same expansion and stop rules.
func walk(g *graph.Graph, start string, neighbors func(string) []graph.Neighbor, result map[string]bool) {
	visited := map[string]bool{start: true}

	var visit func(id string, isOrigin bool)
	visit = func(id string, isOrigin bool) {
		edges := neighbors(id)
		if !isOrigin {
			edges = expandable(g, id, edges)
		}
		for _, nb := range edges {
			if visited[nb.ID] {
				continue
			}
			visited[nb.ID] = true
			result[nb.ID] = true
			visit(nb.ID, false)
		}
	}
	visit(start, true)
}

// expandable filters the edges the walk may leave id through. Ordinary
// nodes pass all their edges through. Set nodes pass none, with one
// exception: a featureset still exposes its listedfor edges. The walk
// origin bypasses this filter entirely.
func expandable(g *graph.Graph, id string, all []graph.Neighbor) []graph.Neighbor {
	n, ok := g.Node(id)
	if !ok || !n.Symbol.IsSet() {
		return all
	}
	if n.Symbol != graph.SymbolFeatureSet {
		return nil
	}
	var out []graph.Neighbor
	for _, nb := range all {
		if nb.Relation == graph.RelationListedFor {
			out = append(out, nb)
		}
	}
	return out
}
