// Package graph provides the typed node/edge containers consumed by every
// layout and traversal component in specmap.
//
// A [Graph] holds systems-engineering model elements (product lines,
// features, functions, blocks, requirements, tests, configurations) as
// [Node] values and the directed, typed relations between them as [Edge]
// values. The container maintains outgoing and incoming adjacency so that
// layout leveling and impact traversal can walk the graph in either
// direction without rebuilding indexes.
//
// # Symbol Types
//
// Every node carries a [SymbolType] drawn from a closed set. Nodes whose
// declared type is absent or unrecognized are resolved through a
// deterministic fallback chain (see [InferSymbolType]) based on the file
// extension and display-name substrings. All downstream components (cluster
// leveling, traversal stop rules) depend on this inference being applied
// identically everywhere, so it lives here and nowhere else.
//
// # Direction Convention
//
// Edges are directed; Source → Target is the canonical "downstream"
// direction. For hierarchy relations (childof, parentof, hierarchy) the
// source is the parent and the target is the child. Layouts collapse these
// relations into a parent→children adjacency via [Graph.HierarchyChildren].
//
// # Mutability
//
// The graph is never mutated by layout or traversal: positions are returned
// as separate maps keyed by node ID. Graph is not safe for concurrent use
// without external synchronization.
package graph
