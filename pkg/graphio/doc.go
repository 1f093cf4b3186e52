// Package graphio reads and writes the serialization formats at specmap's
// boundaries: graph documents produced by the DSL-parsing collaborator and
// layout documents consumed by the rendering collaborator.
//
// Graph documents are accepted as JSON or YAML (chosen by file extension).
// Decoding is deliberately tolerant: edges may carry their relation under
// the canonical "relation" key or the legacy "type" key, edges without an ID
// are assigned one, and edges referencing missing nodes are dropped with a
// warning rather than failing the load. Node types may be declared outright
// or left to the fallback inference in package graph.
//
// Layout documents are written as deterministic, pretty-printed JSON with
// nodes sorted by ID, so identical inputs produce byte-identical files.
package graphio
