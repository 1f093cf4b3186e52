package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/specmap/specmap/pkg/graph"
)

// =============================================================================
// Graph Files
// =============================================================================

// ReadGraphFile reads a graph document from a JSON or YAML file (chosen by
// extension) and assembles the in-memory graph. Dangling edges are dropped
// with warnings on the given logger; pass nil to discard them.
func ReadGraphFile(path string, logger *charmlog.Logger) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f, isYAMLPath(path), logger)
}

// ReadGraph decodes a graph document from r and assembles the graph.
// Set asYAML for YAML input; otherwise JSON is assumed.
func ReadGraph(r io.Reader, asYAML bool, logger *charmlog.Logger) (*graph.Graph, error) {
	var doc Document
	if asYAML {
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	} else {
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	return Build(doc, logger)
}

// WriteGraphFile writes a graph as a JSON document.
// The file is created with 0644 permissions.
func WriteGraphFile(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// WriteGraph writes a graph as pretty-printed JSON to w.
func WriteGraph(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalGraph converts a graph to JSON bytes. Output is deterministic:
// nodes and edges appear in insertion order.
func MarshalGraph(g *graph.Graph) ([]byte, error) {
	return json.MarshalIndent(FromGraph(g), "", "  ")
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
