package graphio

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/specmap/specmap/pkg/graph"
)

// Layout is the serialization format handed to the rendering collaborator:
// every node with its engine-assigned position plus the overall frame.
type Layout struct {
	Algo        string  `json:"algo"`
	Orientation string  `json:"orientation,omitempty"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`

	// Offset of the coordinate origin within the frame. Cluster layouts
	// place nodes on both sides of x=0, so the frame is translated.
	OriginX float64 `json:"origin_x,omitempty"`
	OriginY float64 `json:"origin_y,omitempty"`

	Nodes []PlacedNode `json:"nodes"`
}

// PlacedNode is one positioned node, denormalized with its label and symbol
// type so the renderer needs no second lookup.
type PlacedNode struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Symbol string  `json:"symbol"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewLayout denormalizes a position map into a layout document. Nodes are
// sorted by ID for deterministic output; nodes without a position (synthetic
// roots never have one) are omitted. The frame is the bounding box over all
// placed footprints.
func NewLayout(g *graph.Graph, positions map[string]graph.Position, algo, orientation string) Layout {
	l := Layout{
		Algo:        algo,
		Orientation: orientation,
		Nodes:       make([]PlacedNode, 0, len(positions)),
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes() {
		pos, ok := positions[n.ID]
		if !ok {
			continue
		}
		l.Nodes = append(l.Nodes, PlacedNode{
			ID:     n.ID,
			Label:  n.Label(),
			Symbol: string(n.Symbol),
			X:      pos.X,
			Y:      pos.Y,
			Width:  n.Footprint.Width,
			Height: n.Footprint.Height,
		})
		minX = math.Min(minX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxX = math.Max(maxX, pos.X+n.Footprint.Width)
		maxY = math.Max(maxY, pos.Y+n.Footprint.Height)
	}

	if len(l.Nodes) > 0 {
		l.Width = maxX - minX
		l.Height = maxY - minY
		l.OriginX = -minX
		l.OriginY = -minY
	}

	slices.SortFunc(l.Nodes, func(a, b PlacedNode) int {
		return strings.Compare(a.ID, b.ID)
	})
	return l
}

// Positions rebuilds the position map from a layout document.
func (l Layout) Positions() map[string]graph.Position {
	m := make(map[string]graph.Position, len(l.Nodes))
	for _, n := range l.Nodes {
		m[n.ID] = graph.Position{X: n.X, Y: n.Y}
	}
	return m
}

// MarshalLayout serializes a layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
