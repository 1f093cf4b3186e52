// Package layout holds the configuration surface shared by the layout
// algorithms in its subpackages: spatial (grid index), tree (hierarchical),
// cluster (type-leveled radial) and refine (overlap relaxation).
//
// Every knob is numeric, has a stated default, and is independently
// overridable by the caller. Layouts are pure functions of the graph and
// the configuration: repeated invocations produce identical positions.
package layout

import (
	"errors"
	"math"

	"github.com/specmap/specmap/pkg/graph"
)

// ErrNoRoot is returned by the tree layout when the graph has nodes but no
// hierarchy root - every node claims a parent, which means the hierarchy
// relation set is cyclic. This is the engine's only fatal shape error.
var ErrNoRoot = errors.New("graph has no hierarchy root")

// Defaults for the configuration surface. These are the single source of
// truth; CLI, server, and pipeline all start from DefaultConfig.
const (
	// DefaultCellSize is the spatial grid bucket edge length.
	DefaultCellSize = 80.0

	// DefaultNodeRadius is assumed for nodes whose radius is unspecified.
	DefaultNodeRadius = 25.0

	// DefaultPadding is added to the radius sum when testing for overlap.
	DefaultPadding = 10.0

	// DefaultNodeSpacing is the minimum sibling slot width in tree layouts.
	DefaultNodeSpacing = 100.0

	// DefaultLevelSpacing is the gap between hierarchy levels in tree layouts.
	DefaultLevelSpacing = 150.0

	// DefaultClusterRadius is the base satellite orbit radius in cluster
	// layouts, before per-cluster scaling.
	DefaultClusterRadius = 40.0

	// DefaultVerticalSpacing is the row height of the cluster layout's
	// type-ordered levels.
	DefaultVerticalSpacing = 150.0

	// DefaultMaxLayoutWidth bounds how far cluster centers spread from the
	// center column.
	DefaultMaxLayoutWidth = 1200.0

	// DefaultMinSeparation is the distance below which overlap refinement
	// pushes a conflicting pair apart.
	DefaultMinSeparation = 60.0

	// DefaultMaxIterations caps overlap refinement passes.
	DefaultMaxIterations = 3
)

// Orientation selects the hierarchy-depth axis of the tree layout.
type Orientation string

const (
	// TopToBottom grows depth downward; siblings spread along x.
	TopToBottom Orientation = "top-to-bottom"
	// LeftToRight grows depth rightward; siblings spread along y.
	LeftToRight Orientation = "left-to-right"
)

// Valid reports whether o is a recognized orientation.
func (o Orientation) Valid() bool {
	return o == TopToBottom || o == LeftToRight
}

// Config is the numeric configuration surface of all layout components.
// The zero value is not usable - start from DefaultConfig.
type Config struct {
	CellSize        float64 `json:"cell_size"`        // spatial grid bucket size
	NodeRadius      float64 `json:"node_radius"`      // fallback node radius for overlap tests
	Padding         float64 `json:"padding"`          // extra separation required between radii
	NodeSpacing     float64 `json:"node_spacing"`     // tree: minimum sibling slot width
	LevelSpacing    float64 `json:"level_spacing"`    // tree: gap between depth levels
	ClusterRadius   float64 `json:"cluster_radius"`   // cluster: base satellite orbit radius
	VerticalSpacing float64 `json:"vertical_spacing"` // cluster: level row height
	MaxLayoutWidth  float64 `json:"max_layout_width"` // cluster: max spread around the center column
	MinSeparation   float64 `json:"min_separation"`   // refine: push-apart threshold
	MaxIterations   int     `json:"max_iterations"`   // refine: iteration cap
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CellSize:        DefaultCellSize,
		NodeRadius:      DefaultNodeRadius,
		Padding:         DefaultPadding,
		NodeSpacing:     DefaultNodeSpacing,
		LevelSpacing:    DefaultLevelSpacing,
		ClusterRadius:   DefaultClusterRadius,
		VerticalSpacing: DefaultVerticalSpacing,
		MaxLayoutWidth:  DefaultMaxLayoutWidth,
		MinSeparation:   DefaultMinSeparation,
		MaxIterations:   DefaultMaxIterations,
	}
}

// Bounds is the axis-aligned bounding box of a computed layout, the min/max
// over all node top-left and bottom-right corners.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Result pairs computed positions (top-left corners, keyed by node ID) with
// their bounding box.
type Result struct {
	Positions map[string]graph.Position
	Bounds    Bounds
}

// BoundsOf computes the bounding box over the placed footprints. Positions
// without a matching node contribute a zero-sized footprint.
func BoundsOf(g *graph.Graph, positions map[string]graph.Position) Bounds {
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	if len(positions) == 0 {
		return Bounds{}
	}
	for id, p := range positions {
		var fp graph.Footprint
		if n, ok := g.Node(id); ok {
			fp = n.Footprint
		}
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X+fp.Width)
		b.MaxY = math.Max(b.MaxY, p.Y+fp.Height)
	}
	return b
}
