// Package spatial implements a bucketed grid index for O(n) overlap
// detection over positioned, radius-bearing nodes.
//
// The grid knows nothing about node semantics - it operates purely on the
// {x, y, radius} projection. It is rebuilt per layout pass and never
// persisted. Complexity of the full overlap scan is O(n) for uniformly
// distributed nodes because bucket occupancy is bounded by density, not by
// n, provided radii stay comparable to the cell size.
package spatial

import (
	"math"
	"slices"
	"strings"

	"github.com/specmap/specmap/pkg/layout"
)

// Entry is one indexed node: an ID with its center and collision radius.
type Entry struct {
	ID     string
	X, Y   float64
	Radius float64
}

// Pair is an unordered conflicting pair. A is always the lexically smaller
// ID so pairs compare and dedupe cheaply.
type Pair struct {
	A, B     Entry
	Distance float64
}

// Key returns the canonical unordered pair key ("a-b").
func (p Pair) Key() string { return p.A.ID + "-" + p.B.ID }

type cellKey struct{ col, row int }

// Grid is a spatial hash over square cells. The zero value is not usable -
// use New.
type Grid struct {
	cellSize float64
	padding  float64
	cells    map[cellKey][]Entry
	count    int
}

// New creates an empty grid. Non-positive cellSize or padding fall back to
// the package defaults (80 and 10 units).
func New(cellSize, padding float64) *Grid {
	if cellSize <= 0 {
		cellSize = layout.DefaultCellSize
	}
	if padding < 0 {
		padding = layout.DefaultPadding
	}
	return &Grid{
		cellSize: cellSize,
		padding:  padding,
		cells:    make(map[cellKey][]Entry),
	}
}

// Insert adds an entry to its bucket. Entries with a non-positive radius
// are indexed with the default radius of 25 units.
func (g *Grid) Insert(e Entry) {
	if e.Radius <= 0 {
		e.Radius = layout.DefaultNodeRadius
	}
	k := g.keyFor(e.X, e.Y)
	g.cells[k] = append(g.cells[k], e)
	g.count++
}

// Len returns the number of indexed entries.
func (g *Grid) Len() int { return g.count }

// Neighborhood returns all entries in the point's cell and its 8 neighbors.
// This is a superset of the entries that might overlap a probe at that
// point, given radii bounded above by a cell-size-comparable constant.
func (g *Grid) Neighborhood(x, y float64) []Entry {
	center := g.keyFor(x, y)
	var out []Entry
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			out = append(out, g.cells[cellKey{center.col + dc, center.row + dr}]...)
		}
	}
	return out
}

// OverlappingPairs scans every bucket and returns each unordered pair of
// entries whose centers are closer than the sum of their radii plus the
// grid's padding. The result is sorted by pair key for determinism.
func (g *Grid) OverlappingPairs() []Pair {
	seen := make(map[string]bool)
	var pairs []Pair

	for _, entries := range g.cells {
		for _, e := range entries {
			for _, other := range g.Neighborhood(e.X, e.Y) {
				if other.ID == e.ID {
					continue
				}
				a, b := e, other
				if a.ID > b.ID {
					a, b = b, a
				}
				key := a.ID + "-" + b.ID
				if seen[key] {
					continue
				}
				seen[key] = true

				d := math.Hypot(a.X-b.X, a.Y-b.Y)
				if d < a.Radius+b.Radius+g.padding {
					pairs = append(pairs, Pair{A: a, B: b, Distance: d})
				}
			}
		}
	}

	slices.SortFunc(pairs, func(p, q Pair) int {
		return strings.Compare(p.Key(), q.Key())
	})
	return pairs
}

func (g *Grid) keyFor(x, y float64) cellKey {
	return cellKey{
		col: int(math.Floor(x / g.cellSize)),
		row: int(math.Floor(y / g.cellSize)),
	}
}
