package cluster

import (
	"math"

	"github.com/specmap/specmap/pkg/graph"
)

// avoidStrategy parameterizes the bounded conflict-retry loop shared by
// cluster centers, satellites, and orphans. Retries first advance the angle
// around the anchor; once AngularAttempts is exhausted the radius grows too.
type avoidStrategy struct {
	AngleStep       float64 // radians advanced per retry
	AngularAttempts int     // retries at fixed radius before the orbit grows
	RadiusStep      float64 // radius growth per retry past AngularAttempts
	MaxAttempts     int
	MinSeparation   float64
}

var (
	// Cluster centers rotate in 45° steps on a growing orbit around the
	// proposed point.
	centerStrategy = avoidStrategy{
		AngleStep:     math.Pi / 4,
		RadiusStep:    20,
		MaxAttempts:   8,
		MinSeparation: 50,
	}

	// A single satellite nudges around its center in 45° steps.
	soloSatelliteStrategy = avoidStrategy{
		AngleStep:       math.Pi / 4,
		AngularAttempts: 8,
		MaxAttempts:     8,
		MinSeparation:   45,
	}

	// Paired satellites take finer 15° steps with a larger budget so the
	// symmetric arrangement survives as long as possible.
	pairSatelliteStrategy = avoidStrategy{
		AngleStep:       math.Pi / 12,
		AngularAttempts: 12,
		MaxAttempts:     12,
		MinSeparation:   45,
	}

	// Full-circle satellites try 22.5° steps first, then grow the orbit in
	// 20-unit increments.
	circleSatelliteStrategy = avoidStrategy{
		AngleStep:       math.Pi / 8,
		AngularAttempts: 8,
		RadiusStep:      20,
		MaxAttempts:     16,
		MinSeparation:   45,
	}

	// Orphans check against the entire placed set with a wider separation.
	orphanStrategy = avoidStrategy{
		AngleStep:       math.Pi / 4,
		AngularAttempts: 8,
		RadiusStep:      20,
		MaxAttempts:     12,
		MinSeparation:   60,
	}
)

// placeWithConflictAvoidance returns the first orbit candidate at least
// MinSeparation away from every placed position. The procedure is
// best-effort and bounded: when the retry budget is exhausted the final
// candidate is accepted as-is, residual overlap included.
//
// The angle is measured from straight down (screen-space vertical), so a
// zero angle places the candidate directly below the anchor.
func placeWithConflictAvoidance(anchor graph.Position, radius, angle float64, placed map[string]graph.Position, s avoidStrategy) graph.Position {
	candidate := orbit(anchor, radius, angle)
	for attempt := 0; attempt < s.MaxAttempts; attempt++ {
		if !conflicts(candidate, placed, s.MinSeparation) {
			return candidate
		}
		angle += s.AngleStep
		if attempt >= s.AngularAttempts {
			radius += s.RadiusStep
		}
		candidate = orbit(anchor, radius, angle)
	}
	return candidate
}

func orbit(anchor graph.Position, radius, angle float64) graph.Position {
	return graph.Position{
		X: anchor.X + radius*math.Sin(angle),
		Y: anchor.Y + radius*math.Cos(angle),
	}
}

func conflicts(p graph.Position, placed map[string]graph.Position, minSeparation float64) bool {
	for _, q := range placed {
		if math.Hypot(p.X-q.X, p.Y-q.Y) < minSeparation {
			return true
		}
	}
	return false
}
