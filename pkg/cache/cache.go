// Package cache provides content-addressed caching for computed layouts,
// impact chains, and rendered artifacts.
//
// Keys are derived from hashes of the inputs (graph bytes, layout bytes)
// plus the options that influenced the computation, so a cache entry can
// never be served for a different input. Entries carry a TTL; expired
// entries are treated as misses and removed lazily on read.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Layouts and impact chains are cheap to recompute, so
// they expire quickly; rendered artifacts are the expensive product.
const (
	TTLLayout   = 24 * time.Hour
	TTLImpact   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A non-positive TTL stores the value
	// without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// LayoutKeyOpts are the options that influence a layout computation and so
// must be part of its cache key.
type LayoutKeyOpts struct {
	Algo        string
	Orientation string
	Refine      bool
	ConfigHash  string
}

// ArtifactKeyOpts are the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer generates cache keys for the engine's cacheable products.
type Keyer interface {
	// LayoutKey generates a key for a computed layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ImpactKey generates a key for an impact chain result.
	ImpactKey(graphHash, nodeID string) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 under a per-kind prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ImpactKey generates a key for an impact chain result.
func (k *DefaultKeyer) ImpactKey(graphHash, nodeID string) string {
	return hashKey("impact", graphHash, nodeID)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
