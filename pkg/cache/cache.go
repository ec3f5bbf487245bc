// Package cache provides content-addressed caching for rendered preview
// artifacts, so repeated runs over an unchanged drawing skip the render
// stage entirely.
package cache

import (
	"context"
	"time"
)

// TTLArtifact bounds how long rendered artifacts stay on disk. Entries are
// keyed by the document content hash plus every render option, so a stale
// hit is impossible; the TTL only bounds disk growth.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is the storage interface. Get reports a miss with hit == false and
// a nil error; errors are reserved for storage failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts holds every render option that changes the produced
// bytes. Adding a field here invalidates old entries automatically because
// the key hash changes.
type ArtifactKeyOpts struct {
	Backend     string
	Format      string
	Page        string
	Orientation string
	DPI         int
	MarginMM    float64
	FitToPage   bool
	FixedScale  float64
}

// Keyer generates cache keys. It exists as an interface so tests can
// substitute deterministic keys.
type Keyer interface {
	// ArtifactKey keys one rendered artifact by document content hash and
	// render options.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ArtifactKey generates a key for a rendered preview artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
