// Package cache stores rendered chart artifacts keyed by document content.
//
// Rendering a large document to PNG is the slow path of the CLI; the cache
// lets repeated renders of an unchanged document skip it. Keys are derived
// from a hash of the document plus every option that affects the output, so
// any change to either produces a miss.
//
// Implementations:
//   - [FileCache]: on-disk storage for the CLI
//   - [RedisCache]: shared storage for server deployments
//   - [NullCache]: used when caching is disabled
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale,omitempty"`
	Align      string  `json:"align,omitempty"`
	Font       string  `json:"font,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	Background string  `json:"background,omitempty"`
	Title      string  `json:"title,omitempty"`
	Commands   bool    `json:"commands,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes docHash together with opts.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
