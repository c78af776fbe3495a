// Package cache stores computed generator reports keyed by manifest content.
//
// Computing a report is cheap next to loading a large manifest, but the CLI
// is often re-run against the same dump while iterating on a generator. The
// [FileCache] keeps encoded reports on disk between runs; [NullCache]
// disables caching.
package cache

import (
	"context"
	"time"
)

// TTLReport is how long a cached report stays valid.
const TTLReport = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired and unreadable entries are misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ReportKeyOpts holds the options that change the content of a report.
type ReportKeyOpts struct {
	StopAtFirstCycle bool `json:"stop_at_first_cycle,omitempty"`
	Detailed         bool `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey returns the key for the report computed from the manifest
	// with the given content hash.
	ReportKey(manifestHash string, opts ReportKeyOpts) string
}

// DefaultKeyer builds keys of the form "report:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(manifestHash string, opts ReportKeyOpts) string {
	return hashKey("report", manifestHash, opts)
}
