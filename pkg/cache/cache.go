// Package cache stores fetched failure reports and rendered chart artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so that the CLI, the server and tests agree on
// the layout of the key space. Keys embed a SHA-256 of everything that
// influences the cached bytes, so changing the report, the chart size or the
// palette never returns a stale artifact.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default time-to-live values.
const (
	// ReportTTL bounds how long a fetched report is reused. Reports change
	// with every CI run, so this is short.
	ReportTTL = 30 * time.Second

	// ArtifactTTL bounds rendered outputs. Artifact keys are content
	// addressed, so this only limits disk use.
	ArtifactTTL = 7 * 24 * time.Hour
)
