// Package cache stores rendered artifacts and projections keyed by content.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [LRUCache]: bounded in-process cache for the HTTP server
//   - [RedisCache]: shared cache for several server replicas
//   - [NullCache]: stores nothing (--no-cache)
//
// All backends implement [Cache]. Keys come from a [Keyer], so equal input
// bytes rendered with equal options always map to the same entry.
//
// # Retries
//
// [RetryWithBackoff] retries operations whose errors are wrapped with
// [Retryable]; the notify subscriber uses it to reconnect to a language
// service.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored data and whether the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Default lifetimes. Artifacts are derived purely from their input bytes,
// so they can live long; projections are cheap to rebuild.
const (
	TTLArtifact   = 7 * 24 * time.Hour
	TTLProjection = 24 * time.Hour
)
