// Package cache stores computed layouts keyed by a hash of their inputs.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// Any backend can be wrapped with [NewCompressed] to snappy-compress
// values on the way in and out.
//
// # Keys
//
// Keys come from a [Keyer]. The default keyer hashes the input graph bytes
// together with every option that affects the result, so a cache hit is
// always bit-identical to recomputing. [NewScopedKeyer] prefixes keys to
// separate tenants or environments sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTL defaults.
const (
	// LayoutTTL is how long computed layouts are cached.
	LayoutTTL = 7 * 24 * time.Hour
	// GraphTTL is how long parsed input graphs are cached by the server.
	GraphTTL = 24 * time.Hour
)
