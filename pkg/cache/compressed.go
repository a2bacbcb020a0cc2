package cache

import (
	"context"
	"time"

	"github.com/golang/snappy"
)

// Compressed wraps a Cache and snappy-compresses values. Layout JSON
// repeats field names for every node and typically shrinks several-fold.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps inner with snappy compression.
func NewCompressed(inner Cache) *Compressed {
	return &Compressed{inner: inner}
}

// Get retrieves and decompresses a value. An entry that fails to decode
// is deleted and reported as a miss.
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set compresses and stores a value.
func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

// Delete removes a key from the inner cache.
func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close closes the inner cache.
func (c *Compressed) Close() error {
	return c.inner.Close()
}

// Ensure Compressed implements Cache.
var _ Cache = (*Compressed)(nil)
