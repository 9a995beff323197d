// Package cache stores computed bounds tables between runs.
//
// Tables are cached as opaque byte blobs under keys produced by a Keyer.
// Three backends implement Cache:
//
//   - NullCache never stores anything (caching disabled)
//   - FileCache keeps one file per entry under a directory (CLI default)
//   - RedisCache keeps entries in Redis (shared by `ratiogrid serve` replicas)
//
// Backend failures that may succeed on a second attempt are wrapped with
// Retryable; callers use RetryWithBackoff to retry them.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLBounds is the lifetime of a cached bounds table. Tables depend only
	// on their inputs, so the limit only bounds storage growth.
	TTLBounds = 7 * 24 * time.Hour
)

// Cache is a byte-blob store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}
