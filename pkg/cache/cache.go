package cache

import (
	"context"
	"time"
)

// Cache is the contract for the key-value layer backing the published-draft
// fallback copy and the generation progress store. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// found = false means a clean miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores a value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
