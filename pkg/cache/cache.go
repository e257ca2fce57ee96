// Package cache stores rendered artifacts so repeated requests for the
// same report and geometry skip the render pipeline. The file backend
// serves the CLI, the redis backend serves long-running report servers,
// and the null backend disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract shared by all backends. A miss is
// signaled by the bool, not by an error; errors mean the backend itself
// failed.
type Cache interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero stores it without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the value stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
