package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys so a retried
// checkout returns the order created by the first attempt.
type IdempotencyStore interface {
	// Reserve claims the key for ttl.
	// Returns true if the key was newly reserved, false if it was already claimed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete records the result reference (an order code) for a reserved key.
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Lookup returns the stored result for a key.
	// An empty result with found=true means the first request is still in flight.
	Lookup(ctx context.Context, key string) (result string, found bool, err error)

	// Release drops a reservation so the client can retry after a failure.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key and its result are remembered
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
