package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors exposed by every backend. Callers distinguish a missing
// key from an unreachable store; the two have different retry semantics.
var (
	ErrNotFound    = errors.New("key not found")
	ErrUnavailable = errors.New("store unavailable")
)

// KVStore is the contract with the external key-value store. Each operation
// is independently fallible; there are no multi-key transactions.
type KVStore interface {
	// Get returns the string value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes key with a TTL. A zero expiration means no expiry.
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	// Exists reports whether key currently holds a live value.
	Exists(ctx context.Context, key string) (bool, error)
	// Incr atomically increments the integer value at key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire resets the TTL on an existing key. Returns false if the key is gone.
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	// TTL returns the remaining lifetime of key, or ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns the keys matching a glob pattern. Intended for the
	// low-volume admin surface only.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
