// Package kv defines the key/value port client-side state is persisted
// through. Implementations back it with memory, a file, browser cookies or
// Redis.
package kv

import (
	"context"

	"github.com/jrsteele09/go-classroom/internal/errors"
)

// ErrKeyRequired is returned when an operation is given an empty key.
var ErrKeyRequired = errors.ErrKeyRequired

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
