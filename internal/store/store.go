// Package store holds the string-keyed persistent store behind the offline
// cache. Values are opaque bytes; every Set fully replaces the previous value.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrNotFound   = errors.New("store: key not found")
	ErrInvalidKey = errors.New("store: invalid key")
)

type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value under key. Readers never observe a partial value.
	Set(ctx context.Context, key string, value []byte) error

	// Has reports whether key currently holds a value.
	Has(ctx context.Context, key string) (bool, error)
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,199}$`)

// ValidateKey rejects keys that cannot be mapped to a single file name.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
