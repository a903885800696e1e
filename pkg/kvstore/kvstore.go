package kvstore

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("key not found")

// Store is a string-valued key-value store shared by everything the calendar persists.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// escapeLike escapes the LIKE wildcards of a prefix, to be used with ESCAPE '\'.
func escapeLike(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
