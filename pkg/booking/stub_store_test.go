package booking

import (
	"context"
	"errors"

	"github.com/thewell/wellcal/pkg/kvstore"
)

var errStoreDown = errors.New("store unavailable")

// failingStore wraps a store and fails reads or writes of the configured keys.
type failingStore struct {
	kvstore.Store
	failGet map[string]bool
	failSet map[string]bool
}

func newFailingStore() *failingStore {
	return &failingStore{
		Store:   kvstore.NewMemoryStore(),
		failGet: map[string]bool{},
		failSet: map[string]bool{},
	}
}

func (s *failingStore) Get(ctx context.Context, key string) (string, error) {
	if s.failGet[key] {
		return "", errStoreDown
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key string, value string) error {
	if s.failSet[key] {
		return errStoreDown
	}
	return s.Store.Set(ctx, key, value)
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	if s.failSet[key] {
		return errStoreDown
	}
	return s.Store.Delete(ctx, key)
}
