package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/pkg/kvstore"
)

const monthKeyPrefix = "bookings:"

func monthStoreKey(month MonthKey) string {
	return monthKeyPrefix + month.String()
}

// MonthStore persists one serialized MonthRecord per month.
type MonthStore struct {
	store kvstore.Store
}

func NewMonthStore(store kvstore.Store) *MonthStore {
	return &MonthStore{store: store}
}

// GetMonth returns the stored record, or an empty one when nothing or garbage is stored.
func (s *MonthStore) GetMonth(ctx context.Context, month MonthKey) (MonthRecord, error) {
	data, err := s.store.Get(ctx, monthStoreKey(month))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return MonthRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read month %s: %w", month, err)
	}
	record, err := DecodeMonth(data)
	if err != nil {
		log.Warnf("Ignoring corrupt record of month %s: %v", month, err)
		return MonthRecord{}, nil
	}
	return record, nil
}

func (s *MonthStore) SaveMonth(ctx context.Context, month MonthKey, record MonthRecord) error {
	data, err := EncodeMonth(record)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, monthStoreKey(month), data); err != nil {
		return fmt.Errorf("failed to store month %s: %w", month, err)
	}
	return nil
}

func (s *MonthStore) ClearMonth(ctx context.Context, month MonthKey) error {
	if err := s.store.Delete(ctx, monthStoreKey(month)); err != nil {
		return fmt.Errorf("failed to clear month %s: %w", month, err)
	}
	return nil
}

// ListMonths returns the months with a stored record in ascending order.
func (s *MonthStore) ListMonths(ctx context.Context) ([]MonthKey, error) {
	keys, err := s.store.Keys(ctx, monthKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	months := make([]MonthKey, 0, len(keys))
	for _, key := range keys {
		month, err := ParseMonthKey(strings.TrimPrefix(key, monthKeyPrefix))
		if err != nil {
			log.Debugf("Skipping unexpected key %s", key)
			continue
		}
		months = append(months, month)
	}
	return months, nil
}
