package booking

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/pkg/kvstore"
)

const votesKey = "myvotes"

// VotesKey is the store key of a device's vote lock. An empty device id is the anonymous device.
func VotesKey(deviceId string) string {
	if deviceId == "" {
		return votesKey
	}
	return votesKey + ":" + deviceId
}

func (v VoteLock) Has(date DateKey, slot Slot) bool {
	return v[date][slot]
}

func (v VoteLock) Mark(date DateKey, slot Slot) {
	if v[date] == nil {
		v[date] = make(map[Slot]bool)
	}
	v[date][slot] = true
}

func (v VoteLock) Clear(date DateKey, slot Slot) {
	slots, ok := v[date]
	if !ok {
		return
	}
	delete(slots, slot)
	if len(slots) == 0 {
		delete(v, date)
	}
}

// DropMonth removes all votes of the given month and reports whether anything was removed.
func (v VoteLock) DropMonth(month MonthKey) bool {
	dropped := false
	for date := range v {
		if date.Month().Equal(month) {
			delete(v, date)
			dropped = true
		}
	}
	return dropped
}

// Slots returns the voted slots of the date in display order.
func (v VoteLock) Slots(date DateKey) []Slot {
	slots := make([]Slot, 0, len(Slots))
	for _, slot := range Slots {
		if v.Has(date, slot) {
			slots = append(slots, slot)
		}
	}
	return slots
}

// VoteStore persists the vote lock of each device.
type VoteStore struct {
	store kvstore.Store
}

func NewVoteStore(store kvstore.Store) *VoteStore {
	return &VoteStore{store: store}
}

func (s *VoteStore) Load(ctx context.Context, deviceId string) (VoteLock, error) {
	data, err := s.store.Get(ctx, VotesKey(deviceId))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return VoteLock{}, nil
		}
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	votes, err := DecodeVotes(data)
	if err != nil {
		log.Warnf("Ignoring corrupt votes of device %q: %v", deviceId, err)
		return VoteLock{}, nil
	}
	return votes, nil
}

// Save stores the vote lock, deleting the key once no vote is left.
func (s *VoteStore) Save(ctx context.Context, deviceId string, votes VoteLock) error {
	key := VotesKey(deviceId)
	if len(votes) == 0 {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		return nil
	}
	data, err := EncodeVotes(votes)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store votes: %w", err)
	}
	return nil
}
