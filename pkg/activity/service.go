package activity

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/event_bus"
	"github.com/thewell/wellcal/internal/utils"
)

type Service interface {
	// Recent returns up to limit entries, newest first. A limit <= 0 returns all kept entries.
	Recent(limit int) []Entry
}

// ServiceImpl keeps the last size entries in a ring buffer.
type ServiceImpl struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
	clock   utils.Clock
}

func NewService(eventBus *event_bus.EventBus, clock utils.Clock, size int) *ServiceImpl {
	if size < 1 {
		size = 1
	}
	service := &ServiceImpl{
		entries: make([]Entry, size),
		clock:   clock,
	}
	event_bus.SubscribeTyped[event_bus.BookingChanged](
		eventBus,
		event_bus.SlotBooked,
		func(e event_bus.EventT[event_bus.BookingChanged]) error {
			service.add(bookingEntry(Booked, e.Data))
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.BookingChanged](
		eventBus,
		event_bus.SlotUndone,
		func(e event_bus.EventT[event_bus.BookingChanged]) error {
			service.add(bookingEntry(Undone, e.Data))
			return nil
		},
	)
	event_bus.SubscribeTyped[event_bus.MonthClearedEvent](
		eventBus,
		event_bus.MonthCleared,
		func(e event_bus.EventT[event_bus.MonthClearedEvent]) error {
			service.add(Entry{Kind: MonthCleared, Month: e.Data.Month, DeviceId: e.Data.DeviceId})
			return nil
		},
	)
	return service
}

func bookingEntry(kind Kind, data event_bus.BookingChanged) Entry {
	return Entry{
		Kind:     kind,
		Month:    data.Month,
		Date:     data.Date,
		Slot:     data.Slot,
		DeviceId: data.DeviceId,
	}
}

func (s *ServiceImpl) add(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Id = uuid.NewString()
	entry.At = s.clock.Now()
	s.entries[s.next] = entry
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}
	log.Tracef("activity: %s", entry.Message())
}

func (s *ServiceImpl) Recent(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.next
	if s.full {
		count = len(s.entries)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	result := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		result = append(result, s.entries[idx])
	}
	return result
}
