package booking

import (
	"context"
	"errors"
	"maps"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/event_bus"
	"github.com/thewell/wellcal/pkg/device"
)

var ErrAlreadyVoted = errors.New("already booked this slot from this device")
var ErrAlreadyBooked = errors.New("slot already booked")
var ErrNoVote = errors.New("no booking of this slot from this device")
var ErrNotBooked = errors.New("slot not booked")

type Mode string

const (
	// Counting adds one booking per request.
	Counting Mode = "counting"
	// Exclusive allows a single booking per slot.
	Exclusive Mode = "exclusive"
)

type Options struct {
	Mode     Mode
	VoteLock bool
}

type Service interface {
	// Book adds a booking of slot on date. A booking displacing the opposite kind of slot
	// fails with a *ConflictError unless confirmed.
	Book(ctx context.Context, date DateKey, slot Slot, confirm bool) (DayBookings, error)
	// Undo removes one booking of slot on date.
	Undo(ctx context.Context, date DateKey, slot Slot) (DayBookings, error)
	Remove(ctx context.Context, date DateKey, slot Slot) (DayBookings, error)
	GetMonth(ctx context.Context, month MonthKey) (MonthRecord, error)
	GetDay(ctx context.Context, date DateKey) (DayBookings, error)
	ListMonths(ctx context.Context) ([]MonthKey, error)
	// ClearMonth removes all bookings of the month and the current device's votes in it.
	ClearMonth(ctx context.Context, month MonthKey) error
	MyVotes(ctx context.Context, date DateKey) ([]Slot, error)
	CanBook(ctx context.Context, date DateKey, slot Slot) (bool, error)
}

type ServiceImpl struct {
	mu       sync.Mutex
	months   *MonthStore
	votes    *VoteStore
	eventBus *event_bus.EventBus
	opts     Options
}

func NewService(months *MonthStore, votes *VoteStore, eventBus *event_bus.EventBus, opts Options) *ServiceImpl {
	if opts.Mode == "" {
		opts.Mode = Counting
	}
	return &ServiceImpl{
		months:   months,
		votes:    votes,
		eventBus: eventBus,
		opts:     opts,
	}
}

func (s *ServiceImpl) Book(ctx context.Context, date DateKey, slot Slot, confirm bool) (DayBookings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceId := currentDevice(ctx)
	votes, err := s.loadVotes(ctx, deviceId)
	if err != nil {
		return DayBookings{}, err
	}
	if s.opts.VoteLock && votes.Has(date, slot) {
		return DayBookings{}, ErrAlreadyVoted
	}

	month := date.Month()
	record, err := s.months.GetMonth(ctx, month)
	if err != nil {
		return DayBookings{}, err
	}
	previous := maps.Clone(record)
	day := record.Day(date)

	conflict := DetectConflict(day, slot)
	if Decide(conflict, confirm) == Cancel {
		log.Debugf("Booking of %s on %s needs confirmation: %s", slot, date, conflict)
		return day, &ConflictError{Date: date, Slot: slot, Conflict: conflict}
	}
	day = Displace(day, conflict)

	switch s.opts.Mode {
	case Exclusive:
		if day.Count(slot) > 0 {
			return record.Day(date), ErrAlreadyBooked
		}
		day = day.with(slot, 1)
	default:
		day = day.with(slot, day.Count(slot)+1)
	}
	record.Put(date, day)

	if err := s.months.SaveMonth(ctx, month, record); err != nil {
		return DayBookings{}, err
	}
	if s.opts.VoteLock {
		votes.Mark(date, slot)
		if err := s.votes.Save(ctx, deviceId, votes); err != nil {
			s.restoreMonth(ctx, month, previous)
			return DayBookings{}, err
		}
	}
	log.Debugf("Booked %s on %s: %+v", slot, date, day)

	s.publish(ctx, event_bus.SlotBooked, date, slot, deviceId, day)
	return day, nil
}

func (s *ServiceImpl) Undo(ctx context.Context, date DateKey, slot Slot) (DayBookings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceId := currentDevice(ctx)
	votes, err := s.loadVotes(ctx, deviceId)
	if err != nil {
		return DayBookings{}, err
	}

	month := date.Month()
	record, err := s.months.GetMonth(ctx, month)
	if err != nil {
		return DayBookings{}, err
	}
	previous := maps.Clone(record)
	day := record.Day(date)

	if s.opts.VoteLock {
		if !votes.Has(date, slot) {
			return day, ErrNoVote
		}
	} else if day.Count(slot) == 0 {
		return day, ErrNotBooked
	}

	day = day.with(slot, day.Count(slot)-1)
	record.Put(date, day)

	if err := s.months.SaveMonth(ctx, month, record); err != nil {
		return DayBookings{}, err
	}
	if s.opts.VoteLock {
		votes.Clear(date, slot)
		if err := s.votes.Save(ctx, deviceId, votes); err != nil {
			s.restoreMonth(ctx, month, previous)
			return DayBookings{}, err
		}
	}
	log.Debugf("Removed %s on %s: %+v", slot, date, day)

	s.publish(ctx, event_bus.SlotUndone, date, slot, deviceId, day)
	return day, nil
}

func (s *ServiceImpl) Remove(ctx context.Context, date DateKey, slot Slot) (DayBookings, error) {
	return s.Undo(ctx, date, slot)
}

func (s *ServiceImpl) GetMonth(ctx context.Context, month MonthKey) (MonthRecord, error) {
	return s.months.GetMonth(ctx, month)
}

func (s *ServiceImpl) GetDay(ctx context.Context, date DateKey) (DayBookings, error) {
	record, err := s.months.GetMonth(ctx, date.Month())
	if err != nil {
		return DayBookings{}, err
	}
	return record.Day(date), nil
}

func (s *ServiceImpl) ListMonths(ctx context.Context) ([]MonthKey, error) {
	return s.months.ListMonths(ctx)
}

func (s *ServiceImpl) ClearMonth(ctx context.Context, month MonthKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.months.ClearMonth(ctx, month); err != nil {
		return err
	}

	deviceId := currentDevice(ctx)
	if s.opts.VoteLock {
		votes, err := s.loadVotes(ctx, deviceId)
		if err != nil {
			return err
		}
		if votes.DropMonth(month) {
			if err := s.votes.Save(ctx, deviceId, votes); err != nil {
				return err
			}
		}
	}
	log.Infof("Cleared bookings of %s", month)

	if s.eventBus != nil {
		err := s.eventBus.Publish(event_bus.NewEvent(context.WithoutCancel(ctx), event_bus.MonthCleared, event_bus.MonthClearedEvent{
			Month:    month.String(),
			DeviceId: deviceId,
		}))
		if err != nil {
			log.Errorf("failed to publish month cleared event: %v", err)
		}
	}
	return nil
}

func (s *ServiceImpl) MyVotes(ctx context.Context, date DateKey) ([]Slot, error) {
	if !s.opts.VoteLock {
		return []Slot{}, nil
	}
	votes, err := s.loadVotes(ctx, currentDevice(ctx))
	if err != nil {
		return nil, err
	}
	return votes.Slots(date), nil
}

// CanBook is advisory: with the vote lock it tells whether this device booked the slot already,
// without it whether Book would accept the slot ignoring confirmation.
func (s *ServiceImpl) CanBook(ctx context.Context, date DateKey, slot Slot) (bool, error) {
	if s.opts.VoteLock {
		votes, err := s.loadVotes(ctx, currentDevice(ctx))
		if err != nil {
			return false, err
		}
		return !votes.Has(date, slot), nil
	}
	if s.opts.Mode == Exclusive {
		day, err := s.GetDay(ctx, date)
		if err != nil {
			return false, err
		}
		return day.Count(slot) == 0, nil
	}
	return true, nil
}

func (s *ServiceImpl) loadVotes(ctx context.Context, deviceId string) (VoteLock, error) {
	if !s.opts.VoteLock {
		return VoteLock{}, nil
	}
	return s.votes.Load(ctx, deviceId)
}

// restoreMonth puts back the record read before a write whose vote could not be stored.
func (s *ServiceImpl) restoreMonth(ctx context.Context, month MonthKey, previous MonthRecord) {
	var err error
	if len(previous) == 0 {
		err = s.months.ClearMonth(ctx, month)
	} else {
		err = s.months.SaveMonth(ctx, month, previous)
	}
	if err != nil {
		log.Errorf("failed to restore month %s after vote write failure: %v", month, err)
	}
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, date DateKey, slot Slot, deviceId string, day DayBookings) {
	if s.eventBus == nil {
		return
	}
	// events outlive the request that caused them
	err := s.eventBus.Publish(event_bus.NewEvent(context.WithoutCancel(ctx), eventType, event_bus.BookingChanged{
		Month:     date.Month().String(),
		Date:      string(date),
		Slot:      string(slot),
		DeviceId:  deviceId,
		Morning:   day.Morning,
		Afternoon: day.Afternoon,
		FullDay:   day.FullDay,
	}))
	if err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}

// currentDevice returns the device from the context, the anonymous device being "".
func currentDevice(ctx context.Context) string {
	id, err := device.CurrentId(ctx)
	if err != nil {
		return ""
	}
	return id
}
