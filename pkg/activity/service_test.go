package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thewell/wellcal/internal/event_bus"
	"github.com/thewell/wellcal/internal/utils"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func setup(size int) (*ServiceImpl, *event_bus.EventBus) {
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{}
	clock.SetNow(now)
	return NewService(bus, clock, size), bus
}

func publishBooked(t *testing.T, bus *event_bus.EventBus, date string) {
	t.Helper()
	err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.SlotBooked, event_bus.BookingChanged{
		Month: date[:7],
		Date:  date,
		Slot:  "morning",
	}))
	require.NoError(t, err)
}

func TestServiceImpl_Recent(t *testing.T) {
	t.Run("should record events newest first", func(t *testing.T) {
		// given
		service, bus := setup(10)
		publishBooked(t, bus, "2024-06-10")
		require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.SlotUndone,
			event_bus.BookingChanged{Month: "2024-06", Date: "2024-06-10", Slot: "morning"})))
		require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.MonthCleared,
			event_bus.MonthClearedEvent{Month: "2024-06"})))

		// when
		entries := service.Recent(0)

		// then
		require.Len(t, entries, 3)
		assert.Equal(t, MonthCleared, entries[0].Kind)
		assert.Equal(t, "Cleared all bookings of 2024-06", entries[0].Message())
		assert.Equal(t, Undone, entries[1].Kind)
		assert.Equal(t, "Booked morning on 2024-06-10", entries[2].Message())
		assert.Equal(t, now, entries[2].At)
		assert.NotEmpty(t, entries[2].Id)
	})

	t.Run("should keep only the configured number of entries", func(t *testing.T) {
		// given
		service, bus := setup(3)
		for _, date := range []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05"} {
			publishBooked(t, bus, date)
		}

		// when
		entries := service.Recent(0)
		limited := service.Recent(2)

		// then
		require.Len(t, entries, 3)
		assert.Equal(t, "2024-06-05", entries[0].Date)
		assert.Equal(t, "2024-06-03", entries[2].Date)
		require.Len(t, limited, 2)
		assert.Equal(t, "2024-06-04", limited[1].Date)
	})

	t.Run("should return empty list without events", func(t *testing.T) {
		service, _ := setup(5)

		assert.Empty(t, service.Recent(10))
	})
}

func TestHandler_GetRecent(t *testing.T) {
	service, bus := setup(5)
	publishBooked(t, bus, "2024-06-10")
	publishBooked(t, bus, "2024-06-11")
	handler := NewHandler(service)

	t.Run("should return limited entries", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.GetRecent(rr, httptest.NewRequest("GET", "/api/activity?limit=1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var entries []EntryDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "2024-06-11", entries[0].Date)
		assert.Equal(t, "Booked morning on 2024-06-11", entries[0].Message)
	})

	t.Run("should reject invalid limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.GetRecent(rr, httptest.NewRequest("GET", "/api/activity?limit=-1", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
