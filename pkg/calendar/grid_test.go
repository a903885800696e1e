package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thewell/wellcal/pkg/booking"
)

var june2024 = booking.MonthKey{Year: 2024, Month: time.June}

func TestNewMonthGrid(t *testing.T) {
	t.Run("should start june 2024 on saturday with sunday weeks", func(t *testing.T) {
		// June 1st 2024 is a Saturday
		grid := NewMonthGrid(june2024, time.Sunday, time.Time{}, booking.MonthRecord{})

		require.Len(t, grid.Cells, 42)
		assert.Equal(t, booking.DateKey("2024-05-26"), grid.Cells[0].Date)
		assert.False(t, grid.Cells[5].InMonth)
		assert.True(t, grid.Cells[6].InMonth)
		assert.Equal(t, 1, grid.Cells[6].Day)
		assert.Equal(t, booking.DateKey("2024-06-30"), grid.Cells[35].Date)
		assert.False(t, grid.Cells[36].InMonth)
		assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, grid.Weekdays)
	})

	t.Run("should shift leading cells for monday weeks", func(t *testing.T) {
		grid := NewMonthGrid(june2024, time.Monday, time.Time{}, booking.MonthRecord{})

		// (6 - 1) mod 7 leading cells, 35 cells in total
		require.Len(t, grid.Cells, 35)
		assert.Equal(t, booking.DateKey("2024-06-01"), grid.Cells[5].Date)
		assert.Equal(t, "Mon", grid.Weekdays[0])
		assert.Len(t, grid.Weeks(), 5)
	})

	t.Run("should use four weeks for february 2015", func(t *testing.T) {
		// February 1st 2015 is a Sunday and the month has 28 days
		grid := NewMonthGrid(booking.MonthKey{Year: 2015, Month: time.February}, time.Sunday, time.Time{}, nil)

		assert.Len(t, grid.Cells, 28)
		for _, cell := range grid.Cells {
			assert.True(t, cell.InMonth)
		}
	})

	t.Run("should mark today and carry bookings", func(t *testing.T) {
		record := booking.MonthRecord{"2024-06-10": {Morning: 2}}
		today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

		grid := NewMonthGrid(june2024, time.Sunday, today, record)

		cell := grid.Cells[6+9]
		assert.Equal(t, booking.DateKey("2024-06-10"), cell.Date)
		assert.True(t, cell.Today)
		assert.Equal(t, booking.DayBookings{Morning: 2}, cell.Bookings)
		for i, c := range grid.Cells {
			if i != 15 {
				assert.False(t, c.Today)
			}
		}
	})

	t.Run("should fall back to sunday for invalid week start", func(t *testing.T) {
		grid := NewMonthGrid(june2024, time.Weekday(9), time.Time{}, nil)

		assert.Equal(t, time.Sunday, grid.WeekStart)
	})
}

func TestMonthGrid_FixedWeeks(t *testing.T) {
	t.Run("should pad to six weeks", func(t *testing.T) {
		grid := NewMonthGrid(june2024, time.Monday, time.Time{}, nil).FixedWeeks()

		require.Len(t, grid.Cells, 42)
		assert.Equal(t, booking.DateKey("2024-07-07"), grid.Cells[41].Date)
		assert.False(t, grid.Cells[41].InMonth)
		assert.Len(t, grid.Weeks(), 6)
	})

	t.Run("should keep six week grid unchanged", func(t *testing.T) {
		grid := NewMonthGrid(june2024, time.Sunday, time.Time{}, nil)

		assert.Equal(t, grid, grid.FixedWeeks())
	})
}
