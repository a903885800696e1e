package calendar

import (
	"time"

	"github.com/thewell/wellcal/pkg/booking"
)

const (
	daysInWeek = 7
	fixedCells = 6 * daysInWeek
)

// Cell is one day square of the month view. Cells of the previous and next month pad the
// first and last week and carry InMonth=false and no bookings.
type Cell struct {
	Date     booking.DateKey     `json:"date"`
	Day      int                 `json:"day"`
	InMonth  bool                `json:"inMonth"`
	Today    bool                `json:"today"`
	Bookings booking.DayBookings `json:"bookings"`
}

type MonthGrid struct {
	Month     string       `json:"month"`
	WeekStart time.Weekday `json:"weekStart"`
	Weekdays  []string     `json:"weekdays"`
	Cells     []Cell       `json:"cells"`
}

// NewMonthGrid lays out the month in weeks starting on weekStart. The first
// (weekday of the 1st - weekStart) mod 7 cells belong to the previous month and
// the last week is filled up with days of the next month.
func NewMonthGrid(month booking.MonthKey, weekStart time.Weekday, today time.Time, record booking.MonthRecord) MonthGrid {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Sunday
	}
	first := month.FirstDay()
	leading := (int(first.Weekday()) - int(weekStart) + daysInWeek) % daysInWeek
	days := month.DaysIn()
	total := leading + days
	if rest := total % daysInWeek; rest != 0 {
		total += daysInWeek - rest
	}

	todayKey := booking.DateKeyFromTime(today)
	cells := make([]Cell, 0, total)
	for i := 0; i < total; i++ {
		cells = append(cells, newCell(first.AddDate(0, 0, i-leading), month, todayKey, record))
	}

	return MonthGrid{
		Month:     month.String(),
		WeekStart: weekStart,
		Weekdays:  weekdayNames(weekStart),
		Cells:     cells,
	}
}

// FixedWeeks pads the grid to six weeks so every month renders with the same height.
func (g MonthGrid) FixedWeeks() MonthGrid {
	if len(g.Cells) == 0 || len(g.Cells) >= fixedCells {
		return g
	}
	month, err := booking.ParseMonthKey(g.Month)
	if err != nil {
		return g
	}
	cells := make([]Cell, len(g.Cells), fixedCells)
	copy(cells, g.Cells)
	last := g.Cells[len(g.Cells)-1].Date.Time()
	for i := 1; len(cells) < fixedCells; i++ {
		cells = append(cells, newCell(last.AddDate(0, 0, i), month, "", nil))
	}
	g.Cells = cells
	return g
}

// Weeks splits the cells into rows of seven.
func (g MonthGrid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(g.Cells)/daysInWeek)
	for i := 0; i+daysInWeek <= len(g.Cells); i += daysInWeek {
		weeks = append(weeks, g.Cells[i:i+daysInWeek])
	}
	return weeks
}

func newCell(date time.Time, month booking.MonthKey, today booking.DateKey, record booking.MonthRecord) Cell {
	key := booking.DateKeyFromTime(date)
	cell := Cell{
		Date:    key,
		Day:     date.Day(),
		InMonth: booking.MonthKeyFromDate(date).Equal(month),
	}
	if cell.InMonth {
		cell.Today = key == today
		cell.Bookings = record.Day(key)
	}
	return cell
}

func weekdayNames(weekStart time.Weekday) []string {
	names := make([]string, 0, daysInWeek)
	for i := 0; i < daysInWeek; i++ {
		names = append(names, time.Weekday((int(weekStart) + i) % daysInWeek).String()[:3])
	}
	return names
}
