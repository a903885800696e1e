package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")
var ErrInvalidMonth = errors.New("invalid month")

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// DateKey is a calendar date in YYYY-MM-DD form.
type DateKey string

func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if t.Format(dateLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateKey(s), nil
}

func DateKeyFromTime(t time.Time) DateKey {
	return DateKey(t.Format(dateLayout))
}

// Time returns the date at midnight UTC. The key must be valid.
func (d DateKey) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d DateKey) Month() MonthKey {
	return MonthKeyFromDate(d.Time())
}

func (d DateKey) String() string {
	return string(d)
}

type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthKeyFromDate(date time.Time) MonthKey {
	return MonthKey{Year: date.Year(), Month: date.Month()}
}

// ParseMonthKey converts "2024-06" to MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil || t.Format(monthLayout) != s {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthKeyFromDate(t), nil
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m MonthKey) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m MonthKey) DaysIn() int {
	return m.FirstDay().AddDate(0, 1, -1).Day()
}

func (m MonthKey) Day(day int) DateKey {
	return DateKeyFromTime(time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC))
}

func (m MonthKey) Next() MonthKey {
	return MonthKeyFromDate(m.FirstDay().AddDate(0, 1, 0))
}

func (m MonthKey) Prev() MonthKey {
	return MonthKeyFromDate(m.FirstDay().AddDate(0, -1, 0))
}

func (m MonthKey) Equal(other MonthKey) bool {
	return m.Year == other.Year && m.Month == other.Month
}

func (m MonthKey) Before(other MonthKey) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m MonthKey) After(other MonthKey) bool {
	return other.Before(m)
}
