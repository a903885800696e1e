package booking

import (
	"errors"
	"fmt"
)

var ErrConfirmationRequired = errors.New("confirmation required")

type Conflict int

const (
	NoConflict Conflict = iota
	// HalfDayBooked: a full day is requested while a morning or afternoon is booked.
	HalfDayBooked
	// FullDayBooked: a half day is requested while the full day is booked.
	FullDayBooked
)

func (c Conflict) String() string {
	switch c {
	case HalfDayBooked:
		return "half_day_booked"
	case FullDayBooked:
		return "full_day_booked"
	}
	return "none"
}

// Message is the question the user has to confirm to proceed.
func (c Conflict) Message() string {
	switch c {
	case HalfDayBooked:
		return "Morning or afternoon is already booked. Booking the full day will replace them."
	case FullDayBooked:
		return "The full day is already booked. Booking half a day will replace it."
	}
	return ""
}

type Outcome int

const (
	Proceed Outcome = iota
	Cancel
)

// DetectConflict reports whether booking slot on day would displace bookings of the opposite kind.
func DetectConflict(day DayBookings, slot Slot) Conflict {
	switch {
	case slot == FullDay && (day.Morning > 0 || day.Afternoon > 0):
		return HalfDayBooked
	case slot.IsHalfDay() && day.FullDay > 0:
		return FullDayBooked
	}
	return NoConflict
}

func Decide(conflict Conflict, confirmed bool) Outcome {
	if conflict == NoConflict || confirmed {
		return Proceed
	}
	return Cancel
}

// Displace clears the side of the day that conflicts with slot.
func Displace(day DayBookings, conflict Conflict) DayBookings {
	switch conflict {
	case HalfDayBooked:
		day.Morning = 0
		day.Afternoon = 0
	case FullDayBooked:
		day.FullDay = 0
	}
	return day
}

// ConflictError is returned when a booking needs confirmation. It matches ErrConfirmationRequired.
type ConflictError struct {
	Date     DateKey
	Slot     Slot
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s for %s on %s: %s", ErrConfirmationRequired, e.Slot, e.Date, e.Conflict)
}

func (e *ConflictError) Unwrap() error {
	return ErrConfirmationRequired
}
