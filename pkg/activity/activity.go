package activity

import (
	"fmt"
	"time"
)

type Kind string

const (
	Booked       Kind = "booked"
	Undone       Kind = "undone"
	MonthCleared Kind = "cleared"
)

// Entry is one change of the ledger as shown in the activity feed.
type Entry struct {
	Id       string
	Kind     Kind
	Month    string
	Date     string
	Slot     string
	DeviceId string
	At       time.Time
}

func (e Entry) Message() string {
	switch e.Kind {
	case Booked:
		return fmt.Sprintf("Booked %s on %s", e.Slot, e.Date)
	case Undone:
		return fmt.Sprintf("Removed %s booking on %s", e.Slot, e.Date)
	case MonthCleared:
		return fmt.Sprintf("Cleared all bookings of %s", e.Month)
	}
	return string(e.Kind)
}
