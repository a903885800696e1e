package event_bus

const (
	SlotBooked   EventType = "booking.slot.booked"
	SlotUndone   EventType = "booking.slot.undone"
	MonthCleared EventType = "booking.month.cleared"
)

// BookingChanged is published after a slot of a day was booked or undone and the month was stored.
type BookingChanged struct {
	Month    string // YYYY-MM
	Date     string // YYYY-MM-DD
	Slot     string
	DeviceId string
	// Counts of the day after the change.
	Morning   int
	Afternoon int
	FullDay   int
}

type MonthClearedEvent struct {
	Month    string
	DeviceId string
}
