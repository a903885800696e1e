package booking

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSlot = errors.New("invalid slot")

type Slot string

const (
	Morning   Slot = "morning"
	Afternoon Slot = "afternoon"
	FullDay   Slot = "fullday"
)

// Slots lists all slots in display order.
var Slots = []Slot{Morning, Afternoon, FullDay}

// ParseSlot accepts the canonical slot names and the legacy "full".
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning":
		return Morning, nil
	case "afternoon":
		return Afternoon, nil
	case "fullday", "full":
		return FullDay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

func (s Slot) IsHalfDay() bool {
	return s == Morning || s == Afternoon
}

func (s Slot) Label() string {
	switch s {
	case Morning:
		return "Morning"
	case Afternoon:
		return "Afternoon"
	case FullDay:
		return "Full day"
	}
	return string(s)
}
