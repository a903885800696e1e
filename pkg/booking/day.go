package booking

import "sort"

// DayBookings holds the booking counts of one day. A zero count means the slot is free.
type DayBookings struct {
	Morning   int `json:"morning,omitempty"`
	Afternoon int `json:"afternoon,omitempty"`
	FullDay   int `json:"fullday,omitempty"`
}

func (d DayBookings) Count(slot Slot) int {
	switch slot {
	case Morning:
		return d.Morning
	case Afternoon:
		return d.Afternoon
	case FullDay:
		return d.FullDay
	}
	return 0
}

// with returns a copy with the slot count set, negative counts are floored at 0.
func (d DayBookings) with(slot Slot, count int) DayBookings {
	if count < 0 {
		count = 0
	}
	switch slot {
	case Morning:
		d.Morning = count
	case Afternoon:
		d.Afternoon = count
	case FullDay:
		d.FullDay = count
	}
	return d
}

func (d DayBookings) IsEmpty() bool {
	return d.Morning <= 0 && d.Afternoon <= 0 && d.FullDay <= 0
}

func (d DayBookings) Total() int {
	return d.Morning + d.Afternoon + d.FullDay
}

// MonthRecord is the ledger of one month keyed by date. Only days with a booking are present.
type MonthRecord map[DateKey]DayBookings

func (r MonthRecord) Day(date DateKey) DayBookings {
	if r == nil {
		return DayBookings{}
	}
	return r[date]
}

// Put stores the day, removing it when it holds no booking.
func (r MonthRecord) Put(date DateKey, day DayBookings) {
	if day.IsEmpty() {
		delete(r, date)
		return
	}
	r[date] = day
}

// Dates returns the booked dates in ascending order.
func (r MonthRecord) Dates() []DateKey {
	dates := make([]DateKey, 0, len(r))
	for d := range r {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}
