package booking

import (
	"fmt"

	"github.com/goccy/go-json"
)

// EncodeMonth serializes the record in its canonical form, zero counts and empty days omitted.
func EncodeMonth(record MonthRecord) (string, error) {
	out := make(map[string]DayBookings, len(record))
	for date, day := range record {
		if day.IsEmpty() {
			continue
		}
		out[string(date)] = day
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode month record: %w", err)
	}
	return string(b), nil
}

// DecodeMonth parses a stored month record. Besides integer counts it accepts the
// earlier value shapes: booleans, objects carrying a name and the "full" slot key.
// Entries it cannot make sense of are skipped.
func DecodeMonth(data string) (MonthRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode month record: %w", err)
	}

	record := make(MonthRecord, len(raw))
	for key, value := range raw {
		date, err := ParseDateKey(key)
		if err != nil {
			continue
		}
		slots, ok := value.(map[string]any)
		if !ok {
			continue
		}
		var day DayBookings
		for slotName, v := range slots {
			slot, err := ParseSlot(slotName)
			if err != nil {
				continue
			}
			if n := decodeCount(v); n > day.Count(slot) {
				day = day.with(slot, n)
			}
		}
		record.Put(date, day)
	}
	return record, nil
}

func decodeCount(v any) int {
	switch value := v.(type) {
	case float64:
		if value < 0 {
			return 0
		}
		return int(value)
	case bool:
		if value {
			return 1
		}
	case map[string]any:
		return 1
	}
	return 0
}

// VoteLock records which slots this device has booked, keyed by date.
type VoteLock map[DateKey]map[Slot]bool

func EncodeVotes(votes VoteLock) (string, error) {
	out := make(map[string]map[string]bool, len(votes))
	for date, slots := range votes {
		kept := make(map[string]bool, len(slots))
		for slot, voted := range slots {
			if voted {
				kept[string(slot)] = true
			}
		}
		if len(kept) > 0 {
			out[string(date)] = kept
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode votes: %w", err)
	}
	return string(b), nil
}

func DecodeVotes(data string) (VoteLock, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode votes: %w", err)
	}

	votes := make(VoteLock, len(raw))
	for key, value := range raw {
		date, err := ParseDateKey(key)
		if err != nil {
			continue
		}
		slots, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for slotName, v := range slots {
			slot, err := ParseSlot(slotName)
			if err != nil {
				continue
			}
			if voted, ok := v.(bool); ok && voted {
				votes.Mark(date, slot)
			}
		}
	}
	return votes, nil
}
