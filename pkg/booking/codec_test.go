package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMonth(t *testing.T) {
	// given
	record := MonthRecord{
		"2024-06-10": {Morning: 2, FullDay: 0},
		"2024-06-11": {},
	}

	// when
	data, err := EncodeMonth(record)

	// then
	require.NoError(t, err)
	assert.JSONEq(t, `{"2024-06-10":{"morning":2}}`, data)
}

func TestEncodeMonth_Empty(t *testing.T) {
	data, err := EncodeMonth(MonthRecord{})

	require.NoError(t, err)
	assert.Equal(t, "{}", data)
}

func TestDecodeMonth(t *testing.T) {
	tests := []struct {
		name string
		data string
		want MonthRecord
	}{
		{
			name: "counts",
			data: `{"2024-06-10":{"morning":2,"afternoon":1}}`,
			want: MonthRecord{"2024-06-10": {Morning: 2, Afternoon: 1}},
		},
		{
			name: "booleans",
			data: `{"2024-06-10":{"morning":true,"afternoon":false}}`,
			want: MonthRecord{"2024-06-10": {Morning: 1}},
		},
		{
			name: "named bookings and legacy full key",
			data: `{"2024-06-10":{"full":{"name":"Ada"}}}`,
			want: MonthRecord{"2024-06-10": {FullDay: 1}},
		},
		{
			name: "unknown keys and values are skipped",
			data: `{"2024-06-10":{"evening":3,"morning":"x"},"2024-06-11":5,"garbage":{"morning":1},"2024-06-12":{"afternoon":-2}}`,
			want: MonthRecord{},
		},
		{
			name: "mixed shapes on one day",
			data: `{"2024-06-10":{"fullday":1,"full":true,"morning":1}}`,
			want: MonthRecord{"2024-06-10": {FullDay: 1, Morning: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := DecodeMonth(tt.data)

			require.NoError(t, err)
			assert.Equal(t, tt.want, record)
		})
	}

	t.Run("should fail on malformed json", func(t *testing.T) {
		_, err := DecodeMonth(`{"2024-06-10":`)
		assert.Error(t, err)
	})
}

func TestVotesCodec(t *testing.T) {
	t.Run("should encode only true votes", func(t *testing.T) {
		votes := VoteLock{
			"2024-06-10": {Morning: true, Afternoon: false},
			"2024-06-11": {FullDay: false},
		}

		data, err := EncodeVotes(votes)

		require.NoError(t, err)
		assert.JSONEq(t, `{"2024-06-10":{"morning":true}}`, data)
	})

	t.Run("should decode tolerating false and legacy keys", func(t *testing.T) {
		votes, err := DecodeVotes(`{"2024-06-10":{"full":true,"morning":false},"2024-06-11":{"afternoon":false}}`)

		require.NoError(t, err)
		assert.Equal(t, VoteLock{"2024-06-10": {FullDay: true}}, votes)
	})
}
