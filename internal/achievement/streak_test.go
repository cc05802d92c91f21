package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestConsecutiveDays(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"single", []time.Time{day(2025, 3, 1, 10)}, 1},
		{
			"seven in a row unordered with duplicates",
			[]time.Time{
				day(2025, 3, 3, 9), day(2025, 3, 1, 9), day(2025, 3, 7, 22), day(2025, 3, 2, 9),
				day(2025, 3, 5, 9), day(2025, 3, 4, 9), day(2025, 3, 6, 9), day(2025, 3, 6, 23),
			},
			7,
		},
		{
			"gap breaks the run ending at the latest day",
			[]time.Time{day(2025, 3, 10, 9), day(2025, 3, 9, 9), day(2025, 3, 7, 9), day(2025, 3, 6, 9)},
			2,
		},
		{
			"run across a month boundary",
			[]time.Time{day(2025, 2, 27, 9), day(2025, 2, 28, 9), day(2025, 3, 1, 9)},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsecutiveDays(tt.dates, time.UTC))
		})
	}
}

func TestConsecutiveDaysUsesLocation(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	// 02:00 UTC on the 2nd is still the 1st in New York.
	dates := []time.Time{day(2025, 3, 2, 2), day(2025, 3, 1, 15)}
	assert.Equal(t, 1, ConsecutiveDays(dates, ny))
	assert.Equal(t, 2, ConsecutiveDays(dates, time.UTC))
}

func TestLookup(t *testing.T) {
	a, ok := Lookup(Critic)
	assert.True(t, ok)
	assert.Equal(t, "Critic", a.Name)

	_, ok = Lookup("does_not_exist")
	assert.False(t, ok)
	assert.Len(t, Catalog(), 4)
}
