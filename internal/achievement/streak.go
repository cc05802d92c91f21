package achievement

import (
	"sort"
	"time"
)

// ConsecutiveDays counts the run of consecutive calendar days (in loc)
// ending at the most recent submission date.
func ConsecutiveDays(dates []time.Time, loc *time.Location) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		local := d.In(loc)
		// Calendar days are compared in UTC to stay clear of DST-length days.
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}
