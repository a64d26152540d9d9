package progress

import (
	"math"
	"sort"
	"time"

	"github.com/studysphere/backend/internal/models"
)

// ComputeStreak counts consecutive calendar days, ending today, with at least
// one attempt. Days are taken in now's location. A run that ends yesterday
// counts as zero: offset 0 must be present for the walk to start.
func ComputeStreak(attempts []models.AttemptRecord, now time.Time) int {
	if len(attempts) == 0 {
		return 0
	}

	loc := now.Location()
	today := startOfDay(now, loc)

	streak := 0
	for _, day := range distinctDaysDesc(attempts, loc) {
		offset := daysBetween(day, today)
		if offset < streak {
			// future-dated attempt
			continue
		}
		if offset != streak {
			break
		}
		streak++
	}
	return streak
}

func distinctDaysDesc(attempts []models.AttemptRecord, loc *time.Location) []time.Time {
	seen := make(map[int64]bool, len(attempts))
	days := make([]time.Time, 0, len(attempts))
	for _, a := range attempts {
		d := startOfDay(a.AttemptedAt, loc)
		if seen[d.Unix()] {
			continue
		}
		seen[d.Unix()] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween rounds so that a 23h or 25h day across a DST change still
// counts as one.
func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
