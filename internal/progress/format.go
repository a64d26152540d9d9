package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/studysphere/backend/internal/models"
)

// FormatRelativeTime buckets the time since ts into whole minutes, hours or
// days, truncating toward negative infinity.
func FormatRelativeTime(ts, now time.Time) string {
	elapsed := now.Sub(ts)
	mins := int(math.Floor(elapsed.Minutes()))
	hours := int(math.Floor(elapsed.Hours()))
	days := int(math.Floor(elapsed.Hours() / 24))

	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", days)
}

// FormatStudyTime renders total minutes as "2h 5m", or "45m" under an hour.
func FormatStudyTime(totalMinutes int) string {
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// BandFor maps a score to its display band: high at 80, medium at 60.
func BandFor(score int) models.ScoreBand {
	switch {
	case score >= 80:
		return models.BandHigh
	case score >= 60:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

func attemptsLabel(n int) string {
	if n == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", n)
}
