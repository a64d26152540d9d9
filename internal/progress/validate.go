package progress

import (
	"sort"

	"github.com/studysphere/backend/internal/models"
)

// ValidateStats rejects stats with negative counts, out-of-range scores or a
// missing subject breakdown.
func ValidateStats(stats *models.UserStats) error {
	if stats == nil {
		return invalidf("stats missing")
	}
	if stats.TotalAttempts < 0 {
		return invalidf("total_attempts %d is negative", stats.TotalAttempts)
	}
	if !validScore(stats.AverageScore) {
		return invalidf("average_score %d out of range 0-100", stats.AverageScore)
	}
	if stats.TotalTimeMinutes < 0 {
		return invalidf("total_time_minutes %d is negative", stats.TotalTimeMinutes)
	}
	if stats.SubjectStats == nil {
		return invalidf("subject_stats missing")
	}

	subjects := make([]string, 0, len(stats.SubjectStats))
	for name := range stats.SubjectStats {
		subjects = append(subjects, name)
	}
	sort.Strings(subjects)

	for _, name := range subjects {
		s := stats.SubjectStats[name]
		if name == "" {
			return invalidf("subject with empty name")
		}
		if s.Attempts < 0 {
			return invalidf("subject %q: attempts %d is negative", name, s.Attempts)
		}
		if !validScore(s.AverageScore) {
			return invalidf("subject %q: average_score %d out of range 0-100", name, s.AverageScore)
		}
	}
	return nil
}

// ValidateAttempts checks every record; the first bad one is reported by index.
func ValidateAttempts(attempts []models.AttemptRecord) error {
	for i, a := range attempts {
		if !validScore(a.Score) {
			return invalidf("attempt %d: score %d out of range 0-100", i, a.Score)
		}
		if a.TimeTakenSec < 0 {
			return invalidf("attempt %d: time_taken_sec %d is negative", i, a.TimeTakenSec)
		}
		if a.AttemptedAt.IsZero() {
			return invalidf("attempt %d: attempted_at missing", i)
		}
	}
	return nil
}

func validScore(score int) bool {
	return score >= 0 && score <= 100
}
