package progress

import (
	"math"
	"sort"

	"github.com/studysphere/backend/internal/models"
)

// AggregateSubjects groups attempts by the subject of their passage.
// Attempts whose passage has no known subject are skipped.
func AggregateSubjects(attempts []models.AttemptRecord, subjectOf map[int64]string) map[string]models.SubjectStat {
	type acc struct{ n, total int }
	sums := make(map[string]*acc)
	for _, a := range attempts {
		subject, ok := subjectOf[a.PassageID]
		if !ok || subject == "" {
			continue
		}
		s, ok := sums[subject]
		if !ok {
			s = &acc{}
			sums[subject] = s
		}
		s.n++
		s.total += a.Score
	}

	out := make(map[string]models.SubjectStat, len(sums))
	for subject, s := range sums {
		out[subject] = models.SubjectStat{Attempts: s.n, AverageScore: roundedMean(s.total, s.n)}
	}
	return out
}

// ComputeUserStats derives the user-level aggregate from raw attempts.
// Averages round half away from zero; total time is floored to minutes.
func ComputeUserStats(attempts []models.AttemptRecord, subjectOf map[int64]string) models.UserStats {
	totalScore, totalSec := 0, 0
	for _, a := range attempts {
		totalScore += a.Score
		totalSec += a.TimeTakenSec
	}
	return models.UserStats{
		TotalAttempts:    len(attempts),
		AverageScore:     roundedMean(totalScore, len(attempts)),
		TotalTimeMinutes: totalSec / 60,
		SubjectStats:     AggregateSubjects(attempts, subjectOf),
	}
}

// SubjectProgress turns the subject breakdown into display rows sorted by name.
func SubjectProgress(stats models.UserStats) []models.SubjectProgress {
	rows := make([]models.SubjectProgress, 0, len(stats.SubjectStats))
	for subject, s := range stats.SubjectStats {
		rows = append(rows, models.SubjectProgress{
			Subject:       subject,
			Attempts:      s.Attempts,
			AttemptsLabel: attemptsLabel(s.Attempts),
			AverageScore:  s.AverageScore,
			Band:          BandFor(s.AverageScore),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Subject < rows[j].Subject })
	return rows
}

func roundedMean(total, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}
