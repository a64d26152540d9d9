package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/studysphere/backend/internal/models"
)

func TestAggregateSubjects(t *testing.T) {
	subjectOf := map[int64]string{1: "Biology", 2: "Physics", 3: ""}
	attempts := []models.AttemptRecord{
		{PassageID: 1, Score: 85},
		{PassageID: 1, Score: 90},
		{PassageID: 2, Score: 40},
		{PassageID: 3, Score: 100},
		{PassageID: 99, Score: 100},
	}

	got := AggregateSubjects(attempts, subjectOf)
	assert.Equal(t, map[string]models.SubjectStat{
		"Biology": {Attempts: 2, AverageScore: 88},
		"Physics": {Attempts: 1, AverageScore: 40},
	}, got)
}

func TestComputeUserStats(t *testing.T) {
	subjectOf := map[int64]string{1: "Biology"}
	attempts := []models.AttemptRecord{
		{PassageID: 1, Score: 70, TimeTakenSec: 100},
		{PassageID: 1, Score: 75, TimeTakenSec: 50},
	}

	got := ComputeUserStats(attempts, subjectOf)
	assert.Equal(t, 2, got.TotalAttempts)
	assert.Equal(t, 73, got.AverageScore)
	assert.Equal(t, 2, got.TotalTimeMinutes)
	assert.Equal(t, models.SubjectStat{Attempts: 2, AverageScore: 73}, got.SubjectStats["Biology"])

	empty := ComputeUserStats(nil, nil)
	assert.Equal(t, 0, empty.AverageScore)
	assert.NotNil(t, empty.SubjectStats)
	assert.NoError(t, ValidateStats(&empty))
}

func TestSubjectProgress(t *testing.T) {
	stats := models.UserStats{SubjectStats: map[string]models.SubjectStat{
		"Physics": {Attempts: 3, AverageScore: 65},
		"Biology": {Attempts: 1, AverageScore: 92},
	}}

	got := SubjectProgress(stats)
	assert.Equal(t, []models.SubjectProgress{
		{Subject: "Biology", Attempts: 1, AttemptsLabel: "1 attempt", AverageScore: 92, Band: models.BandHigh},
		{Subject: "Physics", Attempts: 3, AttemptsLabel: "3 attempts", AverageScore: 65, Band: models.BandMedium},
	}, got)
}

func TestRecentActivity(t *testing.T) {
	attempts := []models.AttemptRecord{
		{ID: "a", PassageID: 1, Score: 95, AttemptedAt: testNow.Add(-10 * time.Minute)},
		{ID: "b", PassageID: 2, Score: 50, AttemptedAt: testNow.Add(-3 * time.Hour)},
		{ID: "c", PassageID: 1, Score: 70, AttemptedAt: testNow.Add(-49 * time.Hour)},
	}
	titles := map[int64]string{1: "Cell Membranes"}

	got := RecentActivity(attempts, 2, titles, testNow)
	assert.Len(t, got, 2)
	assert.Equal(t, "Cell Membranes", got[0].PassageTitle)
	assert.Equal(t, models.BandHigh, got[0].Band)
	assert.Equal(t, "10m ago", got[0].TimeAgo)
	assert.Equal(t, "Unknown Passage", got[1].PassageTitle)
	assert.Equal(t, models.BandLow, got[1].Band)
	assert.Equal(t, "3h ago", got[1].TimeAgo)

	all := RecentActivity(attempts, 10, nil, testNow)
	assert.Len(t, all, 3)
	assert.Equal(t, "2d ago", all[2].TimeAgo)

	assert.Empty(t, RecentActivity(attempts, 0, titles, testNow))
}
