package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studysphere/backend/internal/models"
)

type fakeSource struct {
	mu        sync.Mutex
	stats     *models.UserStats
	attempts  []models.AttemptRecord
	statsErr  error
	fetchErr  error
	lastLimit int
}

func (f *fakeSource) FetchAttempts(ctx context.Context, userID int64, limit int) ([]models.AttemptRecord, error) {
	f.mu.Lock()
	f.lastLimit = limit
	f.mu.Unlock()
	return f.attempts, f.fetchErr
}

func (f *fakeSource) FetchUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return f.stats, f.statsErr
}

type fakeTitles struct {
	titles map[int64]string
	err    error
	asked  []int64
}

func (f *fakeTitles) PassageTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	f.asked = ids
	return f.titles, f.err
}

func dashboardFixture() *fakeSource {
	return &fakeSource{
		stats: &models.UserStats{
			TotalAttempts:    12,
			AverageScore:     81,
			TotalTimeMinutes: 95,
			SubjectStats: map[string]models.SubjectStat{
				"Biology": {Attempts: 7, AverageScore: 86},
				"Physics": {Attempts: 5, AverageScore: 74},
			},
		},
		attempts: []models.AttemptRecord{
			{ID: "a1", PassageID: 10, Score: 100, TimeTakenSec: 420, AttemptedAt: testNow.Add(-30 * time.Minute)},
			{ID: "a2", PassageID: 11, Score: 64, TimeTakenSec: 900, AttemptedAt: testNow.Add(-26 * time.Hour)},
			{ID: "a3", PassageID: 10, Score: 78, TimeTakenSec: 610, AttemptedAt: testNow.Add(-50 * time.Hour)},
		},
	}
}

func TestServiceDashboard(t *testing.T) {
	src := dashboardFixture()
	titles := &fakeTitles{titles: map[int64]string{10: "Photosynthesis"}}
	svc := NewService(src, titles, Options{RecentLimit: 2})

	got, err := svc.Dashboard(context.Background(), 7, testNow)
	require.NoError(t, err)

	assert.Equal(t, DefaultAttemptLimit, src.lastLimit)
	assert.Equal(t, 12, got.TotalAttempts)
	assert.Equal(t, 81, got.AverageScore)
	assert.Equal(t, "1h 35m", got.TotalTime)
	assert.Equal(t, 3, got.CurrentStreak)

	require.Len(t, got.Subjects, 2)
	assert.Equal(t, "Biology", got.Subjects[0].Subject)

	require.Len(t, got.RecentActivity, 2)
	assert.Equal(t, "Photosynthesis", got.RecentActivity[0].PassageTitle)
	assert.Equal(t, "30m ago", got.RecentActivity[0].TimeAgo)
	assert.Equal(t, "Unknown Passage", got.RecentActivity[1].PassageTitle)
	assert.Equal(t, "1d ago", got.RecentActivity[1].TimeAgo)
	assert.ElementsMatch(t, []int64{10, 11}, titles.asked)

	require.Len(t, got.Achievements, 6)
	assert.True(t, got.Achievements[0].Unlocked)
	assert.True(t, got.Achievements[1].Unlocked)
	assert.True(t, got.Achievements[2].Unlocked)
	assert.Equal(t, "3/7 days", got.Achievements[3].Progress)
	assert.Equal(t, "2/5 subjects", got.Achievements[4].Progress)
	assert.False(t, got.Achievements[5].Unlocked)
}

func TestServiceDashboard_CollaboratorFailure(t *testing.T) {
	boom := errors.New("connection refused")

	src := dashboardFixture()
	src.statsErr = boom
	_, err := NewService(src, nil, Options{}).Dashboard(context.Background(), 1, testNow)
	assert.ErrorIs(t, err, ErrCollaborator)

	src = dashboardFixture()
	src.fetchErr = boom
	_, err = NewService(src, nil, Options{}).Dashboard(context.Background(), 1, testNow)
	assert.ErrorIs(t, err, ErrCollaborator)
}

func TestServiceDashboard_CollaboratorErrorKeepsCause(t *testing.T) {
	src := dashboardFixture()
	src.fetchErr = context.DeadlineExceeded

	_, err := NewService(src, nil, Options{}).Dashboard(context.Background(), 1, testNow)
	assert.ErrorIs(t, err, ErrCollaborator)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServiceDashboard_InvalidSourceData(t *testing.T) {
	src := dashboardFixture()
	src.stats.SubjectStats = nil

	_, err := NewService(src, nil, Options{}).Dashboard(context.Background(), 1, testNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrCollaborator)
}

func TestServiceDashboard_TitleLookupFailureDegrades(t *testing.T) {
	src := dashboardFixture()
	titles := &fakeTitles{err: errors.New("timeout")}

	got, err := NewService(src, titles, Options{}).Dashboard(context.Background(), 1, testNow)
	require.NoError(t, err)
	require.Len(t, got.RecentActivity, 3)
	for _, e := range got.RecentActivity {
		assert.Equal(t, "Unknown Passage", e.PassageTitle)
	}
}

func TestServiceDashboard_EmptyHistory(t *testing.T) {
	src := &fakeSource{stats: &models.UserStats{SubjectStats: map[string]models.SubjectStat{}}}

	got, err := NewService(src, &fakeTitles{}, Options{}).Dashboard(context.Background(), 1, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, "0m", got.TotalTime)
	assert.Empty(t, got.RecentActivity)
	assert.Empty(t, got.Subjects)
	assert.Len(t, got.Achievements, 6)
}
