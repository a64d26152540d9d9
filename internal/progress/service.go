package progress

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/studysphere/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAttemptLimit = 50
	DefaultRecentLimit  = 10
)

// Source supplies a user's attempt records and aggregate stats.
type Source interface {
	FetchAttempts(ctx context.Context, userID int64, limit int) ([]models.AttemptRecord, error)
	FetchUserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

// TitleLookup resolves passage IDs to display titles.
type TitleLookup interface {
	PassageTitles(ctx context.Context, passageIDs []int64) (map[int64]string, error)
}

type Options struct {
	AttemptLimit int
	RecentLimit  int
}

type Service struct {
	source       Source
	titles       TitleLookup
	attemptLimit int
	recentLimit  int
}

func NewService(source Source, titles TitleLookup, opts Options) *Service {
	if opts.AttemptLimit <= 0 {
		opts.AttemptLimit = DefaultAttemptLimit
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &Service{
		source:       source,
		titles:       titles,
		attemptLimit: opts.AttemptLimit,
		recentLimit:  opts.RecentLimit,
	}
}

// ── Dashboard ───────────────────────────────────────────

// Dashboard fetches stats and attempts concurrently and derives every
// dashboard figure from them. Source failures are wrapped in ErrCollaborator;
// malformed source data surfaces as ErrInvalidInput.
func (s *Service) Dashboard(ctx context.Context, userID int64, now time.Time) (*models.DashboardResponse, error) {
	var (
		stats    *models.UserStats
		attempts []models.AttemptRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.source.FetchUserStats(gctx, userID)
		if err != nil {
			return fmt.Errorf("%w: fetch stats: %w", ErrCollaborator, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		attempts, err = s.source.FetchAttempts(gctx, userID, s.attemptLimit)
		if err != nil {
			return fmt.Errorf("%w: fetch attempts: %w", ErrCollaborator, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	streak := ComputeStreak(attempts, now)
	achievements, err := EvaluateAchievements(stats, attempts, streak)
	if err != nil {
		return nil, err
	}

	recent := attempts
	if len(recent) > s.recentLimit {
		recent = recent[:s.recentLimit]
	}
	titles := s.lookupTitles(ctx, recent)

	return &models.DashboardResponse{
		TotalAttempts:    stats.TotalAttempts,
		AverageScore:     stats.AverageScore,
		TotalTimeMinutes: stats.TotalTimeMinutes,
		TotalTime:        FormatStudyTime(stats.TotalTimeMinutes),
		CurrentStreak:    streak,
		Subjects:         SubjectProgress(*stats),
		RecentActivity:   RecentActivity(recent, s.recentLimit, titles, now),
		Achievements:     achievements,
	}, nil
}

// lookupTitles degrades to "Unknown Passage" entries when titles can't be
// resolved; they are display-only.
func (s *Service) lookupTitles(ctx context.Context, attempts []models.AttemptRecord) map[int64]string {
	if s.titles == nil || len(attempts) == 0 {
		return nil
	}

	seen := make(map[int64]bool, len(attempts))
	ids := make([]int64, 0, len(attempts))
	for _, a := range attempts {
		if !seen[a.PassageID] {
			seen[a.PassageID] = true
			ids = append(ids, a.PassageID)
		}
	}

	titles, err := s.titles.PassageTitles(ctx, ids)
	if err != nil {
		log.Printf("[progress] passage title lookup failed: %v", err)
		return nil
	}
	return titles
}
