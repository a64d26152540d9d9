package attempts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/studysphere/backend/internal/models"
	"github.com/studysphere/backend/internal/progress"
)

var ErrPassageNotFound = errors.New("passage not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Attempts ────────────────────────────────────────────

// FetchAttempts returns the user's most recent attempts, newest first.
func (s *Store) FetchAttempts(ctx context.Context, userID int64, limit int) ([]models.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, passage_id, score, time_taken_sec, attempted_at
		 FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY attempted_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.AttemptRecord{}
	for rows.Next() {
		var a models.AttemptRecord
		if err := rows.Scan(&a.ID, &a.PassageID, &a.Score, &a.TimeTakenSec, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *Store) RecordAttempt(ctx context.Context, userID int64, passageID int64, score, timeTakenSec int, at time.Time) (*models.AttemptRecord, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM passages WHERE id = $1)`, passageID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check passage: %w", err)
	}
	if !exists {
		return nil, ErrPassageNotFound
	}

	a := models.AttemptRecord{
		ID:           uuid.New().String(),
		PassageID:    passageID,
		Score:        score,
		TimeTakenSec: timeTakenSec,
		AttemptedAt:  at,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, user_id, passage_id, score, time_taken_sec, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, userID, a.PassageID, a.Score, a.TimeTakenSec, a.AttemptedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}
	return &a, nil
}

// ── Stats ───────────────────────────────────────────────

// FetchUserStats aggregates every attempt the user has made, using the
// passage subject for the per-subject breakdown.
func (s *Store) FetchUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.passage_id, a.score, a.time_taken_sec, a.attempted_at, p.subject
		 FROM quiz_attempts a
		 JOIN passages p ON p.id = a.passage_id
		 WHERE a.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempt history: %w", err)
	}
	defer rows.Close()

	var history []subjectAttempt
	for rows.Next() {
		var sa subjectAttempt
		a := &sa.attempt
		if err := rows.Scan(&a.ID, &a.PassageID, &a.Score, &a.TimeTakenSec, &a.AttemptedAt, &sa.subject); err != nil {
			return nil, fmt.Errorf("scan attempt history: %w", err)
		}
		history = append(history, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return userStatsFrom(history), nil
}

type subjectAttempt struct {
	attempt models.AttemptRecord
	subject string
}

func userStatsFrom(history []subjectAttempt) *models.UserStats {
	attempts := make([]models.AttemptRecord, 0, len(history))
	subjectOf := make(map[int64]string, len(history))
	for _, h := range history {
		attempts = append(attempts, h.attempt)
		subjectOf[h.attempt.PassageID] = h.subject
	}
	stats := progress.ComputeUserStats(attempts, subjectOf)
	return &stats
}

// ── Passages ────────────────────────────────────────────

func (s *Store) PassageTitles(ctx context.Context, passageIDs []int64) (map[int64]string, error) {
	titles := make(map[int64]string, len(passageIDs))
	if len(passageIDs) == 0 {
		return titles, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title FROM passages WHERE id = ANY($1)`,
		pq.Array(passageIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("query passage titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scan passage title: %w", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}
