package models

import "time"

// ── Attempt & Stats ──────────────────────────────────────

// AttemptRecord is one completed quiz submission. Records are produced by the
// attempt store and treated as read-only everywhere else.
type AttemptRecord struct {
	ID           string    `json:"id"`
	PassageID    int64     `json:"passage_id"`
	Score        int       `json:"score"`
	TimeTakenSec int       `json:"time_taken_sec"`
	AttemptedAt  time.Time `json:"attempted_at"`
}

type UserStats struct {
	TotalAttempts    int                    `json:"total_attempts"`
	AverageScore     int                    `json:"average_score"`
	TotalTimeMinutes int                    `json:"total_time_minutes"`
	SubjectStats     map[string]SubjectStat `json:"subject_stats"`
}

type SubjectStat struct {
	Attempts     int `json:"attempts"`
	AverageScore int `json:"average_score"`
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	Progress    string `json:"progress"`
}

// ── Score Bands ──────────────────────────────────────────

type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

// ── Request Types ────────────────────────────────────────

type RecordAttemptRequest struct {
	PassageID    int64 `json:"passage_id"`
	Score        *int  `json:"score"`
	TimeTakenSec *int  `json:"time_taken_sec"`
}

// ── Response Types ───────────────────────────────────────

type DashboardResponse struct {
	TotalAttempts    int               `json:"total_attempts"`
	AverageScore     int               `json:"average_score"`
	TotalTimeMinutes int               `json:"total_time_minutes"`
	TotalTime        string            `json:"total_time"`
	CurrentStreak    int               `json:"current_streak"`
	Subjects         []SubjectProgress `json:"subjects"`
	RecentActivity   []ActivityEntry   `json:"recent_activity"`
	Achievements     []Achievement     `json:"achievements"`
}

type SubjectProgress struct {
	Subject       string    `json:"subject"`
	Attempts      int       `json:"attempts"`
	AttemptsLabel string    `json:"attempts_label"`
	AverageScore  int       `json:"average_score"`
	Band          ScoreBand `json:"band"`
}

type ActivityEntry struct {
	AttemptID    string    `json:"attempt_id"`
	PassageID    int64     `json:"passage_id"`
	PassageTitle string    `json:"passage_title"`
	Score        int       `json:"score"`
	Band         ScoreBand `json:"band"`
	AttemptedAt  time.Time `json:"attempted_at"`
	TimeAgo      string    `json:"time_ago"`
}

type AttemptListResponse struct {
	Attempts []AttemptRecord `json:"attempts"`
	Limit    int             `json:"limit"`
}
