package progress

import (
	"fmt"

	"github.com/studysphere/backend/internal/models"
)

const (
	AchievementFirstQuiz    = "first_quiz"
	AchievementQuizMaster   = "quiz_master"
	AchievementPerfectScore = "perfect_score"
	AchievementStudyStreak  = "study_streak"
	AchievementAllSubjects  = "all_subjects"
	AchievementSpeedDemon   = "speed_demon"
)

const (
	quizMasterTarget  = 10
	streakTarget      = 7
	allSubjectsTarget = 5
	speedLimitSec     = 300
)

// achievementDef is the static content for one achievement plus the rule
// that decides its unlock state and progress text.
type achievementDef struct {
	ID          string
	Title       string
	Description string
	Icon        string

	rule func(in evaluation) (unlocked bool, progress string)
}

type evaluation struct {
	stats    models.UserStats
	attempts []models.AttemptRecord
	streak   int
}

var catalog = []achievementDef{
	{
		ID: AchievementFirstQuiz, Title: "Getting Started", Description: "Complete your first quiz", Icon: "🎯",
		rule: func(in evaluation) (bool, string) {
			return in.stats.TotalAttempts >= 1,
				fmt.Sprintf("%d/1 quizzes", min(in.stats.TotalAttempts, 1))
		},
	},
	{
		ID: AchievementQuizMaster, Title: "Quiz Master", Description: "Complete 10 quizzes", Icon: "🏆",
		rule: func(in evaluation) (bool, string) {
			return in.stats.TotalAttempts >= quizMasterTarget,
				fmt.Sprintf("%d/%d quizzes", min(in.stats.TotalAttempts, quizMasterTarget), quizMasterTarget)
		},
	},
	{
		ID: AchievementPerfectScore, Title: "Perfect Score", Description: "Get 100% on any quiz", Icon: "⭐",
		rule: func(in evaluation) (bool, string) {
			return anyAttempt(in.attempts, func(a models.AttemptRecord) bool { return a.Score == 100 }),
				"Get 100% on a quiz"
		},
	},
	{
		ID: AchievementStudyStreak, Title: "Consistent Learner", Description: "Study for 7 days in a row", Icon: "🔥",
		rule: func(in evaluation) (bool, string) {
			return in.streak >= streakTarget,
				fmt.Sprintf("%d/%d days", min(in.streak, streakTarget), streakTarget)
		},
	},
	{
		ID: AchievementAllSubjects, Title: "Well Rounded", Description: "Complete quizzes in all 5 subjects", Icon: "🌟",
		rule: func(in evaluation) (bool, string) {
			n := activeSubjects(in.stats.SubjectStats)
			return n >= allSubjectsTarget, fmt.Sprintf("%d/%d subjects", n, allSubjectsTarget)
		},
	},
	{
		ID: AchievementSpeedDemon, Title: "Speed Demon", Description: "Complete a quiz in under 5 minutes", Icon: "⚡",
		rule: func(in evaluation) (bool, string) {
			return anyAttempt(in.attempts, func(a models.AttemptRecord) bool { return a.TimeTakenSec < speedLimitSec }),
				"Complete a quiz quickly"
		},
	},
}

// EvaluateAchievements produces the full catalog, in order, with unlock state
// and progress text derived from stats, attempts and the current streak.
// Malformed input is rejected with ErrInvalidInput instead of defaulting.
func EvaluateAchievements(stats *models.UserStats, attempts []models.AttemptRecord, streak int) ([]models.Achievement, error) {
	if err := ValidateStats(stats); err != nil {
		return nil, err
	}
	if err := ValidateAttempts(attempts); err != nil {
		return nil, err
	}
	if streak < 0 {
		return nil, invalidf("streak %d is negative", streak)
	}

	in := evaluation{stats: *stats, attempts: attempts, streak: streak}
	achievements := make([]models.Achievement, 0, len(catalog))
	for _, def := range catalog {
		unlocked, progress := def.rule(in)
		achievements = append(achievements, models.Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Unlocked:    unlocked,
			Progress:    progress,
		})
	}
	return achievements, nil
}

func anyAttempt(attempts []models.AttemptRecord, match func(models.AttemptRecord) bool) bool {
	for _, a := range attempts {
		if match(a) {
			return true
		}
	}
	return false
}

func activeSubjects(subjects map[string]models.SubjectStat) int {
	n := 0
	for _, s := range subjects {
		if s.Attempts > 0 {
			n++
		}
	}
	return n
}
