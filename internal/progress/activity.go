package progress

import (
	"time"

	"github.com/studysphere/backend/internal/models"
)

const unknownPassageTitle = "Unknown Passage"

// RecentActivity builds timeline entries for the first limit attempts, in the
// order the source returned them. titles maps passage IDs to display titles.
func RecentActivity(attempts []models.AttemptRecord, limit int, titles map[int64]string, now time.Time) []models.ActivityEntry {
	if limit < 0 {
		limit = 0
	}
	if len(attempts) > limit {
		attempts = attempts[:limit]
	}

	entries := make([]models.ActivityEntry, 0, len(attempts))
	for _, a := range attempts {
		title, ok := titles[a.PassageID]
		if !ok {
			title = unknownPassageTitle
		}
		entries = append(entries, models.ActivityEntry{
			AttemptID:    a.ID,
			PassageID:    a.PassageID,
			PassageTitle: title,
			Score:        a.Score,
			Band:         BandFor(a.Score),
			AttemptedAt:  a.AttemptedAt,
			TimeAgo:      FormatRelativeTime(a.AttemptedAt, now),
		})
	}
	return entries
}
