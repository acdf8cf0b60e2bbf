package tracker

import (
	"time"

	"github.com/samber/lo"

	"github.com/lifedash/lifedash/internal/models"
)

// Summary is the derived statistics block every tracker widget renders:
// entry count plus sum/average of one numeric payload field over a window.
type Summary struct {
	Count      int     `json:"count"`
	Sum        float64 `json:"sum"`
	Average    float64 `json:"average"`
	StreakDays int     `json:"streak_days"`
}

// Summarize computes stats over entries with occurred_at on or after since.
// Pure over its inputs, independent of storage. Missing or non-numeric
// payload fields count as 0 rather than erroring, matching the schemaless
// payload model.
func Summarize(entries []*models.TrackerEntry, field string, since time.Time, now time.Time) Summary {
	inWindow := lo.Filter(entries, func(e *models.TrackerEntry, _ int) bool {
		return !e.OccurredAt.Before(since)
	})

	s := Summary{Count: len(inWindow), StreakDays: streakDays(entries, now)}
	if field == "" || len(inWindow) == 0 {
		return s
	}
	for _, e := range inWindow {
		s.Sum += numericField(e, field)
	}
	s.Average = s.Sum / float64(len(inWindow))
	return s
}

func numericField(e *models.TrackerEntry, field string) float64 {
	v, ok := e.Payload[field]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// streakDays counts consecutive calendar days with at least one entry,
// walking backwards from today. A streak that ended yesterday still counts.
func streakDays(entries []*models.TrackerEntry, now time.Time) int {
	days := map[string]struct{}{}
	for _, e := range entries {
		days[e.OccurredAt.Format(time.DateOnly)] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}

	day := now
	if _, ok := days[day.Format(time.DateOnly)]; !ok {
		// no entry yet today; a streak through yesterday is still alive
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[day.Format(time.DateOnly)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
