package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lifedash/lifedash/internal/models"
)

func entry(occurredAt time.Time, payload map[string]any) *models.TrackerEntry {
	return &models.TrackerEntry{Payload: payload, OccurredAt: occurredAt}
}

func TestSummarize_SumAndAverage(t *testing.T) {
	now := time.Now()
	entries := []*models.TrackerEntry{
		entry(now, map[string]any{"minutes": 30.0}),
		entry(now.Add(-time.Hour), map[string]any{"minutes": 45.0}),
		entry(now.Add(-2*time.Hour), map[string]any{"minutes": 15.0}),
	}

	s := Summarize(entries, "minutes", now.Add(-24*time.Hour), now)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 90, s.Sum, 1e-9)
	assert.InDelta(t, 30, s.Average, 1e-9)
}

func TestSummarize_WindowExcludesOldEntries(t *testing.T) {
	now := time.Now()
	entries := []*models.TrackerEntry{
		entry(now, map[string]any{"pages": 10.0}),
		entry(now.Add(-10*24*time.Hour), map[string]any{"pages": 300.0}),
	}

	s := Summarize(entries, "pages", now.Add(-7*24*time.Hour), now)
	assert.Equal(t, 1, s.Count)
	assert.InDelta(t, 10, s.Sum, 1e-9)
}

func TestSummarize_MissingFieldDefaultsToZero(t *testing.T) {
	now := time.Now()
	entries := []*models.TrackerEntry{
		entry(now, map[string]any{"amount": 12.5}),
		entry(now, map[string]any{"note": "forgot the amount"}),
	}

	s := Summarize(entries, "amount", now.Add(-time.Hour), now)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 12.5, s.Sum, 1e-9)
	assert.InDelta(t, 6.25, s.Average, 1e-9)
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := Summarize(nil, "minutes", time.Time{}, time.Now())
	assert.Zero(t, s.Count)
	assert.Zero(t, s.Sum)
	assert.Zero(t, s.Average)
	assert.Zero(t, s.StreakDays)
}

func TestStreakDays(t *testing.T) {
	now := time.Now()
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	tests := []struct {
		name    string
		entries []*models.TrackerEntry
		want    int
	}{
		{name: "no entries", entries: nil, want: 0},
		{
			name:    "three day streak through today",
			entries: []*models.TrackerEntry{entry(day(0), nil), entry(day(1), nil), entry(day(2), nil)},
			want:    3,
		},
		{
			name:    "streak alive through yesterday",
			entries: []*models.TrackerEntry{entry(day(1), nil), entry(day(2), nil)},
			want:    2,
		},
		{
			name:    "gap breaks the streak",
			entries: []*models.TrackerEntry{entry(day(0), nil), entry(day(2), nil), entry(day(3), nil)},
			want:    1,
		},
		{
			name:    "stale entries only",
			entries: []*models.TrackerEntry{entry(day(5), nil)},
			want:    0,
		},
		{
			name:    "multiple entries same day count once",
			entries: []*models.TrackerEntry{entry(day(0), nil), entry(day(0).Add(-time.Minute), nil), entry(day(1), nil)},
			want:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streakDays(tt.entries, now))
		})
	}
}
