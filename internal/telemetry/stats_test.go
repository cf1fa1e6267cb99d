package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskodo/internal/clock"
)

func TestMemoryRepository_FiltersBySinceAndType(t *testing.T) {
	c := clock.NewFakeClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local))
	repo := NewMemoryRepositoryWithClock(c)

	require.NoError(t, repo.RecordEvent(EventTaskCreated, EventMetadata{"id": "a"}))
	c.AdvanceDays(1)
	require.NoError(t, repo.RecordEvent(EventTaskChecked, EventMetadata{"id": "a", "line": 1}))
	require.NoError(t, repo.RecordEvent(EventTaskUnchecked, EventMetadata{"id": "a"}))

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})

	recent, err := repo.GetEvents(time.Date(2026, 1, 6, 0, 0, 0, 0, time.Local), nil)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	checks, err := repo.GetEvents(time.Time{}, []EventType{EventTaskChecked})
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.JSONEq(t, `{"id":"a","line":1}`, checks[0].Metadata)

	require.NoError(t, repo.Clear())
	all, err = repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryRepository_RetentionAndIDs(t *testing.T) {
	repo := NewMemoryRepository()
	repo.SetMaxEvents(2)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.RecordEvent(EventTaskCreated, nil))
	}
	kept, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 2, kept[0].ID)
	assert.Equal(t, "{}", kept[0].Metadata)

	require.NoError(t, repo.Clear())
	require.NoError(t, repo.RecordEvent(EventBoardCleared, nil))
	kept, _ = repo.GetEvents(time.Time{}, nil)
	require.Len(t, kept, 1)
	assert.Equal(t, 4, kept[0].ID)
}

func TestCalculateStats(t *testing.T) {
	c := clock.NewFakeClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local))
	repo := NewMemoryRepositoryWithClock(c)

	record := func(et EventType, md EventMetadata) {
		require.NoError(t, repo.RecordEvent(et, md))
	}
	record(EventTemplateApplied, EventMetadata{"template": "minimal", "count": 3})
	record(EventTaskCreated, EventMetadata{"id": "x"})
	record(EventTaskChecked, EventMetadata{"id": "a", "line": 1, "late": true})
	c.AdvanceDays(1)
	record(EventTaskChecked, EventMetadata{"id": "b", "line": 2, "early": true})
	record(EventTaskChecked, EventMetadata{"id": "c", "line": 1})
	record(EventTaskUnchecked, EventMetadata{"id": "c"})
	record(EventTaskRemoved, EventMetadata{"id": "x"})

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	events, err := repo.GetEvents(since, nil)
	require.NoError(t, err)

	stats, err := CalculateStats(events, since)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-01", stats.Period)
	assert.Equal(t, 2, stats.ActiveDays)
	assert.Equal(t, 3, stats.Checks)
	assert.Equal(t, 1, stats.Unchecks)
	assert.Equal(t, 1, stats.LateChecks)
	assert.Equal(t, 1, stats.EarlyChecks)
	assert.InDelta(t, 1.5, stats.ChecksPerDay, 1e-9)
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, stats.ChecksByLine)
	assert.Equal(t, 1, stats.TasksCreated)
	assert.Equal(t, 1, stats.TasksRemoved)
	assert.Equal(t, map[string]int{"minimal": 1}, stats.TemplatesApplied)
	assert.Equal(t, 3, stats.EventCounts[EventTaskChecked])
}

func TestCalculateStats_NoEvents(t *testing.T) {
	stats, err := CalculateStats(nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ActiveDays)
	assert.Equal(t, 0.0, stats.ChecksPerDay)
	assert.Empty(t, stats.EventCounts)
}
