package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	c := NewFakeClock(time.Date(2026, 1, 31, 23, 0, 0, 0, time.Local))
	assert.Equal(t, "2026-01-31", TodayKey(c))

	c.AdvanceDays(1)
	assert.Equal(t, "2026-02-01", TodayKey(c))

	c.Set(time.Date(2024, 2, 29, 8, 0, 0, 0, time.Local))
	assert.Equal(t, "2024-02-29", TodayKey(c))
}
