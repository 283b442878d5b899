package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 1, 1, h, m, 0, 0, time.UTC)
}

func TestBuildDayGrid_HourlySlots(t *testing.T) {
	slots := BuildDayGrid("09:00", "11:00", day, 60)
	require.Len(t, slots, 2)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(10, 0), slots[0].End)
	assert.Equal(t, at(10, 0), slots[1].Start)
	assert.Equal(t, at(11, 0), slots[1].End)
}

func TestBuildDayGrid_DropsPartialTrailingSlot(t *testing.T) {
	// 09:00–11:00 with 90-minute slots: only 09:00–10:30 fits; the would-be
	// 10:30–12:00 slot runs past closing and is dropped.
	slots := BuildDayGrid("09:00", "11:00", day, 90)
	require.Len(t, slots, 1)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(10, 30), slots[0].End)
}

func TestBuildDayGrid_ClosePastMidnight(t *testing.T) {
	slots := BuildDayGrid("22:00", "02:00", day, 60)
	require.Len(t, slots, 4)
	assert.Equal(t, at(22, 0), slots[0].Start)
	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2026, 1, 2, 2, 0, 0, 0, time.UTC), last.End)
}

func TestBuildDayGrid_MalformedHoursYieldEmptyGrid(t *testing.T) {
	assert.Empty(t, BuildDayGrid("9am", "11:00", day, 60))
	assert.Empty(t, BuildDayGrid("09:00", "", day, 60))
	assert.Empty(t, BuildDayGrid("", "", day, 60))
}

func TestBuildDayGrid_WindowSmallerThanSlot(t *testing.T) {
	assert.Empty(t, BuildDayGrid("09:00", "09:45", day, 60))
}

func TestDayWindow_EqualTimesRollOver(t *testing.T) {
	start, end, ok := DayWindow("08:00", "08:00", day)
	require.True(t, ok)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestClampSlotMinutes(t *testing.T) {
	assert.Equal(t, DefaultSlotMinutes, ClampSlotMinutes(0))
	assert.Equal(t, DefaultSlotMinutes, ClampSlotMinutes(-5))
	assert.Equal(t, MinSlotMinutes, ClampSlotMinutes(10))
	assert.Equal(t, MaxSlotMinutes, ClampSlotMinutes(600))
	assert.Equal(t, 90, ClampSlotMinutes(90))
}
