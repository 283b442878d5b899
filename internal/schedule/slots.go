// Package schedule holds the pure slot-grid and interval-conflict logic.
// Nothing here touches storage; callers fetch the day's bookings once and
// hand them in as windows.
package schedule

import (
	"time"

	"github.com/courtside/platform/internal/domain"
)

// Slot granularity bounds, minutes.
const (
	MinSlotMinutes     = 30
	MaxSlotMinutes     = 180
	DefaultSlotMinutes = 60
)

// ClampSlotMinutes forces a requested granularity into the supported range,
// falling back to the default for non-positive input.
func ClampSlotMinutes(m int) int {
	if m <= 0 {
		return DefaultSlotMinutes
	}
	if m < MinSlotMinutes {
		return MinSlotMinutes
	}
	if m > MaxSlotMinutes {
		return MaxSlotMinutes
	}
	return m
}

// Slot is one discretized bookable unit [Start, End) within operating hours.
type Slot struct {
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
	Busy  bool      `json:"-"`
	Meta  *Window   `json:"-"`
}

// DayWindow resolves an arena's HH:MM operating window onto a calendar day.
// A close time at or before the open time rolls over past midnight. ok is
// false when either clock string is unparsable.
func DayWindow(openTime, closeTime string, day time.Time) (start, end time.Time, ok bool) {
	if domain.ValidateClock(openTime) != nil || domain.ValidateClock(closeTime) != nil {
		return time.Time{}, time.Time{}, false
	}
	open, _ := time.Parse("15:04", openTime)
	close, _ := time.Parse("15:04", closeTime)

	start = time.Date(day.Year(), day.Month(), day.Day(), open.Hour(), open.Minute(), 0, 0, day.Location())
	end = time.Date(day.Year(), day.Month(), day.Day(), close.Hour(), close.Minute(), 0, 0, day.Location())
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, true
}

// BuildDayGrid returns the ordered slot sequence for one calendar day.
// Slots step by slotMinutes from the open time; a trailing slot that would
// run past closing is dropped. A malformed operating window yields an empty
// grid, never an error — availability must not fail on bad venue config.
func BuildDayGrid(openTime, closeTime string, day time.Time, slotMinutes int) []Slot {
	start, end, ok := DayWindow(openTime, closeTime, day)
	if !ok {
		return nil
	}

	step := time.Duration(slotMinutes) * time.Minute
	var slots []Slot
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		slots = append(slots, Slot{Start: cur, End: cur.Add(step)})
	}
	return slots
}
