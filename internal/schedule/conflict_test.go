package schedule

import (
	"testing"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aStart, aEnd, bStart, bEnd time.Time
		want                   bool
	}{
		{"disjoint", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
		{"touching endpoints do not conflict", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"partial overlap", at(9, 0), at(10, 30), at(10, 0), at(11, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"reverse order", at(10, 0), at(11, 0), at(9, 0), at(10, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "predicate must be symmetric")
		})
	}
}

func TestCollectWindows_FiltersNonBlocking(t *testing.T) {
	reservations := []domain.Reservation{
		{ID: uuid.New(), StartAt: at(9, 0), EndAt: at(10, 0), Status: domain.ReservationPending},
		{ID: uuid.New(), StartAt: at(10, 0), EndAt: at(11, 0), Status: domain.ReservationCanceled},
		{ID: uuid.New(), StartAt: at(11, 0), EndAt: at(12, 0), Status: domain.ReservationConfirmed},
	}
	matches := []domain.Match{
		{ID: uuid.New(), Date: at(14, 0), DurationMin: 60, Status: domain.MatchScheduled, Title: "Pelada de quinta", MaxPlayers: 10},
		{ID: uuid.New(), Date: at(15, 0), DurationMin: 60, Status: domain.MatchExpired},
		{ID: uuid.New(), Date: at(16, 0), DurationMin: 60, Status: domain.MatchFinished},
		{ID: uuid.New(), Date: at(17, 0), DurationMin: 90, Status: domain.MatchLive},
	}

	windows := CollectWindows(reservations, matches)
	require.Len(t, windows, 4) // 2 reservations + 2 matches block

	assert.Equal(t, SourceReservation, windows[0].Kind)
	assert.Equal(t, SourceMatch, windows[2].Kind)
	assert.Equal(t, "Pelada de quinta", windows[2].Label)
	assert.Equal(t, 10, windows[2].Capacity)
	// match window spans its configured duration
	assert.Equal(t, at(17, 0), windows[3].Start)
	assert.Equal(t, at(18, 30), windows[3].End)
}

func TestFindConflict(t *testing.T) {
	resID := uuid.New()
	windows := []Window{
		{Kind: SourceReservation, ID: resID, Start: at(10, 0), End: at(11, 0), Status: domain.ReservationPending},
		{Kind: SourceMatch, ID: uuid.New(), Start: at(12, 0), End: at(13, 0), Status: domain.MatchScheduled},
	}

	t.Run("reports first conflicting entity", func(t *testing.T) {
		w := FindConflict(windows, at(10, 30), at(11, 30))
		require.NotNil(t, w)
		assert.Equal(t, SourceReservation, w.Kind)
		assert.Equal(t, resID, w.ID)

		detail := w.ConflictDetail()
		assert.Equal(t, "reservation", detail.Type)
		assert.Equal(t, resID.String(), detail.ID)
		assert.Equal(t, "2026-01-01T10:00:00", detail.StartAt)
		assert.Equal(t, domain.ReservationPending, detail.Status)
	})

	t.Run("nil when free", func(t *testing.T) {
		assert.Nil(t, FindConflict(windows, at(11, 0), at(12, 0)))
	})
}

func TestMarkBusy(t *testing.T) {
	slots := BuildDayGrid("09:00", "13:00", day, 60)
	require.Len(t, slots, 4)

	windows := []Window{
		{Kind: SourceMatch, ID: uuid.New(), Start: at(10, 30), End: at(11, 30), Status: domain.MatchScheduled, Label: "Rachão"},
	}
	MarkBusy(slots, windows)

	assert.False(t, slots[0].Busy) // 09–10
	assert.True(t, slots[1].Busy)  // 10–11 overlaps 10:30
	assert.True(t, slots[2].Busy)  // 11–12 overlaps up to 11:30
	assert.False(t, slots[3].Busy) // 12–13
	require.NotNil(t, slots[1].Meta)
	assert.Equal(t, "Rachão", slots[1].Meta.Label)
}
