package schedule

import (
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
)

// SourceKind tags which booking entity a blocking window came from.
type SourceKind string

const (
	SourceReservation SourceKind = "reservation"
	SourceMatch       SourceKind = "match"
)

// Window is one blocking interval [Start, End) on a court, carrying enough
// detail to explain a rejection or annotate a busy slot.
type Window struct {
	Kind     SourceKind `json:"kind"`
	ID       uuid.UUID  `json:"id"`
	Start    time.Time  `json:"start"`
	End      time.Time  `json:"end"`
	Status   string     `json:"status"`
	Label    string     `json:"label,omitempty"`    // match title, for display
	Capacity int        `json:"capacity,omitempty"` // match max players, for display
}

// Overlaps is the strict half-open overlap predicate: touching endpoints do
// not conflict — a booking ending at 10:00 coexists with one starting then.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ReservationWindow converts a blocking reservation to a window.
func ReservationWindow(r *domain.Reservation) Window {
	return Window{
		Kind:   SourceReservation,
		ID:     r.ID,
		Start:  r.StartAt,
		End:    r.EndAt,
		Status: r.Status,
	}
}

// MatchWindow converts a blocking match to a window.
func MatchWindow(m *domain.Match) Window {
	return Window{
		Kind:     SourceMatch,
		ID:       m.ID,
		Start:    m.Date,
		End:      m.EndAt(),
		Status:   m.Status,
		Label:    m.Title,
		Capacity: m.MaxPlayers,
	}
}

// CollectWindows filters the day's reservations and matches down to the
// blocking set, as one slice in input order (reservations first).
func CollectWindows(reservations []domain.Reservation, matches []domain.Match) []Window {
	windows := make([]Window, 0, len(reservations)+len(matches))
	for i := range reservations {
		if reservations[i].Blocks() {
			windows = append(windows, ReservationWindow(&reservations[i]))
		}
	}
	for i := range matches {
		if matches[i].Blocks() {
			windows = append(windows, MatchWindow(&matches[i]))
		}
	}
	return windows
}

// FindConflict returns the first window overlapping [start, end), or nil.
func FindConflict(windows []Window, start, end time.Time) *Window {
	for i := range windows {
		if Overlaps(start, end, windows[i].Start, windows[i].End) {
			return &windows[i]
		}
	}
	return nil
}

// ConflictDetail renders a window as the machine-readable 409 payload.
func (w *Window) ConflictDetail() domain.ConflictDetail {
	return domain.ConflictDetail{
		Type:    string(w.Kind),
		ID:      w.ID.String(),
		StartAt: w.Start.Format("2006-01-02T15:04:05"),
		EndAt:   w.End.Format("2006-01-02T15:04:05"),
		Status:  w.Status,
	}
}

// MarkBusy flags every slot overlapping any window, attaching the first
// occupying window as display metadata.
func MarkBusy(slots []Slot, windows []Window) {
	for i := range slots {
		if w := FindConflict(windows, slots[i].Start, slots[i].End); w != nil {
			slots[i].Busy = true
			slots[i].Meta = w
		}
	}
}
