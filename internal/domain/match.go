package domain

import (
	"time"

	"github.com/google/uuid"
)

// Match statuses.
const (
	MatchScheduled = "SCHEDULED"
	MatchLive      = "LIVE"
	MatchFinished  = "FINISHED"
	MatchCanceled  = "CANCELED"
	MatchExpired   = "EXPIRED"
)

// Match kinds. A PELADA is an open pickup game; a BOOKING is a formal one.
const (
	MatchKindBooking = "BOOKING"
	MatchKindPelada  = "PELADA"
)

// ValidMatchKind reports whether kind is a known match kind.
func ValidMatchKind(kind string) bool {
	return kind == MatchKindBooking || kind == MatchKindPelada
}

// Match is an organized or pickup game occupying
// [Date, Date+DurationMin minutes) on its court.
type Match struct {
	ID                  uuid.UUID  `json:"id"`
	CourtID             uuid.UUID  `json:"court_id"`
	OrganizerID         uuid.UUID  `json:"organizer_id"`
	Title               string     `json:"title"`
	Date                time.Time  `json:"date"`
	DurationMin         int        `json:"duration_min"`
	Kind                string     `json:"kind"`
	Status              string     `json:"status"`
	MaxPlayers          int        `json:"max_players"`
	MinPlayers          int        `json:"min_players"` // 0 = no minimum
	PricePerPlayerMinor *int64     `json:"price_per_player_minor,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
	CanceledAt          *time.Time `json:"canceled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// EndAt is the exclusive end of the match window.
func (m *Match) EndAt() time.Time {
	return m.Date.Add(time.Duration(m.DurationMin) * time.Minute)
}

// Blocks reports whether this match occupies its window with respect to
// new bookings. Matches of every kind block uniformly.
func (m *Match) Blocks() bool {
	switch m.Status {
	case MatchCanceled, MatchExpired, MatchFinished:
		return false
	}
	return true
}

// Joinable reports whether the match status admits new presences.
func (m *Match) Joinable() bool {
	switch m.Status {
	case MatchCanceled, MatchExpired, MatchFinished:
		return false
	}
	return true
}

// MatchPresence is a user's confirmed attendance at a match, unique per
// (match, user).
type MatchPresence struct {
	MatchID   uuid.UUID `json:"match_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Stat event vocabulary.
const (
	StatGoal   = "goal"
	StatAssist = "assist"

	StatModeOfficial   = "official"
	StatModeUnofficial = "unofficial"
)

// MatchPlayerStat holds per (match, user) counters. Counters are adjusted
// by signed deltas and floored at zero.
type MatchPlayerStat struct {
	MatchID           uuid.UUID `json:"match_id"`
	UserID            uuid.UUID `json:"user_id"`
	GoalsOfficial     int       `json:"goals_official"`
	AssistsOfficial   int       `json:"assists_official"`
	GoalsUnofficial   int       `json:"goals_unofficial"`
	AssistsUnofficial int       `json:"assists_unofficial"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StatEvent is one signed adjustment to a single counter.
type StatEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Type   string    `json:"type"`  // goal | assist
	Mode   string    `json:"mode"`  // official | unofficial
	Delta  int       `json:"delta"` // -1 | +1
}

// Validate checks the event vocabulary and delta range.
func (e StatEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrValidation("user_id is required")
	}
	if e.Type != StatGoal && e.Type != StatAssist {
		return ErrValidation("type must be goal or assist")
	}
	if e.Mode != StatModeOfficial && e.Mode != StatModeUnofficial {
		return ErrValidation("mode must be official or unofficial")
	}
	if e.Delta != 1 && e.Delta != -1 {
		return ErrValidation("delta must be -1 or 1")
	}
	return nil
}

// Column maps the event to its counter column name.
func (e StatEvent) Column() string {
	switch {
	case e.Type == StatGoal && e.Mode == StatModeOfficial:
		return "goals_official"
	case e.Type == StatAssist && e.Mode == StatModeOfficial:
		return "assists_official"
	case e.Type == StatGoal && e.Mode == StatModeUnofficial:
		return "goals_unofficial"
	default:
		return "assists_unofficial"
	}
}
