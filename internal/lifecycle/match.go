package lifecycle

import (
	"time"

	"github.com/courtside/platform/internal/domain"
)

// ExpireGrace is how long past its start an under-subscribed match is kept
// SCHEDULED before the lazy evaluator expires it.
const ExpireGrace = 30 * time.Minute

// EvaluateMatch applies the auto-expire rule to a match and reports whether
// it changed. The rule: a SCHEDULED match with a minimum player count,
// whose start is more than ExpireGrace in the past, and which has fewer
// confirmed presences than that minimum, becomes EXPIRED with CanceledAt
// set. Every read path runs this before returning data, so staleness never
// exceeds the time since the last read.
func EvaluateMatch(m *domain.Match, presenceCount int, now time.Time) bool {
	if m.Status != domain.MatchScheduled || m.MinPlayers <= 0 {
		return false
	}
	if !now.After(m.Date.Add(ExpireGrace)) {
		return false
	}
	if presenceCount >= m.MinPlayers {
		return false
	}
	m.Status = domain.MatchExpired
	t := now
	m.CanceledAt = &t
	m.UpdatedAt = now
	return true
}

// StartMatch moves SCHEDULED → LIVE.
func StartMatch(m *domain.Match, now time.Time) error {
	if m.Status != domain.MatchScheduled {
		return domain.ErrInvalidTransition("match", m.Status, domain.MatchLive)
	}
	m.Status = domain.MatchLive
	t := now
	m.StartedAt = &t
	m.UpdatedAt = now
	return nil
}

// FinishMatch moves LIVE → FINISHED. FINISHED is terminal.
func FinishMatch(m *domain.Match, now time.Time) error {
	if m.Status != domain.MatchLive {
		return domain.ErrInvalidTransition("match", m.Status, domain.MatchFinished)
	}
	m.Status = domain.MatchFinished
	t := now
	m.FinishedAt = &t
	m.UpdatedAt = now
	return nil
}

// CancelMatch moves SCHEDULED or LIVE → CANCELED.
func CancelMatch(m *domain.Match, now time.Time) error {
	if m.Status != domain.MatchScheduled && m.Status != domain.MatchLive {
		return domain.ErrInvalidTransition("match", m.Status, domain.MatchCanceled)
	}
	m.Status = domain.MatchCanceled
	t := now
	m.CanceledAt = &t
	m.UpdatedAt = now
	return nil
}

// UncancelMatch reverses an accidental cancellation, CANCELED → SCHEDULED.
// EXPIRED and FINISHED stay terminal.
func UncancelMatch(m *domain.Match, now time.Time) error {
	if m.Status != domain.MatchCanceled {
		return domain.ErrInvalidTransition("match", m.Status, domain.MatchScheduled)
	}
	m.Status = domain.MatchScheduled
	m.CanceledAt = nil
	m.StartedAt = nil
	m.UpdatedAt = now
	return nil
}

// ExpireMatch is the explicit admin/organizer expire action,
// SCHEDULED → EXPIRED.
func ExpireMatch(m *domain.Match, now time.Time) error {
	if m.Status != domain.MatchScheduled {
		return domain.ErrInvalidTransition("match", m.Status, domain.MatchExpired)
	}
	m.Status = domain.MatchExpired
	t := now
	m.CanceledAt = &t
	m.UpdatedAt = now
	return nil
}

// CanJoinMatch guards presence creation. Joining an occupied spot is
// idempotent and short-circuits before the capacity gate.
func CanJoinMatch(m *domain.Match, presenceCount int, alreadyPresent bool) error {
	if !m.Joinable() {
		return domain.ErrConflict("match is not open for joining")
	}
	if alreadyPresent {
		return nil
	}
	if presenceCount >= m.MaxPlayers {
		return domain.ErrMatchFull(m.MaxPlayers)
	}
	return nil
}
