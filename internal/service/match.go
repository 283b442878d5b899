package service

import (
	"context"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/lifecycle"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/repository"
	"github.com/courtside/platform/internal/schedule"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchService handles match organization, presences and player stats.
type MatchService struct {
	pool            *pgxpool.Pool
	courts          repository.CourtRepository
	reservations    repository.ReservationRepository
	matches         repository.MatchRepository
	outbox          repository.OutboxRepository
	invalidator     AvailabilityInvalidator
	defaultDuration int
}

// NewMatchService creates a new MatchService. defaultDuration is the match
// length in minutes applied when the request omits one.
func NewMatchService(
	pool *pgxpool.Pool,
	courts repository.CourtRepository,
	reservations repository.ReservationRepository,
	matches repository.MatchRepository,
	outbox repository.OutboxRepository,
	invalidator AvailabilityInvalidator,
	defaultDuration int,
) *MatchService {
	if defaultDuration <= 0 {
		defaultDuration = 60
	}
	return &MatchService{
		pool:            pool,
		courts:          courts,
		reservations:    reservations,
		matches:         matches,
		outbox:          outbox,
		invalidator:     invalidator,
		defaultDuration: defaultDuration,
	}
}

// MatchInput holds the create request fields.
type MatchInput struct {
	CourtID             uuid.UUID `json:"court_id"`
	Title               string    `json:"title"`
	Date                string    `json:"date"`
	DurationMin         int       `json:"duration_min"`
	Kind                string    `json:"kind"`
	MaxPlayers          int       `json:"max_players"`
	MinPlayers          int       `json:"min_players"`
	PricePerPlayerMinor *int64    `json:"price_per_player_minor"`
}

// MatchView bundles a match with its live presence count.
type MatchView struct {
	Match       *domain.Match `json:"match"`
	PlayerCount int           `json:"player_count"`
}

// Create schedules a match. The court's calendar is checked against every
// blocking reservation and match inside the insert transaction; the partial
// unique index on (court_id, date) backstops concurrent submissions.
func (s *MatchService) Create(ctx context.Context, actor policy.Actor, input MatchInput) (*domain.Match, error) {
	if input.CourtID == uuid.Nil {
		return nil, domain.ErrValidation("court_id is required")
	}
	if input.Title == "" {
		return nil, domain.ErrValidation("title is required")
	}
	date, err := domain.ParseLocalTime(input.Date)
	if err != nil {
		return nil, domain.ErrValidation("date: " + err.Error())
	}
	if input.Kind == "" {
		input.Kind = domain.MatchKindPelada
	}
	if !domain.ValidMatchKind(input.Kind) {
		return nil, domain.ErrValidation("kind must be BOOKING or PELADA")
	}
	if input.MaxPlayers <= 0 {
		return nil, domain.ErrValidation("max_players must be positive")
	}
	if input.MinPlayers < 0 || input.MinPlayers > input.MaxPlayers {
		return nil, domain.ErrValidation("min_players must be between 0 and max_players")
	}
	duration := input.DurationMin
	if duration <= 0 {
		duration = s.defaultDuration
	}

	court, ownerID, err := s.courts.FindWithArenaOwner(ctx, s.pool, input.CourtID)
	if err != nil {
		return nil, domain.ErrInternal("find court", err)
	}
	if court == nil {
		return nil, domain.ErrNotFound("court", input.CourtID.String())
	}
	if !policy.CanCreateMatch(actor, ownerID) {
		return nil, domain.ErrForbidden("not allowed to organize matches on this court")
	}

	m := &domain.Match{
		ID:                  uuid.New(),
		CourtID:             court.ID,
		OrganizerID:         actor.ID,
		Title:               input.Title,
		Date:                date,
		DurationMin:         duration,
		Kind:                input.Kind,
		Status:              domain.MatchScheduled,
		MaxPlayers:          input.MaxPlayers,
		MinPlayers:          input.MinPlayers,
		PricePerPlayerMinor: input.PricePerPlayerMinor,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	blocking, err := s.reservations.ListBlockingInRange(ctx, tx, court.ID, m.Date, m.EndAt())
	if err != nil {
		return nil, domain.ErrInternal("list reservations", err)
	}
	others, err := s.matches.ListBlockingInRange(ctx, tx, court.ID, m.Date, m.EndAt())
	if err != nil {
		return nil, domain.ErrInternal("list matches", err)
	}
	if w := schedule.FindConflict(schedule.CollectWindows(blocking, others), m.Date, m.EndAt()); w != nil {
		return nil, domain.ErrBookingConflict(w.ConflictDetail())
	}

	if err := s.matches.Insert(ctx, tx, m); err != nil {
		if repository.IsExclusionViolation(err) {
			return nil, domain.ErrConflict("interval was booked concurrently")
		}
		return nil, domain.ErrInternal("insert match", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewMatchEvent(domain.EventMatchCreated, m)); err != nil {
		return nil, domain.ErrInternal("enqueue event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.invalidateSpan(ctx, m)
	return m, nil
}

// Get resolves a match, applying the lazy expiry rule first.
func (s *MatchService) Get(ctx context.Context, id uuid.UUID) (*MatchView, error) {
	m, count, err := s.loadEvaluated(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MatchView{Match: m, PlayerCount: count}, nil
}

// ListUpcoming returns scheduled and live matches from now on, each run
// through the lazy expiry rule.
func (s *MatchService) ListUpcoming(ctx context.Context, limit int) ([]MatchView, error) {
	matches, err := s.matches.ListUpcoming(ctx, s.pool, time.Now().Add(-lifecycle.ExpireGrace), limit)
	if err != nil {
		return nil, domain.ErrInternal("list matches", err)
	}

	now := time.Now()
	views := make([]MatchView, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		count, err := s.matches.CountPresences(ctx, s.pool, m.ID)
		if err != nil {
			return nil, domain.ErrInternal("count presences", err)
		}
		if lifecycle.EvaluateMatch(m, count, now) {
			s.persistExpiry(ctx, m)
		}
		views = append(views, MatchView{Match: m, PlayerCount: count})
	}
	return views, nil
}

// Join adds the actor's presence. Joining twice is a no-op; a full match
// rejects with 409.
func (s *MatchService) Join(ctx context.Context, actor policy.Actor, id uuid.UUID) (*MatchView, error) {
	m, count, err := s.loadEvaluated(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	present, err := s.matches.HasPresence(ctx, tx, m.ID, actor.ID)
	if err != nil {
		return nil, domain.ErrInternal("check presence", err)
	}
	if err := lifecycle.CanJoinMatch(m, count, present); err != nil {
		return nil, err
	}

	added, err := s.matches.AddPresence(ctx, tx, m.ID, actor.ID)
	if err != nil {
		return nil, domain.ErrInternal("add presence", err)
	}
	if added {
		if err := s.outbox.Insert(ctx, tx, domain.NewMatchPresenceEvent(domain.EventPlayerJoined, m, actor.ID)); err != nil {
			return nil, domain.ErrInternal("enqueue event", err)
		}
		count++
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	return &MatchView{Match: m, PlayerCount: count}, nil
}

// Leave removes the actor's presence. Leaving a match never joined is a
// no-op, and leaving is allowed in every match status.
func (s *MatchService) Leave(ctx context.Context, actor policy.Actor, id uuid.UUID) (*MatchView, error) {
	m, count, err := s.loadEvaluated(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	present, err := s.matches.HasPresence(ctx, tx, m.ID, actor.ID)
	if err != nil {
		return nil, domain.ErrInternal("check presence", err)
	}
	if present {
		if err := s.matches.RemovePresence(ctx, tx, m.ID, actor.ID); err != nil {
			return nil, domain.ErrInternal("remove presence", err)
		}
		if err := s.outbox.Insert(ctx, tx, domain.NewMatchPresenceEvent(domain.EventPlayerLeft, m, actor.ID)); err != nil {
			return nil, domain.ErrInternal("enqueue event", err)
		}
		count--
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	return &MatchView{Match: m, PlayerCount: count}, nil
}

// ListPlayers returns the confirmed presences as public user views.
func (s *MatchService) ListPlayers(ctx context.Context, id uuid.UUID) ([]domain.PublicUser, error) {
	m, _, err := s.loadEvaluated(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.matches.ListPresences(ctx, s.pool, m.ID)
	if err != nil {
		return nil, domain.ErrInternal("list presences", err)
	}
	return players, nil
}

// Start moves SCHEDULED → LIVE.
func (s *MatchService) Start(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Match, error) {
	return s.transition(ctx, actor, id, domain.EventMatchStarted, lifecycle.StartMatch)
}

// Finish moves LIVE → FINISHED.
func (s *MatchService) Finish(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Match, error) {
	return s.transition(ctx, actor, id, domain.EventMatchFinished, lifecycle.FinishMatch)
}

// Cancel moves SCHEDULED or LIVE → CANCELED and frees the interval.
func (s *MatchService) Cancel(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Match, error) {
	return s.transition(ctx, actor, id, domain.EventMatchCanceled, lifecycle.CancelMatch)
}

// Uncancel reverses a cancellation, CANCELED → SCHEDULED. The interval is
// re-checked for conflicts picked up while the match was canceled.
func (s *MatchService) Uncancel(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Match, error) {
	m, ownerID, err := s.fetchWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanTransitionMatch(actor, m.OrganizerID, ownerID) {
		return nil, domain.ErrForbidden("not allowed on this match")
	}
	if err := lifecycle.UncancelMatch(m, time.Now()); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	blocking, err := s.reservations.ListBlockingInRange(ctx, tx, m.CourtID, m.Date, m.EndAt())
	if err != nil {
		return nil, domain.ErrInternal("list reservations", err)
	}
	others, err := s.matches.ListBlockingInRange(ctx, tx, m.CourtID, m.Date, m.EndAt())
	if err != nil {
		return nil, domain.ErrInternal("list matches", err)
	}
	windows := schedule.CollectWindows(blocking, others)
	for i := range windows {
		if windows[i].Kind == schedule.SourceMatch && windows[i].ID == m.ID {
			continue
		}
		if schedule.Overlaps(m.Date, m.EndAt(), windows[i].Start, windows[i].End) {
			return nil, domain.ErrBookingConflict(windows[i].ConflictDetail())
		}
	}

	if err := s.matches.Save(ctx, tx, m); err != nil {
		if repository.IsExclusionViolation(err) {
			return nil, domain.ErrConflict("interval was booked concurrently")
		}
		return nil, domain.ErrInternal("save match", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewMatchEvent(domain.EventMatchUncanceled, m)); err != nil {
		return nil, domain.ErrInternal("enqueue event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.invalidateSpan(ctx, m)
	return m, nil
}

// Expire is the explicit organizer/owner expire action.
func (s *MatchService) Expire(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Match, error) {
	return s.transition(ctx, actor, id, domain.EventMatchExpired, lifecycle.ExpireMatch)
}

func (s *MatchService) transition(
	ctx context.Context,
	actor policy.Actor,
	id uuid.UUID,
	eventType domain.EventType,
	apply func(*domain.Match, time.Time) error,
) (*domain.Match, error) {
	m, ownerID, err := s.fetchWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanTransitionMatch(actor, m.OrganizerID, ownerID) {
		return nil, domain.ErrForbidden("not allowed on this match")
	}
	if err := apply(m, time.Now()); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.matches.Save(ctx, tx, m); err != nil {
		return nil, domain.ErrInternal("save match", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewMatchEvent(eventType, m)); err != nil {
		return nil, domain.ErrInternal("enqueue event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.invalidateSpan(ctx, m)
	return m, nil
}

// RecordStat applies one signed counter adjustment. Official entries follow
// the match-transition rule; unofficial entries are self-service for
// players holding a presence.
func (s *MatchService) RecordStat(ctx context.Context, actor policy.Actor, id uuid.UUID, event domain.StatEvent) (*domain.MatchPlayerStat, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	m, ownerID, err := s.fetchWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == domain.MatchCanceled || m.Status == domain.MatchExpired {
		return nil, domain.ErrConflict("match was canceled or expired")
	}

	switch event.Mode {
	case domain.StatModeOfficial:
		if !policy.CanEditOfficialStats(actor, m.OrganizerID, ownerID) {
			return nil, domain.ErrForbidden("official stats belong to the organizer")
		}
	default:
		present, err := s.matches.HasPresence(ctx, s.pool, m.ID, event.UserID)
		if err != nil {
			return nil, domain.ErrInternal("check presence", err)
		}
		if !policy.CanEditUnofficialStats(actor, event.UserID, present) {
			return nil, domain.ErrForbidden("unofficial stats are self-service for players in the match")
		}
	}

	stat, err := s.matches.ApplyStatDelta(ctx, s.pool, m.ID, event)
	if err != nil {
		return nil, domain.ErrInternal("apply stat delta", err)
	}
	return stat, nil
}

// ListStats returns the per-player counters for a match.
func (s *MatchService) ListStats(ctx context.Context, id uuid.UUID) ([]domain.MatchPlayerStat, error) {
	m, _, err := s.loadEvaluated(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.matches.ListStats(ctx, s.pool, m.ID)
	if err != nil {
		return nil, domain.ErrInternal("list stats", err)
	}
	return stats, nil
}

// loadEvaluated fetches a match with its presence count and applies the
// lazy expiry rule, persisting a flip best effort.
func (s *MatchService) loadEvaluated(ctx context.Context, id uuid.UUID) (*domain.Match, int, error) {
	m, err := s.matches.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, 0, domain.ErrInternal("find match", err)
	}
	if m == nil {
		return nil, 0, domain.ErrNotFound("match", id.String())
	}
	count, err := s.matches.CountPresences(ctx, s.pool, m.ID)
	if err != nil {
		return nil, 0, domain.ErrInternal("count presences", err)
	}
	if lifecycle.EvaluateMatch(m, count, time.Now()) {
		s.persistExpiry(ctx, m)
	}
	return m, count, nil
}

// persistExpiry writes a lazily detected expiry. Failures are swallowed:
// the caller still sees the evaluated state and the next read retries.
func (s *MatchService) persistExpiry(ctx context.Context, m *domain.Match) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return
	}
	defer tx.Rollback(ctx)

	if err := s.matches.Save(ctx, tx, m); err != nil {
		return
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewMatchEvent(domain.EventMatchExpired, m)); err != nil {
		return
	}
	if tx.Commit(ctx) == nil {
		s.invalidateSpan(ctx, m)
	}
}

// fetchWithOwner loads an evaluated match plus the owning arena's owner ID
// for permission checks. Expiry is applied here too so transitions and stat
// writes never act on a match that has already lapsed.
func (s *MatchService) fetchWithOwner(ctx context.Context, id uuid.UUID) (*domain.Match, uuid.UUID, error) {
	m, _, err := s.loadEvaluated(ctx, id)
	if err != nil {
		return nil, uuid.Nil, err
	}
	_, ownerID, err := s.courts.FindWithArenaOwner(ctx, s.pool, m.CourtID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrInternal("find court", err)
	}
	return m, ownerID, nil
}

func (s *MatchService) invalidateSpan(ctx context.Context, m *domain.Match) {
	if s.invalidator == nil {
		return
	}
	startDay := m.Date.Truncate(24 * time.Hour)
	endDay := m.EndAt().Add(-time.Nanosecond).Truncate(24 * time.Hour)
	for day := startDay; !day.After(endDay); day = day.Add(24 * time.Hour) {
		s.invalidator.InvalidateDay(ctx, m.CourtID, day)
	}
}
