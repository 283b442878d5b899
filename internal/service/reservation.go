package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/lifecycle"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/repository"
	"github.com/courtside/platform/internal/schedule"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailabilityInvalidator drops cached availability for a court's day after
// a booking write. Implemented by AvailabilityService.
type AvailabilityInvalidator interface {
	InvalidateDay(ctx context.Context, courtID uuid.UUID, day time.Time)
}

// ReservationService handles the booking lifecycle and the overlap check
// against both reservations and matches.
type ReservationService struct {
	pool         *pgxpool.Pool
	courts       repository.CourtRepository
	reservations repository.ReservationRepository
	matches      repository.MatchRepository
	outbox       repository.OutboxRepository
	invalidator  AvailabilityInvalidator
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	pool *pgxpool.Pool,
	courts repository.CourtRepository,
	reservations repository.ReservationRepository,
	matches repository.MatchRepository,
	outbox repository.OutboxRepository,
	invalidator AvailabilityInvalidator,
) *ReservationService {
	return &ReservationService{
		pool:         pool,
		courts:       courts,
		reservations: reservations,
		matches:      matches,
		outbox:       outbox,
		invalidator:  invalidator,
	}
}

// ReservationInput holds the booking request fields.
type ReservationInput struct {
	CourtID uuid.UUID `json:"court_id"`
	StartAt string    `json:"start_at"`
	EndAt   string    `json:"end_at"`
	Notes   *string   `json:"notes"`
}

// Create books a court for [start, end). The overlap check runs against
// every blocking reservation and match inside the insert transaction; the
// storage exclusion constraint backstops concurrent submissions.
func (s *ReservationService) Create(ctx context.Context, actor policy.Actor, input ReservationInput) (*domain.Reservation, error) {
	if input.CourtID == uuid.Nil {
		return nil, domain.ErrValidation("court_id is required")
	}
	start, err := domain.ParseLocalTime(input.StartAt)
	if err != nil {
		return nil, domain.ErrValidation("start_at: " + err.Error())
	}
	end, err := domain.ParseLocalTime(input.EndAt)
	if err != nil {
		return nil, domain.ErrValidation("end_at: " + err.Error())
	}
	if !start.Before(end) {
		return nil, domain.ErrValidation("start_at must be before end_at")
	}

	court, _, err := s.courts.FindWithArenaOwner(ctx, s.pool, input.CourtID)
	if err != nil {
		return nil, domain.ErrInternal("find court", err)
	}
	if court == nil {
		return nil, domain.ErrNotFound("court", input.CourtID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	blocking, err := s.reservations.ListBlockingInRange(ctx, tx, court.ID, start, end)
	if err != nil {
		return nil, domain.ErrInternal("list reservations", err)
	}
	matches, err := s.matches.ListBlockingInRange(ctx, tx, court.ID, start, end)
	if err != nil {
		return nil, domain.ErrInternal("list matches", err)
	}
	if w := schedule.FindConflict(schedule.CollectWindows(blocking, matches), start, end); w != nil {
		return nil, domain.ErrBookingConflict(w.ConflictDetail())
	}

	r := &domain.Reservation{
		ID:              uuid.New(),
		CourtID:         court.ID,
		UserID:          actor.ID,
		StartAt:         start,
		EndAt:           end,
		Status:          domain.ReservationPending,
		PaymentStatus:   domain.PaymentUnpaid,
		TotalPriceMinor: domain.ReservationPrice(court.PricePerHourMinor, start, end),
		Notes:           input.Notes,
	}
	if err := s.reservations.Insert(ctx, tx, r); err != nil {
		if repository.IsExclusionViolation(err) {
			return nil, domain.ErrConflict("interval was booked concurrently")
		}
		return nil, domain.ErrInternal("insert reservation", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewReservationEvent(domain.EventReservationCreated, r)); err != nil {
		return nil, domain.ErrInternal("enqueue event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.invalidateSpan(ctx, r)
	return r, nil
}

// Confirm moves PENDING → CONFIRMED. Owner-side only.
func (s *ReservationService) Confirm(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, actor, id, domain.EventReservationConfirmed,
		func(a policy.Actor, r *domain.Reservation, ownerID uuid.UUID) bool {
			return policy.CanManageReservation(a, ownerID)
		},
		lifecycle.ConfirmReservation)
}

// MarkPaid records payment on a CONFIRMED reservation. Owner-side only.
func (s *ReservationService) MarkPaid(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, actor, id, domain.EventReservationPaid,
		func(a policy.Actor, r *domain.Reservation, ownerID uuid.UUID) bool {
			return policy.CanManageReservation(a, ownerID)
		},
		lifecycle.MarkReservationPaid)
}

// Cancel releases the interval. The reserving user may self-cancel; a paid
// reservation flips to REFUNDED.
func (s *ReservationService) Cancel(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, actor, id, domain.EventReservationCanceled,
		func(a policy.Actor, r *domain.Reservation, ownerID uuid.UUID) bool {
			return policy.CanCancelReservation(a, r.UserID, ownerID)
		},
		lifecycle.CancelReservation)
}

func (s *ReservationService) transition(
	ctx context.Context,
	actor policy.Actor,
	id uuid.UUID,
	eventType domain.EventType,
	allowed func(policy.Actor, *domain.Reservation, uuid.UUID) bool,
	apply func(*domain.Reservation, time.Time) error,
) (*domain.Reservation, error) {
	r, ownerID, err := s.fetchWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(actor, r, ownerID) {
		return nil, domain.ErrForbidden("not allowed on this reservation")
	}
	if err := apply(r, time.Now()); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.reservations.Save(ctx, tx, r); err != nil {
		return nil, domain.ErrInternal("save reservation", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewReservationEvent(eventType, r)); err != nil {
		return nil, domain.ErrInternal("enqueue event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.invalidateSpan(ctx, r)
	return r, nil
}

// Get resolves a reservation visible to the actor.
func (s *ReservationService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Reservation, error) {
	r, ownerID, err := s.fetchWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewReservation(actor, r.UserID, ownerID) {
		return nil, domain.ErrForbidden("not allowed on this reservation")
	}
	return r, nil
}

// ListMine returns the actor's own reservations, newest first.
func (s *ReservationService) ListMine(ctx context.Context, actor policy.Actor, limit int) ([]domain.Reservation, error) {
	reservations, err := s.reservations.ListByUser(ctx, s.pool, actor.ID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list reservations", err)
	}
	return reservations, nil
}

// CheckInCode returns the payload encoded into the reservation's check-in
// QR image. Only the reserving user, the arena owner or an admin gets one.
func (s *ReservationService) CheckInCode(ctx context.Context, actor policy.Actor, id uuid.UUID) (string, error) {
	r, ownerID, err := s.fetchWithOwner(ctx, id)
	if err != nil {
		return "", err
	}
	if !policy.CanViewReservation(actor, r.UserID, ownerID) {
		return "", domain.ErrForbidden("not allowed on this reservation")
	}
	if r.Status == domain.ReservationCanceled {
		return "", domain.ErrConflict("reservation is canceled")
	}
	return fmt.Sprintf("courtside:checkin:%s:%s", r.ID, r.StartAt.Format("2006-01-02T15:04:05")), nil
}

func (s *ReservationService) fetchWithOwner(ctx context.Context, id uuid.UUID) (*domain.Reservation, uuid.UUID, error) {
	r, err := s.reservations.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, uuid.Nil, domain.ErrInternal("find reservation", err)
	}
	if r == nil {
		return nil, uuid.Nil, domain.ErrNotFound("reservation", id.String())
	}
	_, ownerID, err := s.courts.FindWithArenaOwner(ctx, s.pool, r.CourtID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrInternal("find court", err)
	}
	return r, ownerID, nil
}

// invalidateSpan drops cached availability for every day the interval
// touches. Best effort; the cache TTL bounds staleness anyway.
func (s *ReservationService) invalidateSpan(ctx context.Context, r *domain.Reservation) {
	if s.invalidator == nil {
		return
	}
	startDay := r.StartAt.Truncate(24 * time.Hour)
	endDay := r.EndAt.Add(-time.Nanosecond).Truncate(24 * time.Hour)
	for day := startDay; !day.After(endDay); day = day.Add(24 * time.Hour) {
		s.invalidator.InvalidateDay(ctx, r.CourtID, day)
	}
}
