package repository

import (
	"context"
	"errors"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// IsExclusionViolation reports whether err is the storage-level booking
// arbiter firing: an exclusion (23P01) or unique (23505) constraint.
func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}

// UserRepository provides access to users.
type UserRepository interface {
	Create(ctx context.Context, db DBTX, user *domain.User) error
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error)
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)
}

// ArenaRepository provides access to arenas.
type ArenaRepository interface {
	Create(ctx context.Context, db DBTX, arena *domain.Arena) error
	Update(ctx context.Context, db DBTX, arena *domain.Arena) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Arena, error)
	FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Arena, error)
	// List returns arenas ordered by name, optionally filtered by city.
	List(ctx context.Context, db DBTX, city string) ([]domain.Arena, error)
	SlugTaken(ctx context.Context, db DBTX, slug string, excludeID uuid.UUID) (bool, error)
}

// CourtRepository provides access to courts.
type CourtRepository interface {
	Create(ctx context.Context, db DBTX, court *domain.Court) error
	Update(ctx context.Context, db DBTX, court *domain.Court) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Court, error)
	// FindWithArenaOwner resolves a court together with its arena's owner,
	// the single ownership fact the access policy needs.
	FindWithArenaOwner(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Court, uuid.UUID, error)
	ListByArena(ctx context.Context, db DBTX, arenaID uuid.UUID) ([]domain.Court, error)
}

// ReservationRepository provides access to reservations.
type ReservationRepository interface {
	Insert(ctx context.Context, db DBTX, r *domain.Reservation) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Reservation, error)
	// Save persists status, payment status and updated_at after a transition.
	Save(ctx context.Context, db DBTX, r *domain.Reservation) error
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Reservation, error)
	// ListBlockingInRange returns non-canceled reservations on the court
	// overlapping [from, to), in one query.
	ListBlockingInRange(ctx context.Context, db DBTX, courtID uuid.UUID, from, to time.Time) ([]domain.Reservation, error)
}

// MatchRepository provides access to matches, presences and player stats.
type MatchRepository interface {
	Insert(ctx context.Context, db DBTX, m *domain.Match) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error)
	// Save persists status and transition timestamps.
	Save(ctx context.Context, db DBTX, m *domain.Match) error
	ListUpcoming(ctx context.Context, db DBTX, from time.Time, limit int) ([]domain.Match, error)
	// ListBlockingInRange returns matches on the court whose status still
	// blocks and whose window overlaps [from, to), in one query.
	ListBlockingInRange(ctx context.Context, db DBTX, courtID uuid.UUID, from, to time.Time) ([]domain.Match, error)

	// Presences. AddPresence is upsert-idempotent: joining twice is a no-op.
	AddPresence(ctx context.Context, db DBTX, matchID, userID uuid.UUID) (added bool, err error)
	RemovePresence(ctx context.Context, db DBTX, matchID, userID uuid.UUID) error
	HasPresence(ctx context.Context, db DBTX, matchID, userID uuid.UUID) (bool, error)
	CountPresences(ctx context.Context, db DBTX, matchID uuid.UUID) (int, error)
	ListPresences(ctx context.Context, db DBTX, matchID uuid.UUID) ([]domain.PublicUser, error)

	// Stats. ApplyStatDelta adjusts one counter by a signed delta, floored
	// at zero server-side, and returns the resulting row.
	ApplyStatDelta(ctx context.Context, db DBTX, matchID uuid.UUID, event domain.StatEvent) (*domain.MatchPlayerStat, error)
	ListStats(ctx context.Context, db DBTX, matchID uuid.UUID) ([]domain.MatchPlayerStat, error)
}

// OutboxRepository provides access to the booking_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the caller's transaction.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, error)
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
