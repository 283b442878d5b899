package repository

import (
	"context"
	"errors"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reservationRepo struct{}

// NewReservationRepository returns a pgx-backed ReservationRepository.
func NewReservationRepository() ReservationRepository {
	return &reservationRepo{}
}

const reservationColumns = `id, court_id, user_id, start_at, end_at, status, payment_status, total_price_minor, notes, created_at, updated_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	r := &domain.Reservation{}
	err := row.Scan(&r.ID, &r.CourtID, &r.UserID, &r.StartAt, &r.EndAt, &r.Status,
		&r.PaymentStatus, &r.TotalPriceMinor, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (repo *reservationRepo) Insert(ctx context.Context, db DBTX, r *domain.Reservation) error {
	_, err := db.Exec(ctx, `
		INSERT INTO reservations (id, court_id, user_id, start_at, end_at, status, payment_status, total_price_minor, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.CourtID, r.UserID, r.StartAt, r.EndAt, r.Status, r.PaymentStatus, r.TotalPriceMinor, r.Notes)
	return err
}

func (repo *reservationRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Reservation, error) {
	return scanReservation(db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
}

func (repo *reservationRepo) Save(ctx context.Context, db DBTX, r *domain.Reservation) error {
	tag, err := db.Exec(ctx, `
		UPDATE reservations
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1`,
		r.ID, r.Status, r.PaymentStatus, r.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("reservation", r.ID.String())
	}
	return nil
}

func (repo *reservationRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE user_id = $1
		ORDER BY start_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListBlockingInRange fetches every non-canceled reservation touching
// [from, to) in one query; overlap uses the strict half-open predicate.
func (repo *reservationRepo) ListBlockingInRange(ctx context.Context, db DBTX, courtID uuid.UUID, from, to time.Time) ([]domain.Reservation, error) {
	rows, err := db.Query(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE court_id = $1
		  AND status <> 'CANCELED'
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at ASC`, courtID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		var r domain.Reservation
		if err := rows.Scan(&r.ID, &r.CourtID, &r.UserID, &r.StartAt, &r.EndAt, &r.Status,
			&r.PaymentStatus, &r.TotalPriceMinor, &r.Notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}
