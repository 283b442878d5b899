package repository

import (
	"context"
	"errors"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type courtRepo struct{}

// NewCourtRepository returns a pgx-backed CourtRepository.
func NewCourtRepository() CourtRepository {
	return &courtRepo{}
}

const courtColumns = `id, arena_id, name, type, price_per_hour_minor, capacity, created_at, updated_at`

func scanCourt(row pgx.Row) (*domain.Court, error) {
	c := &domain.Court{}
	err := row.Scan(&c.ID, &c.ArenaID, &c.Name, &c.Type, &c.PricePerHourMinor,
		&c.Capacity, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courtRepo) Create(ctx context.Context, db DBTX, court *domain.Court) error {
	_, err := db.Exec(ctx, `
		INSERT INTO courts (id, arena_id, name, type, price_per_hour_minor, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		court.ID, court.ArenaID, court.Name, court.Type, court.PricePerHourMinor, court.Capacity)
	return err
}

func (r *courtRepo) Update(ctx context.Context, db DBTX, court *domain.Court) error {
	tag, err := db.Exec(ctx, `
		UPDATE courts
		SET name = $2, type = $3, price_per_hour_minor = $4, capacity = $5, updated_at = now()
		WHERE id = $1`,
		court.ID, court.Name, court.Type, court.PricePerHourMinor, court.Capacity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("court", court.ID.String())
	}
	return nil
}

func (r *courtRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Court, error) {
	return scanCourt(db.QueryRow(ctx,
		`SELECT `+courtColumns+` FROM courts WHERE id = $1`, id))
}

func (r *courtRepo) FindWithArenaOwner(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Court, uuid.UUID, error) {
	row := db.QueryRow(ctx, `
		SELECT c.id, c.arena_id, c.name, c.type, c.price_per_hour_minor, c.capacity,
		       c.created_at, c.updated_at, a.owner_id
		FROM courts c
		JOIN arenas a ON a.id = c.arena_id
		WHERE c.id = $1`, id)

	c := &domain.Court{}
	var ownerID uuid.UUID
	err := row.Scan(&c.ID, &c.ArenaID, &c.Name, &c.Type, &c.PricePerHourMinor,
		&c.Capacity, &c.CreatedAt, &c.UpdatedAt, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, uuid.Nil, nil
	}
	if err != nil {
		return nil, uuid.Nil, err
	}
	return c, ownerID, nil
}

func (r *courtRepo) ListByArena(ctx context.Context, db DBTX, arenaID uuid.UUID) ([]domain.Court, error) {
	rows, err := db.Query(ctx,
		`SELECT `+courtColumns+` FROM courts WHERE arena_id = $1 ORDER BY name ASC`, arenaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []domain.Court
	for rows.Next() {
		var c domain.Court
		if err := rows.Scan(&c.ID, &c.ArenaID, &c.Name, &c.Type, &c.PricePerHourMinor,
			&c.Capacity, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}
