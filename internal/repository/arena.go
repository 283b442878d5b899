package repository

import (
	"context"
	"errors"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type arenaRepo struct{}

// NewArenaRepository returns a pgx-backed ArenaRepository.
func NewArenaRepository() ArenaRepository {
	return &arenaRepo{}
}

const arenaColumns = `id, name, slug, city, district, address, open_time, close_time, owner_id, created_at, updated_at`

func scanArena(row pgx.Row) (*domain.Arena, error) {
	a := &domain.Arena{}
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.City, &a.District, &a.Address,
		&a.OpenTime, &a.CloseTime, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *arenaRepo) Create(ctx context.Context, db DBTX, arena *domain.Arena) error {
	_, err := db.Exec(ctx, `
		INSERT INTO arenas (id, name, slug, city, district, address, open_time, close_time, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		arena.ID, arena.Name, arena.Slug, arena.City, arena.District, arena.Address,
		arena.OpenTime, arena.CloseTime, arena.OwnerID)
	return err
}

func (r *arenaRepo) Update(ctx context.Context, db DBTX, arena *domain.Arena) error {
	tag, err := db.Exec(ctx, `
		UPDATE arenas
		SET name = $2, slug = $3, city = $4, district = $5, address = $6,
		    open_time = $7, close_time = $8, updated_at = now()
		WHERE id = $1`,
		arena.ID, arena.Name, arena.Slug, arena.City, arena.District, arena.Address,
		arena.OpenTime, arena.CloseTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("arena", arena.ID.String())
	}
	return nil
}

func (r *arenaRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Arena, error) {
	return scanArena(db.QueryRow(ctx,
		`SELECT `+arenaColumns+` FROM arenas WHERE id = $1`, id))
}

func (r *arenaRepo) FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Arena, error) {
	return scanArena(db.QueryRow(ctx,
		`SELECT `+arenaColumns+` FROM arenas WHERE slug = $1`, slug))
}

func (r *arenaRepo) List(ctx context.Context, db DBTX, city string) ([]domain.Arena, error) {
	query := `SELECT ` + arenaColumns + ` FROM arenas ORDER BY name ASC`
	args := []interface{}{}
	if city != "" {
		query = `SELECT ` + arenaColumns + ` FROM arenas WHERE city = $1 ORDER BY name ASC`
		args = append(args, city)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var arenas []domain.Arena
	for rows.Next() {
		var a domain.Arena
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.City, &a.District, &a.Address,
			&a.OpenTime, &a.CloseTime, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		arenas = append(arenas, a)
	}
	return arenas, rows.Err()
}

func (r *arenaRepo) SlugTaken(ctx context.Context, db DBTX, slug string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM arenas WHERE slug = $1 AND id <> $2)`,
		slug, excludeID).Scan(&taken)
	return taken, err
}
