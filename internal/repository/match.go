package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

const matchColumns = `id, court_id, organizer_id, title, date, duration_min, kind, status,
	max_players, min_players, price_per_player_minor, started_at, finished_at, canceled_at,
	created_at, updated_at`

func scanMatch(row pgx.Row) (*domain.Match, error) {
	m := &domain.Match{}
	err := row.Scan(&m.ID, &m.CourtID, &m.OrganizerID, &m.Title, &m.Date, &m.DurationMin,
		&m.Kind, &m.Status, &m.MaxPlayers, &m.MinPlayers, &m.PricePerPlayerMinor,
		&m.StartedAt, &m.FinishedAt, &m.CanceledAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (repo *matchRepo) Insert(ctx context.Context, db DBTX, m *domain.Match) error {
	_, err := db.Exec(ctx, `
		INSERT INTO matches (id, court_id, organizer_id, title, date, duration_min, kind, status,
			max_players, min_players, price_per_player_minor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.CourtID, m.OrganizerID, m.Title, m.Date, m.DurationMin, m.Kind, m.Status,
		m.MaxPlayers, m.MinPlayers, m.PricePerPlayerMinor)
	return err
}

func (repo *matchRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error) {
	return scanMatch(db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
}

func (repo *matchRepo) Save(ctx context.Context, db DBTX, m *domain.Match) error {
	tag, err := db.Exec(ctx, `
		UPDATE matches
		SET status = $2, started_at = $3, finished_at = $4, canceled_at = $5, updated_at = $6
		WHERE id = $1`,
		m.ID, m.Status, m.StartedAt, m.FinishedAt, m.CanceledAt, m.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("match", m.ID.String())
	}
	return nil
}

func (repo *matchRepo) ListUpcoming(ctx context.Context, db DBTX, from time.Time, limit int) ([]domain.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE date >= $1 AND status IN ('SCHEDULED', 'LIVE')
		ORDER BY date ASC
		LIMIT $2`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatches(rows)
}

// ListBlockingInRange fetches every still-blocking match whose window
// touches [from, to) in one query. The window end is computed server-side
// from the per-match duration.
func (repo *matchRepo) ListBlockingInRange(ctx context.Context, db DBTX, courtID uuid.UUID, from, to time.Time) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE court_id = $1
		  AND status NOT IN ('CANCELED', 'EXPIRED', 'FINISHED')
		  AND date < $3
		  AND date + make_interval(mins => duration_min) > $2
		ORDER BY date ASC`, courtID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatches(rows)
}

func collectMatches(rows pgx.Rows) ([]domain.Match, error) {
	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.CourtID, &m.OrganizerID, &m.Title, &m.Date, &m.DurationMin,
			&m.Kind, &m.Status, &m.MaxPlayers, &m.MinPlayers, &m.PricePerPlayerMinor,
			&m.StartedAt, &m.FinishedAt, &m.CanceledAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// --- presences ---

func (repo *matchRepo) AddPresence(ctx context.Context, db DBTX, matchID, userID uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO match_presences (match_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (match_id, user_id) DO NOTHING`, matchID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (repo *matchRepo) RemovePresence(ctx context.Context, db DBTX, matchID, userID uuid.UUID) error {
	_, err := db.Exec(ctx,
		`DELETE FROM match_presences WHERE match_id = $1 AND user_id = $2`, matchID, userID)
	return err
}

func (repo *matchRepo) HasPresence(ctx context.Context, db DBTX, matchID, userID uuid.UUID) (bool, error) {
	var present bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM match_presences WHERE match_id = $1 AND user_id = $2)`,
		matchID, userID).Scan(&present)
	return present, err
}

func (repo *matchRepo) CountPresences(ctx context.Context, db DBTX, matchID uuid.UUID) (int, error) {
	var count int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM match_presences WHERE match_id = $1`, matchID).Scan(&count)
	return count, err
}

func (repo *matchRepo) ListPresences(ctx context.Context, db DBTX, matchID uuid.UUID) ([]domain.PublicUser, error) {
	rows, err := db.Query(ctx, `
		SELECT u.id, u.name, u.role
		FROM match_presences p
		JOIN users u ON u.id = p.user_id
		WHERE p.match_id = $1
		ORDER BY p.created_at ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []domain.PublicUser
	for rows.Next() {
		var u domain.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		players = append(players, u)
	}
	return players, rows.Err()
}

// --- player stats ---

// ApplyStatDelta upserts the stat row and adjusts one counter with a
// GREATEST(0, …) floor, so decrements below zero clamp instead of failing.
// The column name comes from the closed StatEvent vocabulary, never from
// request input directly.
func (repo *matchRepo) ApplyStatDelta(ctx context.Context, db DBTX, matchID uuid.UUID, event domain.StatEvent) (*domain.MatchPlayerStat, error) {
	col := event.Column()
	insertVal := 0
	if event.Delta > 0 {
		insertVal = event.Delta
	}

	query := fmt.Sprintf(`
		INSERT INTO match_player_stats (match_id, user_id, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id, user_id)
		DO UPDATE SET %s = GREATEST(0, match_player_stats.%s + $4), updated_at = now()
		RETURNING match_id, user_id, goals_official, assists_official,
		          goals_unofficial, assists_unofficial, updated_at`, col, col, col)

	s := &domain.MatchPlayerStat{}
	err := db.QueryRow(ctx, query, matchID, event.UserID, insertVal, event.Delta).Scan(
		&s.MatchID, &s.UserID, &s.GoalsOfficial, &s.AssistsOfficial,
		&s.GoalsUnofficial, &s.AssistsUnofficial, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (repo *matchRepo) ListStats(ctx context.Context, db DBTX, matchID uuid.UUID) ([]domain.MatchPlayerStat, error) {
	rows, err := db.Query(ctx, `
		SELECT match_id, user_id, goals_official, assists_official,
		       goals_unofficial, assists_unofficial, updated_at
		FROM match_player_stats
		WHERE match_id = $1
		ORDER BY user_id ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.MatchPlayerStat
	for rows.Next() {
		var s domain.MatchPlayerStat
		if err := rows.Scan(&s.MatchID, &s.UserID, &s.GoalsOfficial, &s.AssistsOfficial,
			&s.GoalsUnofficial, &s.AssistsUnofficial, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
