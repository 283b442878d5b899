package service

import (
	"context"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourtService handles court management under an arena.
type CourtService struct {
	pool   *pgxpool.Pool
	arenas repository.ArenaRepository
	courts repository.CourtRepository
}

// NewCourtService creates a new CourtService.
func NewCourtService(pool *pgxpool.Pool, arenas repository.ArenaRepository, courts repository.CourtRepository) *CourtService {
	return &CourtService{pool: pool, arenas: arenas, courts: courts}
}

// CourtInput holds the create/update request fields.
type CourtInput struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	PricePerHourMinor *int64 `json:"price_per_hour_minor"`
	Capacity          int    `json:"capacity"`
}

func (in *CourtInput) validate() error {
	if in.Name == "" {
		return domain.ErrValidation("name is required")
	}
	if !domain.ValidCourtType(in.Type) {
		return domain.ErrValidation("unknown court type " + in.Type)
	}
	if in.PricePerHourMinor != nil && *in.PricePerHourMinor < 0 {
		return domain.ErrValidation("price_per_hour_minor must not be negative")
	}
	if in.Capacity < 0 {
		return domain.ErrValidation("capacity must not be negative")
	}
	return nil
}

// Create adds a court to an arena.
func (s *CourtService) Create(ctx context.Context, actor policy.Actor, arenaID uuid.UUID, input CourtInput) (*domain.Court, error) {
	arena, err := s.arenas.FindByID(ctx, s.pool, arenaID)
	if err != nil {
		return nil, domain.ErrInternal("find arena", err)
	}
	if arena == nil {
		return nil, domain.ErrNotFound("arena", arenaID.String())
	}
	if !policy.CanManageArena(actor, arena.OwnerID) {
		return nil, domain.ErrForbidden("not the arena owner")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	court := &domain.Court{
		ID:                uuid.New(),
		ArenaID:           arenaID,
		Name:              input.Name,
		Type:              input.Type,
		PricePerHourMinor: input.PricePerHourMinor,
		Capacity:          input.Capacity,
	}
	if err := s.courts.Create(ctx, s.pool, court); err != nil {
		return nil, domain.ErrInternal("create court", err)
	}
	return court, nil
}

// Update edits a court.
func (s *CourtService) Update(ctx context.Context, actor policy.Actor, courtID uuid.UUID, input CourtInput) (*domain.Court, error) {
	court, ownerID, err := s.courts.FindWithArenaOwner(ctx, s.pool, courtID)
	if err != nil {
		return nil, domain.ErrInternal("find court", err)
	}
	if court == nil {
		return nil, domain.ErrNotFound("court", courtID.String())
	}
	if !policy.CanManageArena(actor, ownerID) {
		return nil, domain.ErrForbidden("not the arena owner")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	court.Name = input.Name
	court.Type = input.Type
	court.PricePerHourMinor = input.PricePerHourMinor
	court.Capacity = input.Capacity

	if err := s.courts.Update(ctx, s.pool, court); err != nil {
		return nil, domain.ErrInternal("update court", err)
	}
	return court, nil
}

// Get resolves a court by id.
func (s *CourtService) Get(ctx context.Context, courtID uuid.UUID) (*domain.Court, error) {
	court, err := s.courts.FindByID(ctx, s.pool, courtID)
	if err != nil {
		return nil, domain.ErrInternal("find court", err)
	}
	if court == nil {
		return nil, domain.ErrNotFound("court", courtID.String())
	}
	return court, nil
}

// ListByArena returns an arena's courts.
func (s *CourtService) ListByArena(ctx context.Context, arenaID uuid.UUID) ([]domain.Court, error) {
	arena, err := s.arenas.FindByID(ctx, s.pool, arenaID)
	if err != nil {
		return nil, domain.ErrInternal("find arena", err)
	}
	if arena == nil {
		return nil, domain.ErrNotFound("arena", arenaID.String())
	}
	courts, err := s.courts.ListByArena(ctx, s.pool, arenaID)
	if err != nil {
		return nil, domain.ErrInternal("list courts", err)
	}
	return courts, nil
}
