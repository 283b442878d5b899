package service

import (
	"context"
	"fmt"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ArenaService handles venue registration and management.
type ArenaService struct {
	pool   *pgxpool.Pool
	arenas repository.ArenaRepository
	courts repository.CourtRepository
}

// NewArenaService creates a new ArenaService.
func NewArenaService(pool *pgxpool.Pool, arenas repository.ArenaRepository, courts repository.CourtRepository) *ArenaService {
	return &ArenaService{pool: pool, arenas: arenas, courts: courts}
}

// ArenaInput holds the create/update request fields.
type ArenaInput struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	District  string `json:"district"`
	Address   string `json:"address"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func (in *ArenaInput) validate() error {
	if in.Name == "" {
		return domain.ErrValidation("name is required")
	}
	if in.City == "" {
		return domain.ErrValidation("city is required")
	}
	if err := domain.ValidateClock(in.OpenTime); err != nil {
		return domain.ErrValidation("open_time: " + err.Error())
	}
	if err := domain.ValidateClock(in.CloseTime); err != nil {
		return domain.ErrValidation("close_time: " + err.Error())
	}
	return nil
}

// uniqueSlug derives a slug from the name and suffixes a counter until it
// is free, skipping the arena's own row on rename.
func (s *ArenaService) uniqueSlug(ctx context.Context, name string, excludeID uuid.UUID) (string, error) {
	base := domain.Slugify(name)
	if base == "" {
		return "", domain.ErrValidation("name must contain letters or digits")
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.arenas.SlugTaken(ctx, s.pool, slug, excludeID)
		if err != nil {
			return "", domain.ErrInternal("check slug", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Create registers a new arena owned by the acting user.
func (s *ArenaService) Create(ctx context.Context, actor policy.Actor, input ArenaInput) (*domain.Arena, error) {
	if !policy.CanCreateArena(actor) {
		return nil, domain.ErrForbidden("only arena owners can register venues")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, input.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	arena := &domain.Arena{
		ID:        uuid.New(),
		Name:      input.Name,
		Slug:      slug,
		City:      input.City,
		District:  input.District,
		Address:   input.Address,
		OpenTime:  input.OpenTime,
		CloseTime: input.CloseTime,
		OwnerID:   actor.ID,
	}
	if err := s.arenas.Create(ctx, s.pool, arena); err != nil {
		return nil, domain.ErrInternal("create arena", err)
	}
	return arena, nil
}

// Update edits an arena. Renaming regenerates the slug.
func (s *ArenaService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input ArenaInput) (*domain.Arena, error) {
	arena, err := s.arenas.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find arena", err)
	}
	if arena == nil {
		return nil, domain.ErrNotFound("arena", id.String())
	}
	if !policy.CanManageArena(actor, arena.OwnerID) {
		return nil, domain.ErrForbidden("not the arena owner")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.Name != arena.Name {
		slug, err := s.uniqueSlug(ctx, input.Name, arena.ID)
		if err != nil {
			return nil, err
		}
		arena.Slug = slug
	}
	arena.Name = input.Name
	arena.City = input.City
	arena.District = input.District
	arena.Address = input.Address
	arena.OpenTime = input.OpenTime
	arena.CloseTime = input.CloseTime

	if err := s.arenas.Update(ctx, s.pool, arena); err != nil {
		return nil, domain.ErrInternal("update arena", err)
	}
	return arena, nil
}

// Get resolves an arena by id or slug.
func (s *ArenaService) Get(ctx context.Context, idOrSlug string) (*domain.Arena, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		arena, err := s.arenas.FindByID(ctx, s.pool, id)
		if err != nil {
			return nil, domain.ErrInternal("find arena", err)
		}
		if arena == nil {
			return nil, domain.ErrNotFound("arena", idOrSlug)
		}
		return arena, nil
	}

	arena, err := s.arenas.FindBySlug(ctx, s.pool, idOrSlug)
	if err != nil {
		return nil, domain.ErrInternal("find arena", err)
	}
	if arena == nil {
		return nil, domain.ErrNotFound("arena", idOrSlug)
	}
	return arena, nil
}

// List returns arenas, optionally filtered by city.
func (s *ArenaService) List(ctx context.Context, city string) ([]domain.Arena, error) {
	arenas, err := s.arenas.List(ctx, s.pool, city)
	if err != nil {
		return nil, domain.ErrInternal("list arenas", err)
	}
	return arenas, nil
}
