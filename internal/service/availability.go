package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/repository"
	"github.com/courtside/platform/internal/schedule"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// SlotView is one availability slot as served to clients. Times render in
// the same naive-local format bookings are submitted in.
type SlotView struct {
	Start      string           `json:"start"`
	End        string           `json:"end"`
	Status     string           `json:"status"` // free | busy
	PriceMinor *int64           `json:"price_minor,omitempty"`
	BusyWith   *schedule.Window `json:"busy_with,omitempty"`
}

// CourtAvailability is one court's slot grid for a day.
type CourtAvailability struct {
	CourtID   uuid.UUID  `json:"court_id"`
	CourtName string     `json:"court_name"`
	Date      string     `json:"date"`
	Slots     []SlotView `json:"slots"`
}

// AvailabilityService computes per-day slot grids. Grids at the default
// granularity are cached in redis under avail:{court}:{day}; other
// granularities are computed fresh, which keeps invalidation a single DEL.
type AvailabilityService struct {
	pool         *pgxpool.Pool
	arenas       repository.ArenaRepository
	courts       repository.CourtRepository
	reservations repository.ReservationRepository
	matches      repository.MatchRepository
	cache        *redis.Client
	cacheTTL     time.Duration
}

// NewAvailabilityService creates a new AvailabilityService. cache may be
// nil, disabling caching.
func NewAvailabilityService(
	pool *pgxpool.Pool,
	arenas repository.ArenaRepository,
	courts repository.CourtRepository,
	reservations repository.ReservationRepository,
	matches repository.MatchRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
) *AvailabilityService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &AvailabilityService{
		pool:         pool,
		arenas:       arenas,
		courts:       courts,
		reservations: reservations,
		matches:      matches,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

func cacheKey(courtID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("avail:%s:%s", courtID, day.Format("2006-01-02"))
}

// CourtDay returns one court's slot grid for a calendar day.
func (s *AvailabilityService) CourtDay(ctx context.Context, courtID uuid.UUID, day time.Time, slotMinutes int) (*CourtAvailability, error) {
	slotMinutes = schedule.ClampSlotMinutes(slotMinutes)

	cacheable := s.cache != nil && slotMinutes == schedule.DefaultSlotMinutes
	if cacheable {
		if raw, err := s.cache.Get(ctx, cacheKey(courtID, day)).Bytes(); err == nil {
			var cached CourtAvailability
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	court, err := s.courts.FindByID(ctx, s.pool, courtID)
	if err != nil {
		return nil, domain.ErrInternal("find court", err)
	}
	if court == nil {
		return nil, domain.ErrNotFound("court", courtID.String())
	}
	arena, err := s.arenas.FindByID(ctx, s.pool, court.ArenaID)
	if err != nil {
		return nil, domain.ErrInternal("find arena", err)
	}
	if arena == nil {
		return nil, domain.ErrNotFound("arena", court.ArenaID.String())
	}

	availability, err := s.buildCourtDay(ctx, arena, court, day, slotMinutes)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if raw, err := json.Marshal(availability); err == nil {
			s.cache.Set(ctx, cacheKey(courtID, day), raw, s.cacheTTL)
		}
	}
	return availability, nil
}

// ArenaDay returns every court's slot grid for a calendar day, computed
// concurrently per court. The arena is addressed by id or slug.
func (s *AvailabilityService) ArenaDay(ctx context.Context, idOrSlug string, day time.Time, slotMinutes int) ([]CourtAvailability, error) {
	slotMinutes = schedule.ClampSlotMinutes(slotMinutes)

	arena, err := s.resolveArena(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	courts, err := s.courts.ListByArena(ctx, s.pool, arena.ID)
	if err != nil {
		return nil, domain.ErrInternal("list courts", err)
	}

	results := make([]CourtAvailability, len(courts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range courts {
		g.Go(func() error {
			availability, err := s.buildCourtDay(gctx, arena, &courts[i], day, slotMinutes)
			if err != nil {
				return err
			}
			results[i] = *availability
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *AvailabilityService) resolveArena(ctx context.Context, idOrSlug string) (*domain.Arena, error) {
	var (
		arena *domain.Arena
		err   error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		arena, err = s.arenas.FindByID(ctx, s.pool, id)
	} else {
		arena, err = s.arenas.FindBySlug(ctx, s.pool, idOrSlug)
	}
	if err != nil {
		return nil, domain.ErrInternal("find arena", err)
	}
	if arena == nil {
		return nil, domain.ErrNotFound("arena", idOrSlug)
	}
	return arena, nil
}

// buildCourtDay does the uncached work: grid from operating hours, one
// fetch per booking source, busy marking.
func (s *AvailabilityService) buildCourtDay(ctx context.Context, arena *domain.Arena, court *domain.Court, day time.Time, slotMinutes int) (*CourtAvailability, error) {
	slots := schedule.BuildDayGrid(arena.OpenTime, arena.CloseTime, day, slotMinutes)

	availability := &CourtAvailability{
		CourtID:   court.ID,
		CourtName: court.Name,
		Date:      day.Format("2006-01-02"),
		Slots:     make([]SlotView, 0, len(slots)),
	}
	if len(slots) == 0 {
		return availability, nil
	}

	dayStart := slots[0].Start
	dayEnd := slots[len(slots)-1].End
	blocking, err := s.reservations.ListBlockingInRange(ctx, s.pool, court.ID, dayStart, dayEnd)
	if err != nil {
		return nil, domain.ErrInternal("list reservations", err)
	}
	matches, err := s.matches.ListBlockingInRange(ctx, s.pool, court.ID, dayStart, dayEnd)
	if err != nil {
		return nil, domain.ErrInternal("list matches", err)
	}
	schedule.MarkBusy(slots, schedule.CollectWindows(blocking, matches))

	for i := range slots {
		view := SlotView{
			Start:  slots[i].Start.Format("2006-01-02T15:04:05"),
			End:    slots[i].End.Format("2006-01-02T15:04:05"),
			Status: "free",
		}
		if slots[i].Busy {
			view.Status = "busy"
			view.BusyWith = slots[i].Meta
		} else {
			view.PriceMinor = domain.ReservationPrice(court.PricePerHourMinor, slots[i].Start, slots[i].End)
		}
		availability.Slots = append(availability.Slots, view)
	}
	return availability, nil
}

// InvalidateDay drops the cached default-granularity grid for a court day.
func (s *AvailabilityService) InvalidateDay(ctx context.Context, courtID uuid.UUID, day time.Time) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, cacheKey(courtID, day))
}
