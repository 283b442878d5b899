// Package app assembles the HTTP router from its dependencies. cmd/api and
// the integration tests share this wiring.
package app

import (
	"log/slog"
	"time"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/handler"
	"github.com/courtside/platform/internal/repository"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	JWTMgr *auth.JWTManager
	Logger *slog.Logger
	// Redis may be nil, disabling the availability cache.
	Redis                *redis.Client
	AvailabilityCacheTTL time.Duration
	MatchDurationMinutes int
	CORSAllowedOrigins   string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	userRepo := repository.NewUserRepository()
	arenaRepo := repository.NewArenaRepository()
	courtRepo := repository.NewCourtRepository()
	reservationRepo := repository.NewReservationRepository()
	matchRepo := repository.NewMatchRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Services
	availabilitySvc := service.NewAvailabilityService(pool, arenaRepo, courtRepo, reservationRepo, matchRepo, deps.Redis, deps.AvailabilityCacheTTL)
	authSvc := service.NewAuthService(pool, userRepo, outboxRepo, jwtMgr)
	arenaSvc := service.NewArenaService(pool, arenaRepo, courtRepo)
	courtSvc := service.NewCourtService(pool, arenaRepo, courtRepo)
	reservationSvc := service.NewReservationService(pool, courtRepo, reservationRepo, matchRepo, outboxRepo, availabilitySvc)
	matchSvc := service.NewMatchService(pool, courtRepo, reservationRepo, matchRepo, outboxRepo, availabilitySvc, deps.MatchDurationMinutes)

	// Guards
	loginLimiter := guard.NewRateLimiter(10, time.Minute)
	bookingIdempotency := guard.NewIdempotencyGuard()

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	arenaHandler := handler.NewArenaHandler(arenaSvc, courtSvc)
	courtHandler := handler.NewCourtHandler(courtSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc, bookingIdempotency)
	matchHandler := handler.NewMatchHandler(matchSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)

	origins := deps.CORSAllowedOrigins
	if origins == "" {
		origins = "*"
	}

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(origins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth, rate limited per IP)
	r.Route("/auth", func(r chi.Router) {
		r.Use(handler.RateLimit(loginLimiter))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Public discovery routes
	r.Get("/arenas", arenaHandler.List)
	r.Get("/arenas/{id}", arenaHandler.Get)
	r.Get("/arenas/{id}/courts", arenaHandler.ListCourts)
	r.Get("/arenas/{id}/availability", availabilityHandler.ArenaDay)
	r.Get("/courts/{id}", courtHandler.Get)
	r.Get("/courts/{id}/availability", availabilityHandler.CourtDay)
	r.Get("/matches", matchHandler.List)
	r.Get("/matches/{id}", matchHandler.Get)
	r.Get("/matches/{id}/players", matchHandler.ListPlayers)
	r.Get("/matches/{id}/stats", matchHandler.ListStats)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		r.Get("/auth/me", authHandler.Me)

		r.Post("/arenas", arenaHandler.Create)
		r.Put("/arenas/{id}", arenaHandler.Update)
		r.Post("/arenas/{id}/courts", arenaHandler.CreateCourt)
		r.Put("/courts/{id}", courtHandler.Update)

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", reservationHandler.Create)
			r.Get("/", reservationHandler.ListMine)
			r.Get("/{id}", reservationHandler.Get)
			r.Get("/{id}/qr", reservationHandler.CheckInQR)
			r.Post("/{id}/confirm", reservationHandler.Confirm)
			r.Post("/{id}/pay", reservationHandler.Pay)
			r.Post("/{id}/cancel", reservationHandler.Cancel)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", matchHandler.Create)
			r.Post("/{id}/join", matchHandler.Join)
			r.Post("/{id}/leave", matchHandler.Leave)
			r.Post("/{id}/start", matchHandler.Start)
			r.Post("/{id}/finish", matchHandler.Finish)
			r.Post("/{id}/cancel", matchHandler.Cancel)
			r.Post("/{id}/uncancel", matchHandler.Uncancel)
			r.Post("/{id}/expire", matchHandler.Expire)
			r.Post("/{id}/stats", matchHandler.RecordStat)
		})
	})

	return r
}
