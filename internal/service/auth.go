package service

import (
	"context"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration and login.
type AuthService struct {
	pool   *pgxpool.Pool
	users  repository.UserRepository
	outbox repository.OutboxRepository
	jwtMgr *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	jwtMgr *auth.JWTManager,
) *AuthService {
	return &AuthService{
		pool:   pool,
		users:  users,
		outbox: outbox,
		jwtMgr: jwtMgr,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Register creates a new account. Admins are never self-service; the role
// field accepts only the public roles.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Name == "" {
		return nil, domain.ErrValidation("name is required")
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if input.Role == domain.RoleAdmin || !domain.ValidRole(input.Role) {
		return nil, domain.ErrValidation("role must be user, owner or arena_owner")
	}

	existing, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, tx, user); err != nil {
		if repository.IsExclusionViolation(err) {
			return nil, domain.ErrConflict("email already registered")
		}
		return nil, domain.ErrInternal("create user", err)
	}

	draft := domain.NewUserRegisteredEvent(user.ID, user.Name, user.Role)
	if err := s.outbox.Insert(ctx, tx, draft); err != nil {
		return nil, domain.ErrInternal("enqueue event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an account and returns a JWT. Failed attempts are
// recorded; too many within the lockout window locks the account.
func (s *AuthService) Login(ctx context.Context, input LoginInput, clientIP string) (*AuthResult, error) {
	if err := guard.CheckLocked(ctx, s.pool, input.Email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		guard.RecordAttempt(ctx, s.pool, input.Email, clientIP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		guard.RecordAttempt(ctx, s.pool, input.Email, clientIP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	guard.RecordAttempt(ctx, s.pool, input.Email, clientIP, true)

	token, err := s.jwtMgr.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Me resolves the authenticated user's own record.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}
	return user, nil
}
