package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Arena ownership is resolved through arena.owner_id, never
// through the role alone.
const (
	RoleUser       = "user"
	RoleOwner      = "owner" // match organizer
	RoleArenaOwner = "arena_owner"
	RoleAdmin      = "admin"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleOwner, RoleArenaOwner, RoleAdmin:
		return true
	}
	return false
}

// User is an account row.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the view exposed on unauthenticated and cross-user paths.
// It never carries the email address.
type PublicUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// Public strips the private fields from a User.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Role: u.Role}
}
