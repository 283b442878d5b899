// Package policy resolves what an authenticated actor may do to a resource.
// Handlers and services call these functions instead of scattering inline
// role checks. Everything here is pure: callers fetch the ownership facts
// (arena owner, organizer, presence) and pass them in.
package policy

import "github.com/google/uuid"

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role string
}

const (
	roleUser       = "user"
	roleOwner      = "owner"
	roleArenaOwner = "arena_owner"
	roleAdmin      = "admin"
)

// IsAdmin reports whether the actor holds the unrestricted role.
func (a Actor) IsAdmin() bool { return a.Role == roleAdmin }

// CanCreateArena: arena owners and admins register venues.
func CanCreateArena(a Actor) bool {
	return a.Role == roleArenaOwner || a.IsAdmin()
}

// CanManageArena: mutation of an arena (and its courts) is limited to the
// arena's own owner, or an admin. arena.OwnerID is the single source of
// ownership truth.
func CanManageArena(a Actor, arenaOwnerID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == roleArenaOwner && a.ID == arenaOwnerID
}

// CanCreateMatch: organizers anywhere, arena owners on their own courts,
// admins everywhere.
func CanCreateMatch(a Actor, arenaOwnerID uuid.UUID) bool {
	switch a.Role {
	case roleAdmin, roleOwner:
		return true
	case roleArenaOwner:
		return a.ID == arenaOwnerID
	}
	return false
}

// CanManageReservation: confirm, mark-paid and cancel-on-behalf belong to
// the owner of the court's arena, or an admin.
func CanManageReservation(a Actor, arenaOwnerID uuid.UUID) bool {
	return CanManageArena(a, arenaOwnerID)
}

// CanCancelReservation: the reserving user may self-cancel; otherwise the
// owner-side rule applies.
func CanCancelReservation(a Actor, reservationUserID, arenaOwnerID uuid.UUID) bool {
	if a.ID == reservationUserID {
		return true
	}
	return CanManageReservation(a, arenaOwnerID)
}

// CanViewReservation: the reserving user, the arena owner, or an admin.
func CanViewReservation(a Actor, reservationUserID, arenaOwnerID uuid.UUID) bool {
	return CanCancelReservation(a, reservationUserID, arenaOwnerID)
}

// CanTransitionMatch: start/finish/cancel/uncancel/expire belong to the
// organizer, the owner of the court's arena, or an admin.
func CanTransitionMatch(a Actor, organizerID, arenaOwnerID uuid.UUID) bool {
	if a.IsAdmin() || a.ID == organizerID {
		return true
	}
	return a.Role == roleArenaOwner && a.ID == arenaOwnerID
}

// CanEditOfficialStats follows the match transition rule.
func CanEditOfficialStats(a Actor, organizerID, arenaOwnerID uuid.UUID) bool {
	return CanTransitionMatch(a, organizerID, arenaOwnerID)
}

// CanEditUnofficialStats: a player edits only their own unofficial track,
// and only while holding a presence in the match.
func CanEditUnofficialStats(a Actor, targetUserID uuid.UUID, holdsPresence bool) bool {
	return a.ID == targetUserID && holdsPresence
}
