package domain

import (
	"time"

	"github.com/google/uuid"
)

// Arena is a venue owning one or more courts. OpenTime and CloseTime are
// HH:MM strings in the venue's local clock; CloseTime at or before OpenTime
// means the venue closes after midnight.
type Arena struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	City      string    `json:"city"`
	District  string    `json:"district,omitempty"`
	Address   string    `json:"address,omitempty"`
	OpenTime  string    `json:"open_time"`
	CloseTime string    `json:"close_time"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Court types, loosely sport/surface kinds.
const (
	CourtFutsal      = "futsal"
	CourtSociety     = "society"
	CourtField       = "field"
	CourtBeachTennis = "beach_tennis"
	CourtVolleyball  = "volleyball"
	CourtTennis      = "tennis"
)

// ValidCourtType reports whether t is a known court type.
func ValidCourtType(t string) bool {
	switch t {
	case CourtFutsal, CourtSociety, CourtField, CourtBeachTennis, CourtVolleyball, CourtTennis:
		return true
	}
	return false
}

// Court is a bookable playing surface. Every court belongs to exactly one
// arena; ownership checks resolve through the arena's owner_id.
type Court struct {
	ID                uuid.UUID `json:"id"`
	ArenaID           uuid.UUID `json:"arena_id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	PricePerHourMinor *int64    `json:"price_per_hour_minor,omitempty"` // cents, nil when price unknown
	Capacity          int       `json:"capacity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
