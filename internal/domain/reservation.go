package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reservation statuses. CANCELED is terminal for overlap purposes: the row
// persists but no longer blocks new bookings.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCanceled  = "CANCELED"
)

// Payment statuses, an independent axis from the reservation status.
const (
	PaymentUnpaid   = "UNPAID"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

// Reservation is a formal booking of a court for [StartAt, EndAt).
// StartAt < EndAt strictly; timestamps are naive venue-local instants.
type Reservation struct {
	ID              uuid.UUID `json:"id"`
	CourtID         uuid.UUID `json:"court_id"`
	UserID          uuid.UUID `json:"user_id"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	TotalPriceMinor *int64    `json:"total_price_minor,omitempty"` // cents, nil if court price unknown
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Blocks reports whether this reservation occupies its interval with
// respect to new bookings.
func (r *Reservation) Blocks() bool {
	return r.Status != ReservationCanceled
}

// ReservationPrice derives the total price in cents from the court's hourly
// rate, or nil when the rate is unknown.
func ReservationPrice(pricePerHourMinor *int64, start, end time.Time) *int64 {
	if pricePerHourMinor == nil {
		return nil
	}
	minutes := int64(end.Sub(start) / time.Minute)
	total := *pricePerHourMinor * minutes / 60
	return &total
}
