// Package lifecycle implements the reservation and match state machines as
// pure functions over domain entities. Persistence happens in the service
// layer after a transition succeeds.
package lifecycle

import (
	"time"

	"github.com/courtside/platform/internal/domain"
)

// ConfirmReservation moves PENDING → CONFIRMED.
func ConfirmReservation(r *domain.Reservation, now time.Time) error {
	if r.Status != domain.ReservationPending {
		return domain.ErrInvalidTransition("reservation", r.Status, domain.ReservationConfirmed)
	}
	r.Status = domain.ReservationConfirmed
	r.UpdatedAt = now
	return nil
}

// MarkReservationPaid flips the payment axis UNPAID → PAID. The reservation
// must already be confirmed; paying a pending or canceled booking would let
// callers skip stages.
func MarkReservationPaid(r *domain.Reservation, now time.Time) error {
	if r.Status != domain.ReservationConfirmed {
		return domain.ErrInvalidTransition("reservation", r.Status, "PAID")
	}
	if r.PaymentStatus == domain.PaymentPaid {
		return domain.ErrConflict("reservation is already paid")
	}
	r.PaymentStatus = domain.PaymentPaid
	r.UpdatedAt = now
	return nil
}

// CancelReservation moves any non-terminal state → CANCELED. The row
// persists but stops blocking new bookings.
func CancelReservation(r *domain.Reservation, now time.Time) error {
	if r.Status == domain.ReservationCanceled {
		return domain.ErrInvalidTransition("reservation", r.Status, domain.ReservationCanceled)
	}
	r.Status = domain.ReservationCanceled
	if r.PaymentStatus == domain.PaymentPaid {
		r.PaymentStatus = domain.PaymentRefunded
	}
	r.UpdatedAt = now
	return nil
}
