package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// ReservationHandler handles booking endpoints.
type ReservationHandler struct {
	reservationSvc *service.ReservationService
	idempotency    *guard.IdempotencyGuard
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(reservationSvc *service.ReservationService, idempotency *guard.IdempotencyGuard) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc, idempotency: idempotency}
}

func reservationID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// Create handles POST /reservations. An Idempotency-Key header dedupes
// client retries; the key is released when the booking fails so a retry
// after a 409 can still go through.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if result := h.idempotency.Check(r.Context(), key); !result.Allowed {
		RespondJSON(w, http.StatusConflict, errorBody{Code: "DUPLICATE_REQUEST", Message: result.Reason})
		return
	}

	var input service.ReservationInput
	if err := DecodeJSON(r, &input); err != nil {
		h.idempotency.Remove(key)
		RespondBadBody(w)
		return
	}

	reservation, err := h.reservationSvc.Create(r.Context(), actor, input)
	if err != nil {
		h.idempotency.Remove(key)
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, reservation)
}

// Get handles GET /reservations/{id}.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := reservationID(r)
	if !ok {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid reservation id"})
		return
	}

	reservation, err := h.reservationSvc.Get(r.Context(), actor, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, policy.Actor, uuid.UUID) (*domain.Reservation, error),
) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := reservationID(r)
	if !ok {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid reservation id"})
		return
	}

	reservation, err := apply(r.Context(), actor, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, reservation)
}

// ListMine handles GET /reservations?limit=.
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reservations, err := h.reservationSvc.ListMine(r.Context(), actor, limit)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"reservations": reservations})
}

// Confirm handles POST /reservations/{id}/confirm.
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationSvc.Confirm)
}

// Pay handles POST /reservations/{id}/pay.
func (h *ReservationHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationSvc.MarkPaid)
}

// Cancel handles POST /reservations/{id}/cancel.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationSvc.Cancel)
}

// CheckInQR handles GET /reservations/{id}/qr, returning a PNG encoding of
// the reservation's check-in payload.
func (h *ReservationHandler) CheckInQR(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := reservationID(r)
	if !ok {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid reservation id"})
		return
	}

	code, err := h.reservationSvc.CheckInCode(r.Context(), actor, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
