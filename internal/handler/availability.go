package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AvailabilityHandler handles slot-grid endpoints.
type AvailabilityHandler struct {
	availabilitySvc *service.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(availabilitySvc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

func dayParam(r *http.Request) (time.Time, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return domain.ParseDay(date)
}

// CourtDay handles GET /courts/{id}/availability?date=&slot_minutes=.
func (h *AvailabilityHandler) CourtDay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid court id"})
		return
	}

	day, err := dayParam(r)
	if err != nil {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: err.Error()})
		return
	}
	slotMinutes, _ := strconv.Atoi(r.URL.Query().Get("slot_minutes"))

	availability, err := h.availabilitySvc.CourtDay(r.Context(), id, day, slotMinutes)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, availability)
}

// ArenaDay handles GET /arenas/{id}/availability?date=&slot_minutes=.
// The param accepts an id or a slug.
func (h *AvailabilityHandler) ArenaDay(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: err.Error()})
		return
	}
	slotMinutes, _ := strconv.Atoi(r.URL.Query().Get("slot_minutes"))

	courts, err := h.availabilitySvc.ArenaDay(r.Context(), chi.URLParam(r, "id"), day, slotMinutes)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"courts": courts})
}
