package handler

import (
	"net/http"

	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CourtHandler handles court endpoints.
type CourtHandler struct {
	courtSvc *service.CourtService
}

// NewCourtHandler creates a new CourtHandler.
func NewCourtHandler(courtSvc *service.CourtService) *CourtHandler {
	return &CourtHandler{courtSvc: courtSvc}
}

func courtID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// Get handles GET /courts/{id}.
func (h *CourtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := courtID(r)
	if !ok {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid court id"})
		return
	}

	court, err := h.courtSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, court)
}

// Update handles PUT /courts/{id}.
func (h *CourtHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := courtID(r)
	if !ok {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid court id"})
		return
	}

	var input service.CourtInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	court, err := h.courtSvc.Update(r.Context(), actor, id, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, court)
}
