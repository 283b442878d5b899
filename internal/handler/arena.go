package handler

import (
	"net/http"

	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ArenaHandler handles venue endpoints.
type ArenaHandler struct {
	arenaSvc *service.ArenaService
	courtSvc *service.CourtService
}

// NewArenaHandler creates a new ArenaHandler.
func NewArenaHandler(arenaSvc *service.ArenaService, courtSvc *service.CourtService) *ArenaHandler {
	return &ArenaHandler{arenaSvc: arenaSvc, courtSvc: courtSvc}
}

// Create handles POST /arenas.
func (h *ArenaHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	var input service.ArenaInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	arena, err := h.arenaSvc.Create(r.Context(), actor, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, arena)
}

// Update handles PUT /arenas/{id}.
func (h *ArenaHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid arena id"})
		return
	}

	var input service.ArenaInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	arena, err := h.arenaSvc.Update(r.Context(), actor, id, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, arena)
}

// Get handles GET /arenas/{id}. The param accepts an id or a slug.
func (h *ArenaHandler) Get(w http.ResponseWriter, r *http.Request) {
	arena, err := h.arenaSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, arena)
}

// List handles GET /arenas?city=.
func (h *ArenaHandler) List(w http.ResponseWriter, r *http.Request) {
	arenas, err := h.arenaSvc.List(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"arenas": arenas})
}

// ListCourts handles GET /arenas/{id}/courts.
func (h *ArenaHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid arena id"})
		return
	}

	courts, err := h.courtSvc.ListByArena(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"courts": courts})
}

// CreateCourt handles POST /arenas/{id}/courts.
func (h *ArenaHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid arena id"})
		return
	}

	var input service.CourtInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	court, err := h.courtSvc.Create(r.Context(), actor, id, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, court)
}
