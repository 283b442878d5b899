package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MatchHandler handles match endpoints.
type MatchHandler struct {
	matchSvc *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchSvc *service.MatchService) *MatchHandler {
	return &MatchHandler{matchSvc: matchSvc}
}

func matchID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func respondBadMatchID(w http.ResponseWriter) {
	RespondJSON(w, http.StatusBadRequest, errorBody{Code: "VALIDATION_ERROR", Message: "invalid match id"})
}

// Create handles POST /matches.
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	var input service.MatchInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	match, err := h.matchSvc.Create(r.Context(), actor, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, match)
}

// Get handles GET /matches/{id}.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(r)
	if !ok {
		respondBadMatchID(w)
		return
	}

	view, err := h.matchSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, view)
}

// List handles GET /matches?limit=.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	views, err := h.matchSvc.ListUpcoming(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"matches": views})
}

// Join handles POST /matches/{id}/join.
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.matchSvc.Join)
}

// Leave handles POST /matches/{id}/leave.
func (h *MatchHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.matchSvc.Leave)
}

func (h *MatchHandler) presence(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, policy.Actor, uuid.UUID) (*service.MatchView, error),
) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := matchID(r)
	if !ok {
		respondBadMatchID(w)
		return
	}

	view, err := apply(r.Context(), actor, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, view)
}

// ListPlayers handles GET /matches/{id}/players.
func (h *MatchHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(r)
	if !ok {
		respondBadMatchID(w)
		return
	}

	players, err := h.matchSvc.ListPlayers(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// Start handles POST /matches/{id}/start.
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchSvc.Start)
}

// Finish handles POST /matches/{id}/finish.
func (h *MatchHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchSvc.Finish)
}

// Cancel handles POST /matches/{id}/cancel.
func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchSvc.Cancel)
}

// Uncancel handles POST /matches/{id}/uncancel.
func (h *MatchHandler) Uncancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchSvc.Uncancel)
}

// Expire handles POST /matches/{id}/expire.
func (h *MatchHandler) Expire(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchSvc.Expire)
}

func (h *MatchHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, policy.Actor, uuid.UUID) (*domain.Match, error),
) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := matchID(r)
	if !ok {
		respondBadMatchID(w)
		return
	}

	match, err := apply(r.Context(), actor, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, match)
}

// RecordStat handles POST /matches/{id}/stats.
func (h *MatchHandler) RecordStat(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	id, ok := matchID(r)
	if !ok {
		respondBadMatchID(w)
		return
	}

	var event domain.StatEvent
	if err := DecodeJSON(r, &event); err != nil {
		RespondBadBody(w)
		return
	}

	stat, err := h.matchSvc.RecordStat(r.Context(), actor, id, event)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, stat)
}

// ListStats handles GET /matches/{id}/stats.
func (h *MatchHandler) ListStats(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(r)
	if !ok {
		respondBadMatchID(w)
		return
	}

	stats, err := h.matchSvc.ListStats(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
