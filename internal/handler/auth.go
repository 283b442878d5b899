package handler

import (
	"net/http"

	"github.com/courtside/platform/internal/auth"
	"github.com/courtside/platform/internal/policy"
	"github.com/courtside/platform/internal/service"
)

// actorFrom resolves the authenticated actor from the request context.
// Routes behind auth.Authenticate always carry claims; ok is false only on
// a malformed subject.
func actorFrom(r *http.Request) (policy.Actor, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return policy.Actor{}, false
	}
	id, err := claims.UserID()
	if err != nil {
		return policy.Actor{}, false
	}
	return policy.Actor{ID: id, Role: claims.Role}, true
}

// respondNoActor is the shared reply when the auth context is unusable.
func respondNoActor(w http.ResponseWriter) {
	RespondJSON(w, http.StatusUnauthorized, errorBody{
		Code:    "UNAUTHORIZED",
		Message: "no auth context",
	})
}

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	result, err := h.authSvc.Register(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	result, err := h.authSvc.Login(r.Context(), input, ClientIP(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondNoActor(w)
		return
	}

	user, err := h.authSvc.Me(r.Context(), actor.ID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, user)
}
