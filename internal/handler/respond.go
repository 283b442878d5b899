package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/courtside/platform/internal/domain"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// RespondError writes a JSON error response, detecting domain.AppError for
// status codes and structured detail (conflict payloads).
func RespondError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*domain.AppError); ok {
		RespondJSON(w, appErr.Status, errorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Detail:  appErr.Detail,
		})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, errorBody{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}

// maxBodyBytes caps request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

// RespondBadBody is the shared reply for an undecodable request body.
func RespondBadBody(w http.ResponseWriter) {
	RespondJSON(w, http.StatusBadRequest, errorBody{
		Code:    "VALIDATION_ERROR",
		Message: "invalid request body",
	})
}

// ClientIP extracts the caller's IP, preferring the first X-Forwarded-For
// entry over RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}
