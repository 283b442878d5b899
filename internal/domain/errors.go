package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"-"`
	Detail  interface{} `json:"detail,omitempty"`
	Cause   error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrAccountLocked(msg string) *AppError {
	return &AppError{Code: "ACCOUNT_LOCKED", Message: msg, Status: 429}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// ConflictDetail describes the blocking entity behind a 409 so callers can
// explain the rejection and pick another slot.
type ConflictDetail struct {
	Type    string `json:"type"` // "reservation" | "match"
	ID      string `json:"id"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	Status  string `json:"status"`
}

// ErrBookingConflict reports an interval overlap against an existing booking.
func ErrBookingConflict(detail ConflictDetail) *AppError {
	return &AppError{
		Code:    "BOOKING_CONFLICT",
		Message: fmt.Sprintf("interval overlaps an existing %s", detail.Type),
		Status:  409,
		Detail:  map[string]ConflictDetail{"conflict": detail},
	}
}

// ErrMatchFull rejects a join attempt on a match at capacity.
func ErrMatchFull(maxPlayers int) *AppError {
	return &AppError{
		Code:    "MATCH_FULL",
		Message: fmt.Sprintf("match is full (%d players)", maxPlayers),
		Status:  409,
	}
}

// ErrInvalidTransition rejects a state-machine transition from the wrong
// current status.
func ErrInvalidTransition(entity, from, to string) *AppError {
	return &AppError{
		Code:    "INVALID_TRANSITION",
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
		Status:  409,
	}
}
