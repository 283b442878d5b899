//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body contains the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// CountOutboxEvents returns the number of outbox events for an aggregate.
func CountOutboxEvents(t *testing.T, env *TestEnv, aggregateID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM booking_outbox WHERE aggregate_id = $1", aggregateID.String()).Scan(&count)
	if err != nil {
		t.Fatalf("CountOutboxEvents: %v", err)
	}
	return count
}

// BackdateMatch rewinds a match's start time so lapse-dependent behavior
// can be exercised without waiting.
func BackdateMatch(t *testing.T, env *TestEnv, matchID uuid.UUID, by time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx,
		"UPDATE matches SET date = $2 WHERE id = $1", matchID, time.Now().Add(-by))
	if err != nil {
		t.Fatalf("BackdateMatch: %v", err)
	}
}

// ReservationStatus reads a reservation's status and payment status from the DB.
func ReservationStatus(t *testing.T, env *TestEnv, id uuid.UUID) (status, paymentStatus string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := env.Pool.QueryRow(ctx,
		"SELECT status, payment_status FROM reservations WHERE id = $1", id).Scan(&status, &paymentStatus)
	if err != nil {
		t.Fatalf("ReservationStatus: %v", err)
	}
	return status, paymentStatus
}
