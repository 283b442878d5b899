//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/courtside/platform/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slot returns a naive local timestamp on tomorrow's date at the given hour.
func slot(hour, min int) string {
	d := time.Now().AddDate(0, 0, 1)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:00", d.Year(), d.Month(), d.Day(), hour, min)
}

type reservationResp struct {
	ID              uuid.UUID `json:"id"`
	CourtID         uuid.UUID `json:"court_id"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	TotalPriceMinor *int64    `json:"total_price_minor"`
}

func createReservation(t *testing.T, env *testutil.TestEnv, token string, courtID uuid.UUID, start, end string) reservationResp {
	t.Helper()
	resp := env.POST("/reservations", map[string]interface{}{
		"court_id": courtID, "start_at": start, "end_at": end,
	}, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var r reservationResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return r
}

func TestReservation_Create(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("create")
	token, _ := env.RegisterUser("Booker", "booker@test.com", "securepass123", "")

	r := createReservation(t, env, token, courtID, slot(10, 0), slot(11, 0))
	assert.Equal(t, "PENDING", r.Status)
	assert.Equal(t, "UNPAID", r.PaymentStatus)
	require.NotNil(t, r.TotalPriceMinor)
	assert.Equal(t, int64(8000), *r.TotalPriceMinor) // one hour at 8000 minor units
}

func TestReservation_OverlapConflict(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("overlap")
	token, _ := env.RegisterUser("Booker", "overlap@test.com", "securepass123", "")

	createReservation(t, env, token, courtID, slot(10, 0), slot(11, 0))

	resp := env.POST("/reservations", map[string]interface{}{
		"court_id": courtID, "start_at": slot(10, 30), "end_at": slot(11, 30),
	}, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp struct {
		Code   string `json:"code"`
		Detail struct {
			Conflict struct {
				Type    string `json:"type"`
				StartAt string `json:"start_at"`
			} `json:"conflict"`
		} `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "BOOKING_CONFLICT", errResp.Code)
	assert.Equal(t, "reservation", errResp.Detail.Conflict.Type)
}

func TestReservation_BackToBackSlotsAllowed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("adjacent")
	token, _ := env.RegisterUser("Booker", "adjacent@test.com", "securepass123", "")

	createReservation(t, env, token, courtID, slot(10, 0), slot(11, 0))

	// Shared boundary instant is not an overlap.
	resp := env.POST("/reservations", map[string]interface{}{
		"court_id": courtID, "start_at": slot(11, 0), "end_at": slot(12, 0),
	}, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReservation_CancelFreesSlot(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("cancel")
	token, _ := env.RegisterUser("Booker", "cancel@test.com", "securepass123", "")

	r := createReservation(t, env, token, courtID, slot(14, 0), slot(15, 0))

	resp := env.POST(fmt.Sprintf("/reservations/%s/cancel", r.ID), nil, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The same interval books cleanly again.
	resp = env.POST("/reservations", map[string]interface{}{
		"court_id": courtID, "start_at": slot(14, 0), "end_at": slot(15, 0),
	}, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReservation_ConfirmAndPay(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ownerToken, courtID := env.SeedVenue("pay")
	token, _ := env.RegisterUser("Booker", "pay@test.com", "securepass123", "")

	r := createReservation(t, env, token, courtID, slot(16, 0), slot(17, 0))

	resp := env.POST(fmt.Sprintf("/reservations/%s/confirm", r.ID), nil, ownerToken)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.POST(fmt.Sprintf("/reservations/%s/pay", r.ID), nil, ownerToken)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status, payment := testutil.ReservationStatus(t, env, r.ID)
	assert.Equal(t, "CONFIRMED", status)
	assert.Equal(t, "PAID", payment)
}

func TestReservation_PayRequiresConfirmed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ownerToken, courtID := env.SeedVenue("paypending")
	token, _ := env.RegisterUser("Booker", "paypending@test.com", "securepass123", "")

	r := createReservation(t, env, token, courtID, slot(9, 0), slot(10, 0))

	resp := env.POST(fmt.Sprintf("/reservations/%s/pay", r.ID), nil, ownerToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReservation_GuestCannotConfirm(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("forbidden")
	token, _ := env.RegisterUser("Booker", "forbidden@test.com", "securepass123", "")

	r := createReservation(t, env, token, courtID, slot(18, 0), slot(19, 0))

	resp := env.POST(fmt.Sprintf("/reservations/%s/confirm", r.ID), nil, token)
	testutil.AssertStatus(t, resp, http.StatusForbidden)
}

func TestReservation_IdempotencyKey(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("idem")
	token, _ := env.RegisterUser("Booker", "idem@test.com", "securepass123", "")

	body := map[string]interface{}{
		"court_id": courtID, "start_at": slot(12, 0), "end_at": slot(13, 0),
	}
	headers := map[string]string{"Idempotency-Key": "booking-abc-123"}

	resp := env.POSTWithHeaders("/reservations", body, token, headers)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.POSTWithHeaders("/reservations", body, token, headers)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	testutil.AssertErrorCode(t, resp, "DUPLICATE_REQUEST")
}

func TestReservation_CheckInQR(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("qr")
	token, _ := env.RegisterUser("Booker", "qr@test.com", "securepass123", "")

	r := createReservation(t, env, token, courtID, slot(20, 0), slot(21, 0))

	resp := env.AuthGET(fmt.Sprintf("/reservations/%s/qr", r.ID), token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestReservation_ListMine(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("listmine")
	token, _ := env.RegisterUser("Booker", "listmine@test.com", "securepass123", "")
	otherToken, _ := env.RegisterUser("Other", "listother@test.com", "securepass123", "")

	createReservation(t, env, token, courtID, slot(10, 0), slot(11, 0))
	createReservation(t, env, otherToken, courtID, slot(11, 0), slot(12, 0))

	resp := env.AuthGET("/reservations", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Reservations []reservationResp `json:"reservations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Reservations, 1)
}

func TestAvailability_ReflectsBookings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, courtID := env.SeedVenue("avail")
	token, _ := env.RegisterUser("Booker", "avail@test.com", "securepass123", "")

	createReservation(t, env, token, courtID, slot(10, 0), slot(11, 0))

	day := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	resp := env.GET(fmt.Sprintf("/courts/%s/availability?date=%s", courtID, day))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Slots []struct {
			Start  string `json:"start"`
			Status string `json:"status"`
		} `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.NotEmpty(t, view.Slots)

	busy := 0
	for _, s := range view.Slots {
		if s.Status == "busy" {
			busy++
		}
	}
	assert.Equal(t, 1, busy) // one hour booked at default 60-minute granularity
}

func TestAvailability_ArenaBySlug(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ownerToken, _ := env.RegisterUser("Owner Slug", "owner_slug@test.com", "password123", "arena_owner")
	arenaID := env.CreateArena(ownerToken, "Slug Arena", "Testville")
	env.CreateCourt(ownerToken, arenaID, "Court 1", 8000)

	resp := env.GET(fmt.Sprintf("/arenas/%s", arenaID))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var arena struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&arena))
	require.NotEmpty(t, arena.Slug)

	day := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	availResp := env.GET(fmt.Sprintf("/arenas/%s/availability?date=%s", arena.Slug, day))
	defer availResp.Body.Close()
	require.Equal(t, http.StatusOK, availResp.StatusCode)

	var view struct {
		Courts []struct {
			CourtID uuid.UUID `json:"court_id"`
		} `json:"courts"`
	}
	require.NoError(t, json.NewDecoder(availResp.Body).Decode(&view))
	assert.Len(t, view.Courts, 1)
}
