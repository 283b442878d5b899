//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/courtside/platform/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"name": "New Player", "email": "newplayer@test.com", "password": "securepass123",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID   uuid.UUID `json:"id"`
			Name string    `json:"name"`
			Role string    `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, uuid.Nil, result.User.ID)
	assert.Equal(t, "New Player", result.User.Name)
	assert.Equal(t, "user", result.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("Dup One", "dup@test.com", "securepass123", "")

	resp := env.POST("/auth/register", map[string]string{
		"name": "Dup Two", "email": "dup@test.com", "password": "securepass123",
	}, "")
	testutil.AssertStatus(t, resp, http.StatusConflict)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"name": "Sneaky", "email": "sneaky@test.com", "password": "securepass123", "role": "admin",
	}, "")
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestRegister_ArenaOwnerRole(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/register", map[string]string{
		"name": "Venue Owner", "email": "venue@test.com", "password": "securepass123", "role": "arena_owner",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "arena_owner", result.User.Role)
}

func TestUsers_StorageRoleDefault(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	// Rows inserted without an explicit role must land on the same
	// lowercase role the API assigns.
	id := uuid.New()
	_, err := env.Pool.Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)",
		id, "Seeded User", "seeded@test.com", "x")
	require.NoError(t, err)

	var role string
	require.NoError(t, env.Pool.QueryRow(ctx, "SELECT role FROM users WHERE id = $1", id).Scan(&role))
	assert.Equal(t, "user", role)
}

func TestRegister_WritesOutboxEvent(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, userID := env.RegisterUser("Outbox User", "outbox@test.com", "securepass123", "")

	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, userID))
}

func TestLogin_Success(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("Login User", "login@test.com", "securepass123", "")

	token := env.Login("login@test.com", "securepass123")
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("Wrong Pass", "wrongpass@test.com", "securepass123", "")

	resp := env.POST("/auth/login", map[string]string{
		"email": "wrongpass@test.com", "password": "not-the-password",
	}, "")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/auth/login", map[string]string{
		"email": "ghost@test.com", "password": "whatever123",
	}, "")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.RegisterUser("Lock Me", "lockme@test.com", "securepass123", "")

	for i := 0; i < 5; i++ {
		resp := env.POST("/auth/login", map[string]string{
			"email": "lockme@test.com", "password": "bad-password",
		}, "")
		resp.Body.Close()
	}

	// Even the correct password is rejected while locked.
	resp := env.POST("/auth/login", map[string]string{
		"email": "lockme@test.com", "password": "securepass123",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestMe_ReturnsProfile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("Me User", "me@test.com", "securepass123", "")

	resp := env.AuthGET("/auth/me", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Me User", user.Name)
}

func TestMe_RequiresToken(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.GET("/auth/me")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}
