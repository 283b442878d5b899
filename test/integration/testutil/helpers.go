//go:build integration

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// RegisterUser creates an account and returns the auth token and user ID.
func (env *TestEnv) RegisterUser(name, email, password, role string) (token string, userID uuid.UUID) {
	env.t.Helper()
	resp := env.POST("/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterUser: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterUser: decode: %v", err)
	}
	return result.Token, result.User.ID
}

// Login authenticates an existing user and returns the auth token.
func (env *TestEnv) Login(email, password string) string {
	env.t.Helper()
	resp := env.POST("/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("Login: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("Login: decode: %v", err)
	}
	return result.Token
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token, nil)
}

// POSTWithHeaders performs a POST request with extra headers.
func (env *TestEnv) POSTWithHeaders(path string, body interface{}, token string, headers map[string]string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token, headers)
}

// PUT performs an authenticated PUT request.
func (env *TestEnv) PUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("PUT", path, body, token, nil)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

func (env *TestEnv) request(method, path string, body interface{}, token string, headers map[string]string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// CreateArena registers a venue through the API and returns its ID.
func (env *TestEnv) CreateArena(token, name, city string) uuid.UUID {
	env.t.Helper()
	resp := env.POST("/arenas", map[string]string{
		"name":       name,
		"city":       city,
		"open_time":  "08:00",
		"close_time": "22:00",
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("CreateArena: expected 201, got %d", resp.StatusCode)
	}

	var arena struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&arena); err != nil {
		env.t.Fatalf("CreateArena: decode: %v", err)
	}
	return arena.ID
}

// CreateCourt adds a court to an arena through the API and returns its ID.
func (env *TestEnv) CreateCourt(token string, arenaID uuid.UUID, name string, pricePerHourMinor int64) uuid.UUID {
	env.t.Helper()
	resp := env.POST(fmt.Sprintf("/arenas/%s/courts", arenaID), map[string]interface{}{
		"name":                 name,
		"type":                 "FUTSAL",
		"price_per_hour_minor": pricePerHourMinor,
		"capacity":             10,
	}, token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("CreateCourt: expected 201, got %d", resp.StatusCode)
	}

	var court struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&court); err != nil {
		env.t.Fatalf("CreateCourt: decode: %v", err)
	}
	return court.ID
}

// SeedVenue registers an arena owner with one arena and one court.
// Returns the owner token and the court ID.
func (env *TestEnv) SeedVenue(emailTag string) (ownerToken string, courtID uuid.UUID) {
	env.t.Helper()
	ownerToken, _ = env.RegisterUser(
		"Owner "+emailTag,
		fmt.Sprintf("owner_%s@test.com", emailTag),
		"password123",
		"arena_owner",
	)
	arenaID := env.CreateArena(ownerToken, "Arena "+emailTag, "Testville")
	courtID = env.CreateCourt(ownerToken, arenaID, "Court 1", 8000)
	return ownerToken, courtID
}
