package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("test-secret-key", 24*time.Hour, 8*time.Hour)
}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := newTestJWTManager()
	userID := uuid.New()

	token, err := mgr.GenerateToken(userID, "test@test.com", "Test User", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "test@test.com", claims.Email)
	assert.Equal(t, "user", claims.Role)

	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestAdminTokenCarriesRole(t *testing.T) {
	mgr := newTestJWTManager()

	token, err := mgr.GenerateToken(uuid.New(), "admin@test.com", "Admin", "admin")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestInvalidSecretRejected(t *testing.T) {
	mgr1 := NewJWTManager("secret-1", 24*time.Hour, 8*time.Hour)
	mgr2 := NewJWTManager("secret-2", 24*time.Hour, 8*time.Hour)

	token, err := mgr1.GenerateToken(uuid.New(), "", "", "user")
	require.NoError(t, err)

	_, err = mgr2.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret-key", -time.Minute, -time.Minute)

	token, err := mgr.GenerateToken(uuid.New(), "", "", "user")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	mgr := newTestJWTManager()
	_, err := mgr.ValidateToken("not.a.token")
	assert.Error(t, err)
}
