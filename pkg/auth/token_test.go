package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LEULEX-404/Health-Tracker/pkg/config"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

func testTokenManager(ttl int) *TokenManager {
	return NewTokenManager(&config.JWTConfig{
		SecretKey:      "test-secret-key",
		AccessTokenTTL: ttl,
		Issuer:         "health-tracker",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	tm := testTokenManager(3600)

	token, err := tm.GenerateToken(&types.UserClaims{
		UserID: "user-1",
		Email:  "pat@example.com",
		Role:   "patient",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, types.UserRole("patient"), claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := testTokenManager(-60)

	token, err := tm.GenerateToken(&types.UserClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm := testTokenManager(3600)
	other := NewTokenManager(&config.JWTConfig{
		SecretKey:      "a-different-secret",
		AccessTokenTTL: 3600,
		Issuer:         "health-tracker",
	})

	token, err := other.GenerateToken(&types.UserClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	tm := testTokenManager(3600)

	var gotClaims *types.UserClaims
	handler := tm.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := tm.GenerateToken(&types.UserClaims{UserID: "user-1", Email: "pat@example.com"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/health-data", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "user-1", gotClaims.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/health-data", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/health-data", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/health-data", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
