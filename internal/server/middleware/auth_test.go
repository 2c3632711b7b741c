package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sidenotes/internal/server/handlers"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func testJWTConfig() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:   []byte("test-secret-key"),
		TokenTTL: 15 * time.Minute,
	}
}

// endpointHandler проверяет что endpoint попал в контекст
func endpointHandler(t *testing.T, expectedEndpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint, ok := handlers.GetEndpoint(r.Context())
		require.True(t, ok, "endpoint should be in context")
		assert.Equal(t, expectedEndpoint, endpoint)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func unreachable(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	cfg := testJWTConfig()
	token, err := handlers.GenerateEndpointToken(cfg, "sidebar-1")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), cfg)(endpointHandler(t, "sidebar-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/relay", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := handlers.GenerateEndpointToken(cfg, "sidebar-2")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), cfg)(endpointHandler(t, "sidebar-2"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/relay?token="+token, nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_HeaderTakesPrecedence(t *testing.T) {
	cfg := testJWTConfig()
	headerToken, err := handlers.GenerateEndpointToken(cfg, "from-header")
	require.NoError(t, err)
	queryToken, err := handlers.GenerateEndpointToken(cfg, "from-query")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), cfg)(endpointHandler(t, "from-header"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/relay?token="+queryToken, nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	handler := AuthMiddleware(setupTestLogger(), testJWTConfig())(unreachable(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/relay", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing token")
}

func TestAuthMiddleware_InvalidAuthHeaderFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no bearer prefix", header: "token-without-bearer"},
		{name: "wrong prefix", header: "Basic dXNlcjpwYXNz"},
		{name: "bearer without token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(setupTestLogger(), testJWTConfig())(unreachable(t))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/relay", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token format")
		})
	}
}

func TestAuthMiddleware_RejectedTokens(t *testing.T) {
	cfg := testJWTConfig()

	signed := func(claims jwt.Claims, secret []byte) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return token
	}

	wrongSecret, err := handlers.GenerateEndpointToken(handlers.JWTConfig{Secret: []byte("other-secret")}, "sidebar-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: wrongSecret},
		{
			name: "expired",
			token: signed(jwt.RegisteredClaims{
				Subject:   "sidebar-1",
				Issuer:    "sidenotes",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}, cfg.Secret),
		},
		{
			name: "foreign issuer",
			token: signed(jwt.RegisteredClaims{
				Subject: "sidebar-1",
				Issuer:  "someone-else",
			}, cfg.Secret),
		},
		{
			name: "no endpoint",
			token: signed(jwt.RegisteredClaims{
				Issuer: "sidenotes",
			}, cfg.Secret),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(setupTestLogger(), cfg)(unreachable(t))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/relay", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token")
		})
	}
}
