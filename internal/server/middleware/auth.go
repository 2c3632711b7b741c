package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/sidenotes/internal/server/handlers"
)

// AuthMiddleware создает middleware для проверки JWT токена endpoint
// Токен берется из заголовка Authorization, а если его нет - из query параметра token
// (браузерный WebSocket API не умеет передавать заголовки)
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractToken(w, r, logger)
			if !ok {
				return
			}

			claims, err := handlers.ValidateEndpointToken(jwtConfig, tokenString)
			if err != nil {
				logger.Warn("Invalid endpoint token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			logger.Debug("Endpoint authenticated", "endpoint", claims.Endpoint())

			ctx := handlers.WithEndpoint(r.Context(), claims.Endpoint())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, true
		}
		logger.Warn("Missing endpoint token")
		http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
		return "", false
	}

	// Ожидаем формат: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		logger.Warn("Invalid Authorization header format")
		http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
		return "", false
	}

	return parts[1], true
}
