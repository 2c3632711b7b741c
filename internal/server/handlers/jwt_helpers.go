package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is the iss claim of endpoint tokens
const tokenIssuer = "sidenotes"

// EndpointClaims represents JWT claims of a UI endpoint token.
// The endpoint id is carried in the standard sub claim.
type EndpointClaims struct {
	jwt.RegisteredClaims
}

// Endpoint returns the endpoint id the token was issued for.
func (c *EndpointClaims) Endpoint() string {
	return c.Subject
}

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

// Enabled reports whether endpoint tokens are required.
func (c JWTConfig) Enabled() bool {
	return len(c.Secret) > 0
}

// GenerateEndpointToken создает JWT для UI endpoint
// Нулевой TTL означает бессрочный токен
func GenerateEndpointToken(cfg JWTConfig, endpoint string) (string, error) {
	now := time.Now()

	claims := EndpointClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   endpoint,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	if cfg.TokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(cfg.TokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateEndpointToken валидирует и парсит JWT endpoint token
func ValidateEndpointToken(cfg JWTConfig, tokenString string) (*EndpointClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &EndpointClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*EndpointClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no endpoint")
	}

	return claims, nil
}

type contextKey string

// EndpointKey is the context key of the authenticated endpoint id
const EndpointKey contextKey = "endpoint"

// WithEndpoint stores the endpoint id in ctx.
func WithEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, EndpointKey, endpoint)
}

// GetEndpoint извлекает endpoint id из контекста
func GetEndpoint(ctx context.Context) (string, bool) {
	endpoint, ok := ctx.Value(EndpointKey).(string)
	return endpoint, ok && endpoint != ""
}
