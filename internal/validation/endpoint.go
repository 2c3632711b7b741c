package validation

import (
	"fmt"
	"regexp"
)

// EndpointPattern определяет допустимый формат endpoint id
// Латинские буквы, цифры, дефис и нижнее подчеркивание, 3-64 символа (UUID проходит)
var EndpointPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

const (
	// MinEndpointLen минимальная длина endpoint id
	MinEndpointLen = 3
	// MaxEndpointLen максимальная длина endpoint id
	MaxEndpointLen = 64
)

// ValidateEndpointID проверяет идентификатор UI endpoint
func ValidateEndpointID(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint id cannot be empty")
	}

	if len(endpoint) < MinEndpointLen {
		return fmt.Errorf("endpoint id must be at least %d characters long", MinEndpointLen)
	}

	if len(endpoint) > MaxEndpointLen {
		return fmt.Errorf("endpoint id must not exceed %d characters", MaxEndpointLen)
	}

	if !EndpointPattern.MatchString(endpoint) {
		return fmt.Errorf("endpoint id can only contain letters (a-z, A-Z), numbers (0-9), hyphens (-) and underscores (_)")
	}

	return nil
}
