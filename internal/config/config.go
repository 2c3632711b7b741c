// Package config loads daemon settings from a YAML file and SIDENOTES_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Environment variables overriding the file
const (
	EnvAddr      = "SIDENOTES_ADDR"
	EnvBackend   = "SIDENOTES_BACKEND"
	EnvDB        = "SIDENOTES_DB"
	EnvJWTSecret = "SIDENOTES_JWT_SECRET"
	EnvLogLevel  = "SIDENOTES_LOG_LEVEL"
	EnvLocale    = "SIDENOTES_LOCALE"
	EnvRateLimit = "SIDENOTES_RATE_LIMIT"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config содержит настройки демона
type Config struct {
	Addr            string        `yaml:"addr"`
	Backend         string        `yaml:"backend"`
	DBPath          string        `yaml:"db"`
	JWTSecret       string        `yaml:"jwt_secret"`
	LogLevel        string        `yaml:"log_level"`
	Locale          string        `yaml:"locale"`
	OriginPatterns  []string      `yaml:"origin_patterns"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	RateWindow      time.Duration `yaml:"rate_window"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	EventBuffer     int           `yaml:"event_buffer"`
	RateLimit       int           `yaml:"rate_limit"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:            "localhost:8080",
		Backend:         BackendBolt,
		DBPath:          "sidenotes.db",
		LogLevel:        "info",
		Locale:          "en",
		EventBuffer:     100,
		RateLimit:       60,
		RateWindow:      time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads path (optional), applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode накладывает YAML поверх текущих значений, неизвестные ключи - ошибка
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvAddr:      &c.Addr,
		EnvBackend:   &c.Backend,
		EnvDB:        &c.DBPath,
		EnvJWTSecret: &c.JWTSecret,
		EnvLogLevel:  &c.LogLevel,
		EnvLocale:    &c.Locale,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(EnvRateLimit); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvRateLimit, v)
		}
		c.RateLimit = n
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr cannot be empty"))
	}
	switch c.Backend {
	case BackendBolt, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendBolt, BackendSQLite, c.Backend))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db cannot be empty"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("token_ttl cannot be negative"))
	}
	if c.EventBuffer < 0 {
		errs = append(errs, errors.New("event_buffer cannot be negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit cannot be negative"))
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		errs = append(errs, errors.New("rate_window must be positive when rate_limit is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// AuthEnabled reports whether endpoint tokens are required.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
