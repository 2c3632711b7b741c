package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/sidenotes/internal/config"
	"github.com/iudanet/sidenotes/internal/quotastore"
	"github.com/iudanet/sidenotes/internal/quotastore/boltdb"
	"github.com/iudanet/sidenotes/internal/quotastore/sqlite"
	"github.com/iudanet/sidenotes/internal/relay"
	"github.com/iudanet/sidenotes/internal/repository"
	"github.com/iudanet/sidenotes/internal/server"
	"github.com/iudanet/sidenotes/internal/server/handlers"
	"github.com/iudanet/sidenotes/internal/validation"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// noteStore is a quota store owning an open database
type noteStore interface {
	quotastore.Store
	Close() error
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "Path to the note database (overrides config)")
	backend := flag.String("backend", "", "Storage backend: bolt or sqlite (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	issueToken := flag.String("issue-token", "", "Print an endpoint token for the given endpoint id and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// явно заданные флаги важнее файла и окружения
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "db":
			cfg.DBPath = *dbPath
		case "backend":
			cfg.Backend = *backend
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jwtConfig := handlers.JWTConfig{Secret: []byte(cfg.JWTSecret), TokenTTL: cfg.TokenTTL}
	if *issueToken != "" {
		if err := printToken(jwtConfig, *issueToken); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, jwtConfig, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, jwtConfig handlers.JWTConfig, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	repo := repository.New(store, repository.WithLogger(logger))
	bus := relay.NewBus(cfg.EventBuffer, logger)
	r := relay.New(repo, bus,
		relay.WithLogger(logger),
		relay.WithLocalizer(relay.NewLocalizer(cfg.Locale)),
	)
	defer r.Close()

	srv := server.New(server.Config{
		Addr:            cfg.Addr,
		Version:         Version,
		OriginPatterns:  cfg.OriginPatterns,
		JWT:             jwtConfig,
		RateLimit:       cfg.RateLimit,
		RateWindow:      cfg.RateWindow,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger, r, bus, repo)

	logger.Info("Sidenotes relay starting",
		"version", Version,
		"addr", cfg.Addr,
		"backend", cfg.Backend,
		"db", cfg.DBPath,
		"auth", jwtConfig.Enabled(),
	)

	return srv.Run(ctx)
}

func openStore(ctx context.Context, cfg config.Config) (noteStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(ctx, cfg.DBPath, sqlite.WithLimits(quotastore.DefaultLimits))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		store, err := boltdb.New(ctx, cfg.DBPath, boltdb.WithLimits(quotastore.DefaultLimits))
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		return store, nil
	}
}

func printToken(cfg handlers.JWTConfig, endpoint string) error {
	if !cfg.Enabled() {
		return errors.New("jwt_secret is not configured, tokens are not required")
	}
	if err := validation.ValidateEndpointID(endpoint); err != nil {
		return err
	}
	token, err := handlers.GenerateEndpointToken(cfg, endpoint)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printVersion() {
	fmt.Printf("Sidenotes Relay\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
