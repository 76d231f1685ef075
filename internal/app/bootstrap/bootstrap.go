package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	votingservice "pollhub/contexts/polling/voting-service"
	"pollhub/contexts/polling/voting-service/adapters/memory"
	postgresadapter "pollhub/contexts/polling/voting-service/adapters/postgres"
	"pollhub/internal/platform/config"
	"pollhub/internal/platform/db"
	"pollhub/internal/platform/httpserver"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 10 * time.Second

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var (
		module votingservice.Module
		pg     *db.Postgres
	)
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, errors.New("POSTGRES_DSN is required")
		}
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, logger, repo); err != nil {
				_ = pg.Close()
				return nil, err
			}
		}
		module = votingservice.NewModule(votingservice.Dependencies{
			Store:      repo,
			Clock:      postgresadapter.SystemClock{},
			IDGen:      postgresadapter.UUIDGenerator{},
			IndexLimit: cfg.IndexLimit,
			Logger:     logger,
		})
	default:
		module = votingservice.NewInMemoryModule(memory.Seed{}, logger)
		module.Handler.Index.Limit = cfg.IndexLimit
	}

	if cfg.SeedFile != "" {
		seed, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		if err := ApplySeed(ctx, module, seed, logger); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("apply seed %s: %w", cfg.SeedFile, err)
		}
	}

	server := httpserver.New(
		module,
		httpserver.NewIdentityResolver(cfg.JWTSecret),
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
