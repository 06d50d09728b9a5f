package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/auth"
	"github.com/vovakirdan/sweeper/internal/config"
	"github.com/vovakirdan/sweeper/internal/service/games"
	"github.com/vovakirdan/sweeper/internal/store"
	"github.com/vovakirdan/sweeper/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/sweeper/internal/transport/http"
)

// App wires together storage, services and transport of the game service.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	stop            chan struct{}
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.Server.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.Server.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.Server.JWTSecret),
		Issuer:   cfg.Server.JWTIssuer,
		Audience: cfg.Server.JWTAudience,
		TTL:      cfg.Server.TokenTTL,
	}

	authService := auth.NewService(st, jwtConfig)
	gameService := games.New(st, logger)

	stop := make(chan struct{})
	server := transporthttp.NewServer(authService, gameService, cfg, logger, stop)

	return &App{
		server:          server,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		store:           st,
		stop:            stop,
		log:             logger,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup stops background workers and closes the database.
func (a *App) cleanup() {
	close(a.stop)

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
