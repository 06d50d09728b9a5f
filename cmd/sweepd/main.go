package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/vovakirdan/sweeper/internal/app"
	"github.com/vovakirdan/sweeper/internal/config"
	"github.com/vovakirdan/sweeper/internal/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		addr       = flag.String("addr", "", "HTTP listen address")
		dbPath     = flag.String("db", "", "SQLite database path")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	bootstrap := log.New("info")

	cfg, usedPath, err := config.Load(bootstrap, *configPath)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.UpdateFrom(config.Config{
		LogLevel: *logLevel,
		Server:   config.ServerConfig{Addr: *addr, DatabasePath: *dbPath},
	})

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", usedPath).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize app")
	}

	logger.Info().Str("addr", cfg.Server.Addr).Msg("starting sweepd")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
