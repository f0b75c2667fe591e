package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/config"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/monitor"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/server"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/store"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/video"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

func main() {
	// Initialize structured JSON logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("backend", cfg.Store.Backend).Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Database connection established")

	videos := video.NewService(st, cfg.Store.Timeout)

	mon := monitor.New(st, cfg.Monitor.Interval, server.UpdateVideoCount)

	gate := video.NewGate(cfg.Auth.APIKey)
	if !gate.Enabled() {
		log.Warn().Msg("CREATOR_API_KEY not set, create and delete routes are open")
	}

	httpServer := server.NewServer(videos, server.Options{
		Gate:              gate,
		APIKeyHeader:      cfg.Auth.Header,
		Health:            mon,
		Static:            staticRoots(cfg.Static.PublicDir, cfg.Static.WebDir),
		CORSOrigins:       cfg.Server.CORSOrigins,
		RequestsPerMinute: cfg.Limits.RequestsPerMinute,
		WritesPerSecond:   cfg.Limits.WritesPerSecond,
		WriteBurst:        cfg.Limits.WriteBurst,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	mon.Start(ctx)

	log.Info().Int("port", cfg.Server.Port).Msg("VideoShare backend started")

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	// 1. Stop accepting requests
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	// 2. Stop the store monitor
	mon.Stop()
	log.Info().Msg("Store monitor stopped")

	// 3. Close database connection
	if err := st.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	} else {
		log.Info().Msg("Database connection closed")
	}

	cancel()

	select {
	case <-shutdownCtx.Done():
		if shutdownCtx.Err() == context.DeadlineExceeded {
			log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
		}
	default:
		log.Info().Msg("Graceful shutdown completed")
	}
}

// openStore connects the configured backend
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMySQL:
		return store.NewMySQLStore(&cfg.DB)
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		return store.NewMongoStore(ctx, &cfg.Mongo, cfg.Store.ConnectTimeout)
	}
}

// staticRoots returns the bundle directories that exist
func staticRoots(dirs ...string) []fs.FS {
	var roots []fs.FS
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			log.Debug().Str("dir", dir).Msg("Static directory not found, skipping")
			continue
		}
		roots = append(roots, os.DirFS(dir))
		log.Info().Str("dir", dir).Msg("Serving static files")
	}
	return roots
}
