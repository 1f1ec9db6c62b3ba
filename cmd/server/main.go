// Command server wires together config, logging, storage, auth, and the
// live-bracket registry behind an HTTP server, the way the teacher's
// cmd/web/main.go wires the router and dependencies — extended with the
// ambient stack (structured logging, FD-limit raise, signal-based
// graceful shutdown) shown elsewhere in the corpus.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	"golang.org/x/sys/unix"

	"github.com/dynamic-tournament/live-bracket/internal/auth"
	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/bracket/system"
	"github.com/dynamic-tournament/live-bracket/internal/httpapi"
	"github.com/dynamic-tournament/live-bracket/internal/live"
	"github.com/dynamic-tournament/live-bracket/internal/store"
	"github.com/dynamic-tournament/live-bracket/internal/store/memstore"
	"github.com/dynamic-tournament/live-bracket/internal/store/sqlstore"
)

// seedStore is satisfied by both sqlstore.Store and memstore.Store:
// the full persistence collaborator plus the fresh-bracket seed lookup
// live.Registry needs as its entrantSource.
type seedStore interface {
	store.Store
	EntrantsFor(ctx context.Context, key store.BracketKey) (systemID uint64, entrants []bracket.EntrantRef, options bracket.Options, err error)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	raiseFileDescriptorLimit(logger)

	st, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	signer := auth.NewSigner(cfg.JWTAlg, cfg.JWTSigningKey, cfg.JWTRefreshKey, "live-bracket")
	login := auth.NewLogin(st, signer)
	registry := live.NewRegistry(st, system.NewRegistry(), st, logger, cfg.SubscriberQueueCap)

	router := httpapi.NewRouter(registry, login, signer, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited unexpectedly: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
	return nil
}

func openStore(cfg config, logger *slog.Logger) (seedStore, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store (state does not survive a restart)")
		return memstore.New(), nil
	}
	return sqlstore.Open(cfg.DatabaseURL)
}

// raiseFileDescriptorLimit raises RLIMIT_NOFILE to its hard ceiling and
// logs the chosen value: each live WebSocket connection and each pooled
// database connection holds one descriptor, and the distribution's
// default soft limit is easy to exhaust under load.
func raiseFileDescriptorLimit(logger *slog.Logger) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		logger.Warn("could not read RLIMIT_NOFILE", "error", err)
		return
	}
	if limit.Cur >= limit.Max {
		logger.Info("file descriptor limit already at ceiling", "limit", limit.Cur)
		return
	}
	limit.Cur = limit.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		logger.Warn("could not raise RLIMIT_NOFILE", "error", err)
		return
	}
	logger.Info("raised file descriptor limit", "limit", limit.Cur)
}
