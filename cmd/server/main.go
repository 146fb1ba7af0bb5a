package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailPkg "auragym/internal/adapters/email"
	web "auragym/internal/adapters/http"
	"auragym/internal/adapters/storage"
	accountStore "auragym/internal/adapters/storage/account"
	mealStore "auragym/internal/adapters/storage/meal"
	sessionStore "auragym/internal/adapters/storage/session"
	workoutStore "auragym/internal/adapters/storage/workout"
	"auragym/internal/application/orchestrators"
	"auragym/internal/config"
	"auragym/internal/domain/account"
	"auragym/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const purgeInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.IsProduction())
	for _, w := range cfg.Warnings {
		logger.Warn(w.Event, "effect", w.Effect)
	}
	account.HashCost = cfg.BcryptCost

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	timedDB := storage.NewTimedDB(db, logger, cfg.SlowQuery)
	stores := web.Stores{
		AccountStore: accountStore.NewSQLiteStore(timedDB),
		SessionStore: sessionStore.NewSQLiteStore(timedDB),
		WorkoutStore: workoutStore.NewSQLiteStore(timedDB),
		MealStore:    mealStore.NewSQLiteStore(timedDB),
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		logger.Info("email_sender_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			logger.Warn("email_sender_configured", "provider", "noop", "effect", "welcome emails are not delivered")
		}
	}

	var trusted []string
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		trusted = append(trusted, u.Host)
	}
	flashKey := sha256.Sum256(append([]byte("aura-flash:"), cfg.SessionSecret...))

	server, err := web.NewServer(stores, sender, web.Options{
		SessionTTL:     cfg.SessionTTL,
		Secure:         cfg.IsProduction(),
		AdminCode:      cfg.AdminCode,
		BaseURL:        cfg.BaseURL,
		CSRFKey:        cfg.SessionSecret,
		FlashKey:       flashKey[:],
		TrustedOrigins: trusted,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.RateLimiter().Run(ctx)
	go purgeSessions(ctx, orchestrators.PurgeSessionsDeps{SessionStore: stores.SessionStore}, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeSessions deletes expired session rows every purgeInterval until ctx is done.
func purgeSessions(ctx context.Context, deps orchestrators.PurgeSessionsDeps, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := orchestrators.ExecutePurgeSessions(ctx, deps); err != nil {
				logger.Error("session_purge_failed", "error", err)
			}
		}
	}
}
