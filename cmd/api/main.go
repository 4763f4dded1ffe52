package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fridgekeep/internal/blob"
	"fridgekeep/internal/config"
	"fridgekeep/internal/database"
	"fridgekeep/internal/handler"
	"fridgekeep/internal/inventory"
	"fridgekeep/internal/mirror"
	"fridgekeep/internal/notify"
	"fridgekeep/internal/recipe"
	"fridgekeep/internal/router"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting fridgekeep API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the local blob store backing the inventory snapshot
	blobs, err := newBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	defer blobs.Close()

	snapshots := inventory.NewSnapshotStore(blobs, logger)

	installationID, err := snapshots.InstallationID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve installation id: %w", err)
	}
	logger.Info().Str("installation_id", installationID).Msg("installation resolved")

	// Initialize the remote snapshot mirror
	var remote mirror.Mirror = mirror.Unavailable{}
	if cfg.Mirror.Enabled {
		s3Mirror, err := mirror.NewS3Mirror(ctx, cfg.Mirror.Bucket, cfg.Mirror.Region, cfg.Mirror.Prefix, installationID, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 mirror, running local-only")
		} else {
			remote = s3Mirror
		}
	} else {
		logger.Info().Msg("remote mirror disabled, running local-only")
	}

	// Initialize the expiry notification pipeline
	sender := newSender(ctx, cfg.Notify, logger)
	scheduler := notify.NewScheduler(sender, logger)

	// Initialize the inventory services
	syncer := inventory.NewSyncer(snapshots, remote, scheduler, logger)
	inventoryService := inventory.NewService(snapshots, remote, syncer, scheduler, logger)

	// Initialize database connection pool for the recipe store
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	recipeRepo := recipe.NewRepository(pool, logger)
	recipeService := recipe.NewService(recipeRepo, snapshots, logger)

	// Initialize HTTP handlers
	inventoryHandler := handler.NewInventoryHandler(inventoryService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, inventoryService, logger)

	// Initialize router
	mux := router.New(inventoryHandler, recipeHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Pending expiry alerts die with the process; the next reconciliation
		// pass rebuilds them from the snapshot.
		scheduler.CancelAll(context.Background())

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newBlobStore builds the configured snapshot backend.
func newBlobStore(ctx context.Context, cfg config.BlobConfig, logger zerolog.Logger) (blob.Store, error) {
	switch cfg.Type {
	case "sqlite":
		return blob.NewSQLiteStore(cfg.SQLitePath, logger)
	case "redis":
		return blob.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix, logger)
	case "memory":
		return blob.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}

// newSender picks the notification delivery backend. Missing or broken FCM
// credentials fall back to log-only delivery rather than failing startup.
func newSender(ctx context.Context, cfg config.NotifyConfig, logger zerolog.Logger) notify.Sender {
	if cfg.DeviceToken == "" {
		logger.Info().Msg("no device token configured, expiry alerts are log-only")
		return notify.NewLogSender(logger)
	}

	var (
		sender notify.Sender
		err    error
	)
	switch {
	case cfg.FCMCredentialsFile != "":
		sender, err = notify.NewFCMSender(ctx, cfg.FCMCredentialsFile, cfg.DeviceToken, logger)
	case cfg.FCMCredentialsBase64 != "":
		sender, err = notify.NewFCMSenderFromBase64(ctx, cfg.FCMCredentialsBase64, cfg.DeviceToken, logger)
	default:
		logger.Info().Msg("no FCM credentials configured, expiry alerts are log-only")
		return notify.NewLogSender(logger)
	}

	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise FCM sender, expiry alerts are log-only")
		return notify.NewLogSender(logger)
	}

	return sender
}
