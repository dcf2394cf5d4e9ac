package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mcoot/bullscows/internal/api"
	"github.com/mcoot/bullscows/internal/config"
	"github.com/mcoot/bullscows/internal/factory"
	"github.com/mcoot/bullscows/internal/logging"
	"github.com/mcoot/bullscows/internal/tracing"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:   "bullscows-server",
		Short: "Run the bulls & cows room server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv(config.PathEnv), "YAML config file (env: "+config.PathEnv+")")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	// A missing .env is fine; real environment variables still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "could not read .env: %v\n", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Error("failed to initialise tracing", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	// Create application factory
	app, err := factory.New(ctx, factory.ConfigFrom(cfg, logger, tracing.GetTracer("bullscows")))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("error closing application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Metrics:         app.Metrics,
		Clock:           app.Clock,
		HubManager:      app.HubManager,
		GuestService:    app.GuestService,
		RoomController:  app.RoomController,
		MatchController: app.MatchController,
		StorageType:     cfg.Storage.Type,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	})

	server := api.NewServer(router, cfg.Server, logger)

	// Background work: relay subscription and hub cleanup
	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()
	bgErr := make(chan error, 1)
	go func() {
		bgErr <- app.Run(bgCtx)
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.Bool("relay", cfg.Broadcast.Relay))

	// Wait for shutdown or error
	var runErr error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			runErr = err
		}
	case err := <-bgErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("background worker stopped", slog.String("error", err.Error()))
			runErr = err
		}
		if shutdownErr := server.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("shutdown error", slog.String("error", shutdownErr.Error()))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			runErr = err
		}
	}

	logger.Info("server stopped")
	return runErr
}
