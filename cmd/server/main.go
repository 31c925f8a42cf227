package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecoshot/ecoshot/internal/api"
	"github.com/ecoshot/ecoshot/internal/config"
	"github.com/ecoshot/ecoshot/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	app, err := factory.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reload mirrored matches so printed badges survive a restart
	if err := app.Rehydrate(context.Background()); err != nil {
		logger.Warn("could not rehydrate matches", slog.String("error", err.Error()))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Registry:  app.Registry,
		Storage:   app.Persister,
		WSHandler: app.WSHandler,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     15 * time.Second,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Janitor: sweep ended matches and drop their hubs
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, id := range app.Registry.Sweep(cfg.MatchTTL) {
					app.HubManager.RemoveHub(id)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	app.Close()
	logger.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
