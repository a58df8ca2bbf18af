package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"tle_tracker/internal/api"
	"tle_tracker/internal/api/handler"
	"tle_tracker/internal/common/security"
	"tle_tracker/internal/platform/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Configuration, logger, database, cache, repositories and services
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log
	log.Info("starting", zap.String("config", a.describe()))

	// 2. Schema
	if err := database.Migrate(ctx, a.db); err != nil {
		return err
	}

	// 3. Router & HTTP Server
	health := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": a.db.PingContext,
		"redis":    func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() },
	}, log)

	router := api.NewRouter(log, security.NewTokenAuth(a.cfg), health,
		a.syncService,
		a.submissionService,
		a.reminderService,
		a.userService,
		a.questionService,
		a.statsService,
	)

	server := &http.Server{
		Addr:         ":" + a.cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // a sync makes one upstream call per new event
		IdleTimeout:  120 * time.Second,
	}

	// 4. Graceful Shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", a.cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
