// Package app wires configuration, storage, services, and transport into a
// runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres"
	auditrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/audit"
	disclaimerrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/disclaimer"
	recordrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/record"
	suggestionrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/suggestion"
	tokenrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/token"
	userrepo "github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/postgres/user"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/adapter/provider/insight"
	authinfra "github.com/hankthebldr/cortex-dc-web-sub005/internal/auth"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/config"
	authsvc "github.com/hankthebldr/cortex-dc-web-sub005/internal/service/auth"
	disclaimersvc "github.com/hankthebldr/cortex-dc-web-sub005/internal/service/disclaimer"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/service/enrichment"
	gatewaysvc "github.com/hankthebldr/cortex-dc-web-sub005/internal/service/gateway"
	usersvc "github.com/hankthebldr/cortex-dc-web-sub005/internal/service/user"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/transport/middleware"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, applies
// migrations, wires repositories and services, and serves HTTP until the
// context is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := postgres.Migrate(cfg.Database.DSN); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	records := recordrepo.New(pool)
	suggestions := suggestionrepo.New(pool)
	tokens := tokenrepo.New(pool)
	disclaimers := disclaimerrepo.New(pool)
	audit := auditrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	jwtManager := authinfra.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	insightProvider := insight.New(
		cfg.Enrichment.ProviderURL,
		cfg.Enrichment.ProviderToken,
		int(cfg.Enrichment.ProviderRetries),
		logger,
	)

	orchestrator := enrichment.NewOrchestrator(logger, suggestions, users, insightProvider, cfg.Enrichment)
	orchestrator.Start()

	authService := authsvc.NewService(logger, users, tokens, txManager, jwtManager, cfg.Auth)
	userService := usersvc.NewService(logger, users, audit, txManager)
	disclaimerService := disclaimersvc.NewService(logger, disclaimers, cfg.Disclaimer.PolicyVersion)
	gatewayService := gatewaysvc.NewService(
		logger,
		records,
		users,
		suggestions,
		audit,
		txManager,
		disclaimerService,
		orchestrator,
	)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handlers := rest.Handlers{
		Auth:       rest.NewAuthHandler(authService, logger),
		Record:     rest.NewRecordHandler(gatewayService, logger),
		User:       rest.NewUserHandler(userService, logger),
		Disclaimer: rest.NewDisclaimerHandler(disclaimerService, logger),
		Admin:      rest.NewAdminHandler(userService, orchestrator, logger),
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
	}

	router := rest.NewRouter(handlers, authService, limiter, *cfg, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	logger.Info("http server listening", slog.String("addr", srv.Addr))

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.Any("error", err))
	}
	if err := orchestrator.Shutdown(shutdownCtx); err != nil {
		logger.Error("enrichment shutdown", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}
