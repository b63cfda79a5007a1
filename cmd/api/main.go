package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cassiomorais/fintrack/internal/bootstrap"
	"github.com/cassiomorais/fintrack/internal/controller"
	infraRedis "github.com/cassiomorais/fintrack/internal/infrastructure/redis"
	"github.com/cassiomorais/fintrack/internal/repository/postgres"
	"github.com/cassiomorais/fintrack/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "fintrack-api", "fintrack")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	userRepo := postgres.NewUserRepository(app.Pool)

	// --- Services ---
	analyticsCache := infraRedis.NewAnalyticsCache(
		app.Redis,
		app.Config.Analytics.CacheTTL,
		app.Config.Analytics.CircuitBreakerThreshold,
		app.Config.Analytics.CircuitBreakerTimeout,
	)
	authService := service.NewAuthService(userRepo, app.Config.Auth.JWTSecret, app.Config.Auth.JWTExpiry)
	transactionService := service.NewTransactionService(transactionRepo, analyticsCache)
	analyticsService := service.NewAnalyticsService(transactionRepo, analyticsCache, app.Metrics, app.Config.Analytics.TrendMonths)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:               app.Pool,
		RedisClient:        app.Redis,
		AuthService:        authService,
		TransactionService: transactionService,
		AnalyticsService:   analyticsService,
		Metrics:            app.Metrics,
		CORSConfig:         app.Config.Server.CORS,
		JWTSecret:          app.Config.Auth.JWTSecret,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
