package controller

import (
	"time"

	"github.com/cassiomorais/fintrack/internal/infrastructure/config"
	"github.com/cassiomorais/fintrack/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/fintrack/internal/middleware"
	"github.com/cassiomorais/fintrack/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Pool               *pgxpool.Pool
	RedisClient        *redis.Client
	AuthService        *service.AuthService
	TransactionService *service.TransactionService
	AnalyticsService   *service.AnalyticsService
	Metrics            *observability.Metrics
	CORSConfig         config.CORSConfig
	JWTSecret          string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	authH := NewAuthController(deps.AuthService, deps.Metrics)
	transactionH := NewTransactionController(deps.TransactionService, deps.AnalyticsService, deps.Metrics)
	dashboardH := NewDashboardController(deps.AnalyticsService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)

		// Everything below requires an authenticated owner.
		r.Group(func(r chi.Router) {
			r.Use(customMW.RequireAuth(deps.JWTSecret))

			r.Post("/transactions", transactionH.Create)
			r.Get("/transactions", transactionH.List)
			r.Get("/transactions/summary", transactionH.Summary)
			r.Put("/transactions/{id}", transactionH.Update)
			r.Delete("/transactions/{id}", transactionH.Delete)

			r.Get("/dashboard/category-breakdown", dashboardH.CategoryBreakdown)
			r.Get("/dashboard/monthly-trend", dashboardH.MonthlyTrend)
			r.Get("/dashboard/overview", dashboardH.Overview)
		})
	})

	return r
}
