package api

import (
	"log/slog"
	"net/http"
	"time"

	"credit-engine/internal/api/handler"
	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/batch"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/underwriting"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(underwritingService underwriting.UnderwritingService, customerService customer.CustomerService, ingestionJob *batch.IngestionJob, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupCustomerRoutes(router, cfg, customerService, underwritingService, logger)
	setupLoanRoutes(router, underwritingService, cfg, logger)
	setupIngestionRoutes(router, ingestionJob, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupLoanRoutes(router *chi.Mux, underwritingService underwriting.UnderwritingService, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(underwritingService, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)
	logger.Info("Route Config")
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", loanHandler.CreateLoan)
		r.Post("/check-eligibility", loanHandler.CheckEligibility)
		r.Get("/{loanID}", loanHandler.GetLoan)
	})
}

func setupCustomerRoutes(r chi.Router, cfg *config.Config, svc customer.CustomerService, underwritingService underwriting.UnderwritingService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, underwritingService, logger)
	loanHandler := handler.NewLoanHandler(underwritingService, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.RegisterCustomer)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Get("/loans", loanHandler.ListCustomerLoans)
		})
	})
}

func setupIngestionRoutes(router *chi.Mux, ingestionJob *batch.IngestionJob, cfg *config.Config, logger *slog.Logger) {
	if ingestionJob == nil {
		logger.Warn("Ingestion job not configured, skipping ingestion routes")
		return
	}
	h := handler.NewIngestionHandler(ingestionJob, logger)

	router.Route("/ingestion", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/run", h.RunIngestion)
	})
}
