package httpapi

import (
	"net/http"

	"order-report-services/internal/analytics"
	"order-report-services/internal/config"
	"order-report-services/internal/http/handlers"
	"order-report-services/internal/middleware"
	"order-report-services/internal/queue"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(engine *analytics.Engine, logger *zap.Logger, cfg config.Config, events *queue.Publisher) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Content-Type",
				"X-Requested-With",
				middleware.BranchHeader,
				middleware.RequestIDHeader,
				"X-Correlation-Id",
				"Cache-Control",
			},
			ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
			MaxAge:         300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{Engine: engine, Logger: logger, Config: cfg, Events: events}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/reports", func(r chi.Router) {
		// Reports are recomputed on every request.
		r.Use(setResponseHeader("Cache-Control", "no-store"))
		r.Get("/summary", h.ReportsSummary)
		r.Get("/summary.pdf", h.ReportsSummaryPDF)
		r.Get("/staff", h.ReportsStaff)
		r.Get("/staff.pdf", h.ReportsStaffPDF)
		r.Get("/waiters", h.ReportsStaff)
		r.Get("/products", h.ReportsProducts)
		r.Get("/top-products", h.ReportsTopProducts)
		r.Get("/categories", h.ReportsCategories)
	})

	return r
}

func setResponseHeader(name string, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(name, value)
			next.ServeHTTP(w, r)
		})
	}
}
