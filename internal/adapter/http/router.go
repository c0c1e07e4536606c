package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietacct/ledgerkit/internal/adapter/http/handler"
	"github.com/vietacct/ledgerkit/internal/adapter/http/middleware"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	VoucherHandler     *handler.VoucherHandler
	PeriodHandler      *handler.PeriodHandler
	ProvisionHandler   *handler.ProvisionHandler
	InventoryHandler   *handler.InventoryHandler
	RevaluationHandler *handler.RevaluationHandler
	ReportHandler      *handler.ReportHandler
	AuditHandler       *handler.AuditHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	LoggingMiddleware  *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Vouchers
		r.Route("/vouchers", func(r chi.Router) {
			r.Post("/", cfg.VoucherHandler.Create)
			r.Get("/", cfg.VoucherHandler.List)
			r.Get("/{id}", cfg.VoucherHandler.Get)
			r.Put("/{id}", cfg.VoucherHandler.Amend)
			r.Post("/{id}/post", cfg.VoucherHandler.Post)
			r.Post("/{id}/sign", cfg.VoucherHandler.Sign)
			r.Get("/{id}/balance", cfg.VoucherHandler.CheckBalance)
		})

		// Fiscal periods
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", cfg.PeriodHandler.List)
			r.Post("/{id}/lock", cfg.PeriodHandler.Lock)
			r.Post("/{id}/unlock", cfg.PeriodHandler.Unlock)
		})

		// Receivable provisioning
		r.Route("/provisions", func(r chi.Router) {
			r.Post("/", cfg.ProvisionHandler.Run)
			r.Get("/", cfg.ProvisionHandler.List)
		})

		// Inventory costing
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/issues", cfg.InventoryHandler.Issue)
			r.Post("/reconciliations", cfg.InventoryHandler.Reconcile)
			r.Post("/cost-preview", cfg.InventoryHandler.PreviewCost)
		})

		// Exchange rates and revaluation
		r.Route("/rates", func(r chi.Router) {
			r.Post("/", cfg.RevaluationHandler.SaveRate)
			r.Get("/latest", cfg.RevaluationHandler.GetLatestRate)
			r.Post("/revalue", cfg.RevaluationHandler.Revalue)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/{periodID}/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/{periodID}/balance-sheet", cfg.ReportHandler.BalanceSheet)
			r.Get("/{periodID}/income-statement", cfg.ReportHandler.IncomeStatement)
		})

		// Audit trail
		r.Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
