package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/tallybook/tallybook/internal/accounts"
	"github.com/tallybook/tallybook/internal/budget"
	"github.com/tallybook/tallybook/internal/ledger"
	"github.com/tallybook/tallybook/internal/observability"
	"github.com/tallybook/tallybook/internal/token"
	"github.com/tallybook/tallybook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AccountsHandler *accounts.Handler
	LedgerHandler   *ledger.Handler
	BudgetHandler   *budget.Handler
	TokenMiddleware *token.Middleware
	JobsHandler     *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with tallybook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.JobsHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			params.JobsHandler.MountRoutes(r)
		})
	}

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints are unauthenticated and rate limited per client IP.
		r.Group(func(r chi.Router) {
			if params.Config != nil && params.Config.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(params.Config.AuthRateLimit, params.Config.AuthRateLimitWindow))
			}
			params.AccountsHandler.MountRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(params.TokenMiddleware.RequireAccount)
			params.LedgerHandler.MountRoutes(r)
			params.BudgetHandler.MountRoutes(r)
		})
	})

	return r
}
