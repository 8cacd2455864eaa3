// Package http wires the chi router: the public login surface, the
// role-guarded admin surfaces, and the operational endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkwell/internal/audit"
	contenthandler "inkwell/internal/content/handler"
	identityhandler "inkwell/internal/identity/handler"
	"inkwell/internal/identity/models"
	"inkwell/internal/platform/middleware"
	"inkwell/pkg/requesttime"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Identity  *identityhandler.Handler
	Content   *contenthandler.Handler
	Audit     *audit.Handler
	Sessions  middleware.SessionValidator
	Logger    *slog.Logger
	Metrics   http.Handler // promhttp handler; nil disables /metrics
	RequestTO time.Duration
}

// NewRouter assembles the full route tree.
//
// Access tiers:
//   - public: /healthz, /metrics, /auth/login
//   - any authenticated role: content reads
//   - ADMIN or EDITOR: content mutations
//   - ADMIN only: user management, settings writes, audit trail
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(deps.Logger))
	if deps.RequestTO > 0 {
		r.Use(middleware.Timeout(deps.RequestTO))
	}
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Mount("/auth", deps.Identity.AuthRoutes())

	anyRole := []models.Role{models.RoleAdmin, models.RoleEditor, models.RoleViewer}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Sessions, deps.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(deps.Logger, anyRole...))
			r.Mount("/content", deps.Content.ReadRoutes())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(deps.Logger, models.RoleAdmin, models.RoleEditor))
			r.Mount("/content/manage", deps.Content.WriteRoutes())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(deps.Logger, models.RoleAdmin))
			r.Mount("/users", deps.Identity.UserRoutes())
			r.Mount("/settings", deps.Content.SettingsWriteRoutes())
			r.Mount("/audit", deps.Audit.Routes())
		})
	})

	return r
}

// NewMetricsHandler exposes the Prometheus registry default handler.
func NewMetricsHandler() http.Handler {
	return promhttp.Handler()
}
