package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/auth"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/companies"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/guides"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/operators"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/products"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/stores"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/tours"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/notifications"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/observability"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/reconciliation"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/sales"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics

	AuthHandler           *auth.Handler
	UsersHandler          UsersMounter
	CompaniesHandler      *companies.Handler
	StoresHandler         *stores.Handler
	ProductsHandler       *products.Handler
	OperatorsHandler      *operators.Handler
	GuidesHandler         *guides.Handler
	ToursHandler          *tours.Handler
	SalesHandler          *sales.Handler
	ReconciliationHandler *reconciliation.Handler
	NotificationsHandler  *notifications.Handler
	SystemLogHandler      *systemlog.Handler
	JobsHandler           *jobs.Handler
}

// UsersMounter decouples the router from the users handler so tests can
// stub it.
type UsersMounter interface {
	MountRoutes(r chi.Router)
}

// NewRouter builds the chi router with the full middleware stack and every
// module mounted under its role guard.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	adminOnly := params.RBACMiddleware.RequireRole(rbac.RoleAdmin)
	backOffice := params.RBACMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleStandard)
	anyUser := params.RBACMiddleware.RequireAuthenticated()

	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(adminOnly)
			params.UsersHandler.MountRoutes(r)
		})
	}

	r.Route("/masterdata", func(r chi.Router) {
		r.Use(backOffice)
		r.Route("/companies", params.CompaniesHandler.MountRoutes)
		r.Route("/stores", params.StoresHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/operators", params.OperatorsHandler.MountRoutes)
		r.Route("/guides", params.GuidesHandler.MountRoutes)
		r.Route("/tours", params.ToursHandler.MountRoutes)
	})

	// Sales admit guides too; the service scopes guide actors to their own
	// sales and items.
	r.Route("/sales", func(r chi.Router) {
		r.Use(anyUser)
		params.SalesHandler.MountRoutes(r)
	})

	r.Route("/reconciliation", func(r chi.Router) {
		r.Use(backOffice)
		params.ReconciliationHandler.MountRoutes(r)
	})

	if params.NotificationsHandler != nil {
		r.Route("/notifications", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(anyUser)
				params.NotificationsHandler.MountRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				params.NotificationsHandler.MountAdminRoutes(r)
			})
		})
	}

	if params.SystemLogHandler != nil {
		r.Route("/system-logs", func(r chi.Router) {
			r.Use(adminOnly)
			params.SystemLogHandler.MountRoutes(r)
		})
	}

	if params.JobsHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(adminOnly)
			params.JobsHandler.MountRoutes(r)
		})
	}

	return r
}
