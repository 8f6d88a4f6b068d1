package http

import (
	"net/http"

	"github.com/authplug/broker/internal/application"
	"github.com/authplug/broker/internal/obs"
	"github.com/go-chi/chi/v5"
)

// Handler is the HTTP adapter entrypoint for broker use-cases.
// Keeping only application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers broker HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(obs.HTTPMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Method(http.MethodGet, "/metrics", obs.MetricsHandler())

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", handler.startRegistration)
		r.Post("/register/complete", handler.completeRegistration)
		r.Post("/login", handler.startLogin)
		r.Post("/login/complete", handler.completeLogin)
		r.Post("/exchange", handler.exchange)
		r.Post("/refresh", handler.rotate)
		r.Post("/logout", handler.logout)
		r.Get("/.well-known/jwks.json", handler.jwks)

		r.Post("/tenants/register", handler.startTenantRegistration)
		r.Post("/tenants/register/complete", handler.completeTenantRegistration)
	})

	r.Route("/admin/v1", func(r chi.Router) {
		r.Post("/login", handler.startAdminLogin)
		r.Post("/login/complete", handler.completeAdminLogin)
		r.Post("/logout", handler.adminLogout)

		r.Group(func(r chi.Router) {
			r.Use(handler.adminSessionMiddleware)
			r.Get("/me", handler.adminProfile)
			r.Get("/stats", handler.adminStats)
			r.Get("/members", handler.adminListMembers)
			r.Post("/change-password", handler.adminChangePassword)
			r.Get("/redirect-origins", handler.adminListOrigins)
			r.Post("/redirect-origins", handler.adminAddOrigin)
			r.Delete("/redirect-origins/{origin_id}", handler.adminRemoveOrigin)
		})
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}
