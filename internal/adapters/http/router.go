package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RouterOptions carries the deployment-specific routing knobs.
type RouterOptions struct {
	// AllowedOrigins is the set of browser origins permitted to call the API
	// with credentials. Empty disables the CORS layer (same-origin deployment).
	AllowedOrigins []string
}

// NewRouter registers routes and the middleware stack. Centralizing routes
// here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Post("/register", handler.register)
	r.Post("/login", handler.login)
	r.Post("/logout", handler.logout)

	r.Group(func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Post("/track", handler.track)
		r.Get("/analytics", handler.analytics)
	})

	return r
}
