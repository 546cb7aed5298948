package http

import (
	"net/http"

	"github.com/featurelens/usage-analytics/internal/application"
)

// Handler is the HTTP adapter entrypoint for the service's use-cases.
// Keeping only application dependencies here preserves clean adapter boundaries.
type Handler struct {
	service  *application.Service
	sessions *SessionWriter
}

func NewHandler(service *application.Service, sessions *SessionWriter) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// authMiddleware recovers the session token in fixed priority order: the
// HTTP-only session cookie first, the Authorization bearer header second.
// The client-readable profile cookie is never consulted.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else if bearer, err := bearerTokenFromHeader(r.Header.Get("Authorization")); err == nil {
			token = bearer
		}
		if token == "" {
			logHTTPOperationError(r.Context(), "resolve_session", http.StatusUnauthorized, "UNAUTHORIZED", "missing session token", nil)
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
			return
		}

		claims, err := h.service.ValidateToken(r.Context(), token)
		if err != nil {
			status, code, msg := mapDomainError(err)
			logHTTPOperationError(r.Context(), "resolve_session", status, code, msg, err)
			writeError(w, status, code, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
	})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
