package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/featurelens/usage-analytics/internal/application"
)

const (
	sessionCookieName = "auth_token"
	profileCookieName = "user_data"
)

// SessionWriter is the token delivery strategy, selected once by deployment
// configuration. Same-origin deployments rely on the HTTP-only Lax cookie
// alone; cross-origin deployments switch to SameSite=None and additionally
// surface the token in the response body, because third-party cookie blocking
// can silently drop cross-site HTTP-only cookies. The client replays the body
// token as an Authorization bearer when that happens. The redundancy is an
// availability measure, not a second security boundary.
type SessionWriter struct {
	crossOrigin bool
	secure      bool
	ttl         time.Duration
}

func NewSessionWriter(crossOrigin, secure bool, ttl time.Duration) *SessionWriter {
	// SameSite=None is only honored on secure cookies.
	if crossOrigin {
		secure = true
	}
	return &SessionWriter{crossOrigin: crossOrigin, secure: secure, ttl: ttl}
}

func (s *SessionWriter) sameSite() http.SameSite {
	if s.crossOrigin {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Issue delivers the session cookie plus the client-readable profile cookie.
// The profile cookie carries display data only and is never accepted back as
// a credential.
func (s *SessionWriter) Issue(w http.ResponseWriter, result application.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
	})

	profile, err := json.Marshal(result.Account)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookieName,
		Value:    url.QueryEscape(string(profile)),
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: false,
		Secure:   s.secure,
		SameSite: s.sameSite(),
	})
}

// Clear expires every delivery channel. Idempotent: clearing absent cookies
// is a no-op for the client.
func (s *SessionWriter) Clear(w http.ResponseWriter) {
	for _, name := range []string{sessionCookieName, profileCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == sessionCookieName,
			Secure:   s.secure,
			SameSite: s.sameSite(),
		})
	}
}

// MirrorsToken reports whether the strategy exposes the token through a
// client-readable channel in addition to the HTTP-only cookie.
func (s *SessionWriter) MirrorsToken() bool {
	return s.crossOrigin
}
