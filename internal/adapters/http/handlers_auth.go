package http

import (
	"net/http"

	"github.com/featurelens/usage-analytics/internal/application"
)

type authResponse struct {
	User  application.PublicAccount `json:"user"`
	Token string                    `json:"token,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}

	h.writeSession(w, res, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	h.writeSession(w, res, http.StatusOK)
}

// logout clears every session delivery channel. No authentication required:
// clearing an absent session is still a successful logout.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) writeSession(w http.ResponseWriter, res application.AuthResult, statusCode int) {
	h.sessions.Issue(w, res)
	body := authResponse{User: res.Account}
	if h.sessions.MirrorsToken() {
		body.Token = res.Token
	}
	writeJSON(w, statusCode, body)
}
