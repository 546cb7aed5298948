package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/featurelens/usage-analytics/internal/application"
)

type trackResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	FeatureName string    `json:"featureName"`
	Timestamp   time.Time `json:"timestamp"`
}

func (h *Handler) track(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
		return
	}

	var req application.TrackRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "track", err)
		return
	}

	click, err := h.service.Track(r.Context(), claims, req.FeatureName)
	if err != nil {
		writeMappedError(r.Context(), w, "track", err)
		return
	}

	writeJSON(w, http.StatusCreated, trackResponse{
		ID:          click.ClickID,
		UserID:      click.AccountID,
		FeatureName: click.FeatureName,
		Timestamp:   click.ClickedAt,
	})
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	series, err := h.service.Query(r.Context(), application.QueryInput{
		StartDate: strings.TrimSpace(query.Get("startDate")),
		EndDate:   strings.TrimSpace(query.Get("endDate")),
		AgeGroup:  strings.TrimSpace(query.Get("ageGroup")),
		Gender:    strings.TrimSpace(query.Get("gender")),
		Feature:   strings.TrimSpace(query.Get("feature")),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "analytics", err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}
