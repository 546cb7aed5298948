package application

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PublicAccount is the client-visible projection of an account.
// It never carries the password hash.
type PublicAccount struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Age      int       `json:"age"`
	Gender   string    `json:"gender"`
}

// AuthResult is the outcome of a successful register or login. The transport
// layer decides how the token is delivered (cookie, body, or both).
type AuthResult struct {
	Account   PublicAccount
	Token     string
	ExpiresAt time.Time
}

type TrackRequest struct {
	FeatureName string `json:"feature_name"`
}

// QueryInput carries the raw, optional filter parameters from the query
// surface. Empty strings and "All" impose no restriction.
type QueryInput struct {
	StartDate string
	EndDate   string
	AgeGroup  string
	Gender    string
	Feature   string
}
