package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/featurelens/usage-analytics/internal/domain"
)

// CreateAccountParams carries the validated registration state into the store.
// The hash arrives pre-computed so the repository never sees a plaintext password.
type CreateAccountParams struct {
	Username     string
	PasswordHash string
	Age          int
	Gender       string
	RegisteredAt time.Time
}

type AccountRepository interface {
	// Create persists a new account; returns domain.ErrConflict when the
	// username is already taken.
	Create(ctx context.Context, params CreateAccountParams) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error)
}

type EventRepository interface {
	// Append inserts one feature-click fact. Duplicate submissions produce
	// duplicate rows; the log is append-only.
	Append(ctx context.Context, click domain.FeatureClick) (domain.FeatureClick, error)
	// Select scans the event log joined against account demographics and
	// returns the facts satisfying the filter, ordered by click time ascending.
	Select(ctx context.Context, filter domain.Filter) ([]domain.ClickFact, error)
}
