package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/featurelens/usage-analytics/internal/ports"
)

type Repositories struct {
	Accounts ports.AccountRepository
	Events   ports.EventRepository
}

// NewRepositories wires the GORM-backed stores. Every repository call runs
// under queryTimeout so a stalled storage layer fails the request instead of
// hanging it.
func NewRepositories(db *gorm.DB, queryTimeout time.Duration) Repositories {
	return Repositories{
		Accounts: &accountRepository{db: db, timeout: queryTimeout},
		Events:   &eventRepository{db: db, timeout: queryTimeout},
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
