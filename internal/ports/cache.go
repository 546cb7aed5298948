package ports

import (
	"context"
	"time"
)

// LockoutState tracks failed-login pressure for one username.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore persists brute-force counters. Entries expire on their own;
// a successful login clears the key early.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}
