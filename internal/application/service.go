package application

import (
	"log/slog"
	"time"

	"github.com/featurelens/usage-analytics/internal/ports"
)

type Config struct {
	TokenTTL             time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
}

type Service struct {
	cfg      Config
	accounts ports.AccountRepository
	events   ports.EventRepository
	lockouts ports.LockoutStore
	hasher   ports.PasswordHasher
	signer   ports.TokenSigner
	nowFn    func() time.Time
}

type Dependencies struct {
	Config   Config
	Accounts ports.AccountRepository
	Events   ports.EventRepository
	Lockouts ports.LockoutStore
	Hasher   ports.PasswordHasher
	Signer   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:      deps.Config,
		accounts: deps.Accounts,
		events:   deps.Events,
		lockouts: deps.Lockouts,
		hasher:   deps.Hasher,
		signer:   deps.Signer,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Used by tests to pin token expiry.
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "usage-analytics",
		"module", "application",
		"layer", "application",
	)
}
