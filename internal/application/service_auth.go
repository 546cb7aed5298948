package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/featurelens/usage-analytics/internal/domain"
	"github.com/featurelens/usage-analytics/internal/ports"
)

// Register creates an account and issues its first session in one call, so a
// fresh registration never needs a follow-up login round trip.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	username := strings.TrimSpace(req.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return AuthResult{}, err
	}
	if err := domain.ValidatePasswordPresent(req.Password); err != nil {
		return AuthResult{}, err
	}
	if err := domain.ValidateAge(req.Age); err != nil {
		return AuthResult{}, err
	}
	if err := domain.ValidateGender(req.Gender); err != nil {
		return AuthResult{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, ports.CreateAccountParams{
		Username:     username,
		PasswordHash: passwordHash,
		Age:          req.Age,
		Gender:       req.Gender,
		RegisteredAt: s.nowFn(),
	})
	if err != nil {
		return AuthResult{}, err
	}

	appLogger().InfoContext(ctx, "account registered",
		"operation", "register",
		"outcome", "success",
		"account_id", account.AccountID,
	)
	return s.issueSession(account)
}

// Login verifies credentials under the lockout gate. Unknown username and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	username := strings.TrimSpace(req.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return AuthResult{}, err
	}
	if err := domain.ValidatePasswordPresent(req.Password); err != nil {
		return AuthResult{}, err
	}

	lockKey := "login:" + username
	if s.lockouts != nil {
		state, err := s.lockouts.Get(ctx, lockKey)
		if err == nil && state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
			appLogger().WarnContext(ctx, "account lockout active",
				"operation", "login",
				"outcome", "blocked",
				"locked_until", state.LockedUntil,
			)
			return AuthResult{}, domain.ErrAccountLocked
		}
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		s.recordFailure(ctx, lockKey)
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		s.recordFailure(ctx, lockKey)
		return AuthResult{}, domain.ErrInvalidCredentials
	}

	if s.lockouts != nil {
		if err := s.lockouts.Clear(ctx, lockKey); err != nil {
			appLogger().WarnContext(ctx, "failed to clear lockout state",
				"operation", "login",
				"outcome", "warning",
				"error", err.Error(),
			)
		}
	}

	appLogger().InfoContext(ctx, "login succeeded",
		"operation", "login",
		"outcome", "success",
		"account_id", account.AccountID,
	)
	return s.issueSession(account)
}

// ValidateToken checks signature and expiry of a raw session token and
// returns the identity it binds. Expiry is re-checked against the service
// clock so the 24-hour window holds exactly at the boundary.
func (s *Service) ValidateToken(ctx context.Context, raw string) (ports.SessionClaims, error) {
	claims, err := s.signer.ParseAndValidate(raw)
	if err != nil {
		return ports.SessionClaims{}, fmt.Errorf("%w: invalid or expired session token", domain.ErrUnauthenticated)
	}
	if !claims.ExpiresAt.After(s.nowFn()) {
		return ports.SessionClaims{}, fmt.Errorf("%w: invalid or expired session token", domain.ErrUnauthenticated)
	}
	return claims, nil
}

func (s *Service) issueSession(account domain.Account) (AuthResult, error) {
	now := s.nowFn()
	expiresAt := now.Add(s.cfg.TokenTTL)
	token, err := s.signer.Sign(ports.SessionClaims{
		AccountID: account.AccountID,
		Username:  account.Username,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign session token: %w", err)
	}

	return AuthResult{
		Account: PublicAccount{
			ID:       account.AccountID,
			Username: account.Username,
			Age:      account.Age,
			Gender:   account.Gender,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, lockKey string) {
	if s.lockouts == nil {
		return
	}
	if _, err := s.lockouts.RecordFailure(ctx, lockKey, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration); err != nil {
		appLogger().ErrorContext(ctx, "failed to update lockout state",
			"operation", "login",
			"outcome", "failure",
			"error", err.Error(),
		)
	}
}
