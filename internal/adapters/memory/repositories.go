// Package memory provides map-backed implementations of the storage and cache
// ports. They honor the same contracts as the postgres and redis adapters and
// back the unit-test fixtures.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/featurelens/usage-analytics/internal/domain"
	"github.com/featurelens/usage-analytics/internal/ports"
)

type AccountRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]domain.Account
	byUsername map[string]uuid.UUID
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:       map[uuid.UUID]domain.Account{},
		byUsername: map[string]uuid.UUID{},
	}
}

func (r *AccountRepository) Create(_ context.Context, params ports.CreateAccountParams) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[params.Username]; exists {
		return domain.Account{}, domain.ErrConflict
	}
	account := domain.Account{
		AccountID:    uuid.New(),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Age:          params.Age,
		Gender:       params.Gender,
		CreatedAt:    params.RegisteredAt,
	}
	r.byID[account.AccountID] = account
	r.byUsername[account.Username] = account.AccountID
	return account, nil
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *AccountRepository) GetByID(_ context.Context, accountID uuid.UUID) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[accountID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return account, nil
}

type EventRepository struct {
	mu       sync.RWMutex
	accounts *AccountRepository
	log      []domain.FeatureClick
}

func NewEventRepository(accounts *AccountRepository) *EventRepository {
	return &EventRepository{accounts: accounts}
}

func (r *EventRepository) Append(_ context.Context, click domain.FeatureClick) (domain.FeatureClick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	click.ClickID = uuid.New()
	r.log = append(r.log, click)
	return click, nil
}

func (r *EventRepository) Select(ctx context.Context, filter domain.Filter) ([]domain.ClickFact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	facts := make([]domain.ClickFact, 0)
	for _, click := range r.log {
		account, err := r.accounts.GetByID(ctx, click.AccountID)
		if err != nil {
			continue
		}
		if !filter.Matches(account, click) {
			continue
		}
		facts = append(facts, domain.ClickFact{FeatureName: click.FeatureName, ClickedAt: click.ClickedAt})
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].ClickedAt.Before(facts[j].ClickedAt) })
	return facts, nil
}

// Len reports the current size of the event log.
func (r *EventRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.log)
}

type LockoutStore struct {
	mu     sync.Mutex
	states map[string]ports.LockoutState
}

func NewLockoutStore() *LockoutStore {
	return &LockoutStore{states: map[string]ports.LockoutState{}}
}

func (s *LockoutStore) Get(_ context.Context, key string) (ports.LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[key], nil
}

func (s *LockoutStore) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[key]
	state.FailedCount++
	if state.FailedCount >= threshold {
		lockedUntil := now.Add(lockoutWindow)
		state.LockedUntil = &lockedUntil
	}
	s.states[key] = state
	return state, nil
}

func (s *LockoutStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}
