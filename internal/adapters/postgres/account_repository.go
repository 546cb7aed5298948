package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/featurelens/usage-analytics/internal/domain"
	"github.com/featurelens/usage-analytics/internal/ports"
)

type accountRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func (r *accountRepository) Create(ctx context.Context, params ports.CreateAccountParams) (domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rec := accountModel{
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Age:          params.Age,
		Gender:       params.Gender,
		CreatedAt:    params.RegisteredAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrConflict
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rec accountModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rec accountModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}
