package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/featurelens/usage-analytics/internal/domain"
)

func toDomainAccount(row accountModel) domain.Account {
	return domain.Account{
		AccountID:    row.AccountID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Age:          row.Age,
		Gender:       row.Gender,
		CreatedAt:    row.CreatedAt,
	}
}

func toDomainClick(row featureClickModel) domain.FeatureClick {
	return domain.FeatureClick{
		ClickID:     row.ClickID,
		AccountID:   row.AccountID,
		FeatureName: row.FeatureName,
		ClickedAt:   row.ClickedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
