package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/featurelens/usage-analytics/internal/domain"
)

type eventRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func (r *eventRepository) Append(ctx context.Context, click domain.FeatureClick) (domain.FeatureClick, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rec := featureClickModel{
		AccountID:   click.AccountID,
		FeatureName: click.FeatureName,
		ClickedAt:   click.ClickedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.FeatureClick{}, err
	}
	return toDomainClick(rec), nil
}

// Select compiles the filter predicate into WHERE clauses over the event log
// joined to account demographics. Both temporal bounds are inclusive; the end
// bound already carries the 23:59:59.999 expansion.
func (r *eventRepository) Select(ctx context.Context, filter domain.Filter) ([]domain.ClickFact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(ctx).
		Table("feature_clicks").
		Select("feature_clicks.feature_name, feature_clicks.clicked_at").
		Joins("JOIN accounts ON accounts.account_id = feature_clicks.account_id")

	if filter.Gender != "" {
		q = q.Where("accounts.gender = ?", filter.Gender)
	}
	if filter.MinAge != nil {
		q = q.Where("accounts.age >= ?", *filter.MinAge)
	}
	if filter.MaxAge != nil {
		q = q.Where("accounts.age <= ?", *filter.MaxAge)
	}
	if filter.Start != nil {
		q = q.Where("feature_clicks.clicked_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("feature_clicks.clicked_at <= ?", *filter.End)
	}
	if filter.Feature != "" {
		q = q.Where("feature_clicks.feature_name = ?", filter.Feature)
	}

	var rows []struct {
		FeatureName string    `gorm:"column:feature_name"`
		ClickedAt   time.Time `gorm:"column:clicked_at"`
	}
	if err := q.Order("feature_clicks.clicked_at ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	facts := make([]domain.ClickFact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, domain.ClickFact{FeatureName: row.FeatureName, ClickedAt: row.ClickedAt})
	}
	return facts, nil
}
