package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/featurelens/usage-analytics/internal/domain"
	"github.com/featurelens/usage-analytics/internal/ports"
)

// Track appends one feature-click fact for the authenticated account.
// Idempotency is deliberately absent: each UI interaction is one fact.
func (s *Service) Track(ctx context.Context, claims ports.SessionClaims, featureName string) (domain.FeatureClick, error) {
	if claims.AccountID == uuid.Nil {
		return domain.FeatureClick{}, domain.ErrUnauthenticated
	}
	if err := domain.ValidateFeatureName(featureName); err != nil {
		return domain.FeatureClick{}, err
	}

	click, err := s.events.Append(ctx, domain.FeatureClick{
		AccountID:   claims.AccountID,
		FeatureName: featureName,
		ClickedAt:   s.nowFn(),
	})
	if err != nil {
		return domain.FeatureClick{}, err
	}

	appLogger().InfoContext(ctx, "feature click recorded",
		"operation", "track",
		"outcome", "success",
		"feature_name", click.FeatureName,
	)
	return click, nil
}

// Query resolves the filter predicate, scans the event log, and derives both
// chart series. An empty selection is a well-formed empty result, not an error.
func (s *Service) Query(ctx context.Context, input QueryInput) (domain.ChartSeries, error) {
	filter, err := resolveFilter(input)
	if err != nil {
		return domain.ChartSeries{}, err
	}

	facts, err := s.events.Select(ctx, filter)
	if err != nil {
		return domain.ChartSeries{}, fmt.Errorf("select events: %w", err)
	}

	return domain.BuildSeries(facts, filter.Feature), nil
}

// resolveFilter turns raw query parameters into the typed predicate. Absent
// fields and "All" are the identity element: no restriction.
func resolveFilter(input QueryInput) (domain.Filter, error) {
	var filter domain.Filter

	if input.StartDate != "" {
		day, err := time.ParseInLocation("2006-01-02", input.StartDate, time.UTC)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("%w: startDate must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		start := domain.DayStartUTC(day)
		filter.Start = &start
	}
	if input.EndDate != "" {
		day, err := time.ParseInLocation("2006-01-02", input.EndDate, time.UTC)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("%w: endDate must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end := domain.DayEndUTC(day)
		filter.End = &end
	}

	group, err := domain.ParseAgeGroup(input.AgeGroup)
	if err != nil {
		return domain.Filter{}, err
	}
	filter.MinAge, filter.MaxAge = group.Bounds()

	if input.Gender != "" && input.Gender != "All" {
		if err := domain.ValidateGender(input.Gender); err != nil {
			return domain.Filter{}, err
		}
		filter.Gender = input.Gender
	}

	if input.Feature != "" && input.Feature != "All" {
		filter.Feature = input.Feature
	}

	return filter, nil
}
