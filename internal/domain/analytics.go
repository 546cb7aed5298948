package domain

import (
	"fmt"
	"sort"
	"time"
)

// AgeGroup is the categorical age-bracket constraint accepted by the query
// surface. "All" (or absent) imposes no restriction.
type AgeGroup string

const (
	AgeGroupAll     AgeGroup = "All"
	AgeGroupUnder18 AgeGroup = "<18"
	AgeGroup18To40  AgeGroup = "18-40"
	AgeGroupOver40  AgeGroup = ">40"
)

// ParseAgeGroup maps the wire label to an AgeGroup; empty means All.
func ParseAgeGroup(raw string) (AgeGroup, error) {
	switch AgeGroup(raw) {
	case "", AgeGroupAll:
		return AgeGroupAll, nil
	case AgeGroupUnder18:
		return AgeGroupUnder18, nil
	case AgeGroup18To40:
		return AgeGroup18To40, nil
	case AgeGroupOver40:
		return AgeGroupOver40, nil
	default:
		return "", fmt.Errorf("%w: ageGroup must be one of All, <18, 18-40, >40", ErrInvalidInput)
	}
}

// Bounds returns the inclusive integer age range for the bracket.
// Nil pointers mean no bound on that side.
func (g AgeGroup) Bounds() (min, max *int) {
	switch g {
	case AgeGroupUnder18:
		hi := 17
		return nil, &hi
	case AgeGroup18To40:
		lo, hi := 18, 40
		return &lo, &hi
	case AgeGroupOver40:
		lo := 41
		return &lo, nil
	default:
		return nil, nil
	}
}

// Filter is the combined set of optional constraints applied to a query.
// A zero-value field imposes no restriction.
type Filter struct {
	Start   *time.Time // inclusive, already expanded to 00:00:00.000 UTC
	End     *time.Time // inclusive, already expanded to 23:59:59.999 UTC
	Gender  string     // empty = all
	MinAge  *int       // inclusive
	MaxAge  *int       // inclusive
	Feature string     // empty = all
}

// DayStartUTC returns the inclusive lower bound for a calendar date.
func DayStartUTC(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEndUTC returns the inclusive upper bound for a calendar date,
// 23:59:59.999 with millisecond precision. One millisecond later is the next day.
func DayEndUTC(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// Matches reports whether an account/click pair satisfies the filter.
// The in-memory adapter evaluates this directly; the postgres adapter compiles
// the same predicate into WHERE clauses.
func (f Filter) Matches(account Account, click FeatureClick) bool {
	if f.Gender != "" && account.Gender != f.Gender {
		return false
	}
	if f.MinAge != nil && account.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && account.Age > *f.MaxAge {
		return false
	}
	if f.Start != nil && click.ClickedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && click.ClickedAt.After(*f.End) {
		return false
	}
	if f.Feature != "" && click.FeatureName != f.Feature {
		return false
	}
	return true
}

// ClickFact is the projection of a selected event used by aggregation.
type ClickFact struct {
	FeatureName string
	ClickedAt   time.Time
}

// BarPoint is one feature-total entry of the bar series.
type BarPoint struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

// LinePoint is one per-day entry of the trend series.
type LinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ChartSeries is the derived, request-scoped aggregation result.
// Both slices are always non-nil so empty results encode as JSON arrays.
type ChartSeries struct {
	BarChartData  []BarPoint  `json:"barChartData"`
	LineChartData []LinePoint `json:"lineChartData"`
}

// BuildSeries aggregates selected facts into chart series. The bar series is
// sorted by count descending with feature name ascending as the deterministic
// tie-break. The line series is built only when a single feature is selected,
// grouped by UTC calendar date and sorted ascending.
func BuildSeries(facts []ClickFact, feature string) ChartSeries {
	counts := make(map[string]int, len(facts))
	for _, fact := range facts {
		counts[fact.FeatureName]++
	}

	bar := make([]BarPoint, 0, len(counts))
	for name, count := range counts {
		bar = append(bar, BarPoint{Feature: name, Count: count})
	}
	sort.Slice(bar, func(i, j int) bool {
		if bar[i].Count != bar[j].Count {
			return bar[i].Count > bar[j].Count
		}
		return bar[i].Feature < bar[j].Feature
	})

	line := make([]LinePoint, 0)
	if feature != "" {
		daily := make(map[string]int)
		for _, fact := range facts {
			if fact.FeatureName != feature {
				continue
			}
			daily[fact.ClickedAt.UTC().Format("2006-01-02")]++
		}
		for date, count := range daily {
			line = append(line, LinePoint{Date: date, Count: count})
		}
		sort.Slice(line, func(i, j int) bool { return line[i].Date < line[j].Date })
	}

	return ChartSeries{BarChartData: bar, LineChartData: line}
}
