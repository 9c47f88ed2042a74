// Package queries builds the grouped aggregate queries used to derive
// climate design values from the observation store: annual rainfall and
// precipitation, monthly temperature percentiles, heating degree-days,
// and the per-station annual-maximum rainfall rates consumed by the
// Gumbel estimator. Every query carries a completeness column, the
// fraction of theoretically possible observations actually present, so
// downstream consumers can reject untrustworthy station records.
package queries

import (
	"errors"
	"fmt"
	"time"
)

// unitScale converts archived datum values, stored in tenths of the
// physical unit, to mm and degrees Celsius.
const unitScale = 0.1

var (
	// ErrInvalidWindow indicates a degenerate analysis window.
	ErrInvalidWindow = errors.New("invalid analysis window")

	// ErrInvalidMonth indicates a month outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidPercentile indicates a percentile outside (0, 1).
	ErrInvalidPercentile = errors.New("invalid percentile")
)

// Builder constructs observation-store queries over a fixed analysis
// window. The window's theoretical observation counts (days, hours,
// days-in-month across the year range) are precomputed once and reused
// in the completeness expressions.
type Builder struct {
	start time.Time
	end   time.Time
	month time.Month
	codes VariableCodes

	totalDays   float64
	yearSpan    float64
	daysInMonth float64
	totalHours  float64
}

// NewBuilder creates a Builder for the analysis window [start, end) and
// the month used by the monthly percentile queries. The window must span
// at least one year boundary so that per-year denominators are nonzero.
func NewBuilder(start, end time.Time, month time.Month, codes VariableCodes) (*Builder, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidWindow, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if end.Year() <= start.Year() {
		return nil, fmt.Errorf("%w: window must span at least one year boundary", ErrInvalidWindow)
	}
	if err := validMonth(month); err != nil {
		return nil, err
	}

	b := &Builder{
		start:     start,
		end:       end,
		month:     month,
		codes:     codes,
		totalDays: end.Sub(start).Hours() / 24,
		yearSpan:  float64(end.Year() - start.Year()),
	}
	b.daysInMonth = daysInMonthRange(start.Year(), end.Year(), month)
	b.totalHours = b.daysInMonth * 24

	return b, nil
}

func validMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	return nil
}

// daysInMonthRange sums the length of the given month over the years
// [startYear, endYear).
func daysInMonthRange(startYear, endYear int, month time.Month) float64 {
	days := 0
	for year := startYear; year < endYear; year++ {
		// Day 0 of the following month is the last day of this one.
		days += time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	return float64(days)
}

// Completeness expressions. The count is cast to float so the division
// is not truncated by Postgres integer arithmetic.

func (b *Builder) dailyCompleteness() string {
	return fmt.Sprintf("count(obs_raw.datum)::float / %v AS completeness", b.totalDays)
}

func (b *Builder) monthDaysCompleteness() string {
	return fmt.Sprintf("count(obs_raw.datum)::float / %v AS completeness", b.daysInMonth)
}

func (b *Builder) hourlyCompleteness() string {
	return fmt.Sprintf("count(obs_raw.datum)::float / %v", b.totalHours)
}

// annualCompleteness is the per-year form used by the annual-maximum
// queries; perDay is the number of theoretical observations per day
// (1 for daily records, 96 for quarter-hour records).
func (b *Builder) annualCompleteness(perDay float64) string {
	return fmt.Sprintf("count(obs_raw.datum)::float / %v AS completeness", b.totalDays/b.yearSpan*perDay)
}
