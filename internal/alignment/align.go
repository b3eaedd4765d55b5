// Package alignment joins the brokerage and benchmark series onto one
// monthly axis and converts both into percentage changes.
//
// Everything here is pure: inputs are never modified and identical inputs
// always produce identical output.
package alignment

import (
	"github.com/shopspring/decimal"

	"PortfolioBench/internal/model"
)

type options struct {
	start *model.Month
}

// Option customizes Align.
type Option func(*options)

// WithStartMonth truncates the benchmark at m instead of the first portfolio month.
func WithStartMonth(m model.Month) Option {
	return func(o *options) { o.start = &m }
}

// AlignPortfolio normalizes the portfolio alone. It backs the P&L comparison
// mode, where no benchmark is fetched.
func AlignPortfolio(snapshots []model.Snapshot) (*model.AlignedSeries, error) {
	labels, points, start, err := NormalizePortfolio(snapshots)
	if err != nil {
		return nil, err
	}
	pct := make([]decimal.Decimal, len(points))
	for i, p := range points {
		pct[i] = p.Percentage
	}
	return &model.AlignedSeries{
		StartMonth:   start,
		Labels:       labels,
		Points:       points,
		PortfolioPct: pct,
	}, nil
}

// Align normalizes the portfolio, truncates the benchmark at the portfolio's
// first month and converts the benchmark closes into percentage changes.
//
// The benchmark line is not resampled onto the portfolio labels: the
// brokerage series ends with a possibly mid-month "current" point while the
// benchmark is strictly monthly, so the two lengths can differ.
func Align(snapshots []model.Snapshot, obs []model.BenchmarkObservation, opts ...Option) (*model.AlignedSeries, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	series, err := AlignPortfolio(snapshots)
	if err != nil {
		return nil, err
	}
	if o.start != nil {
		series.StartMonth = *o.start
	}

	retained, err := Truncate(obs, series.StartMonth)
	if err != nil {
		return nil, err
	}
	pct, err := PercentChange(retained)
	if err != nil {
		return nil, err
	}

	series.BenchmarkPct = pct
	series.BenchmarkLabels = make([]string, len(retained))
	for i, r := range retained {
		series.BenchmarkLabels[i] = r.Month.String()
	}
	return series, nil
}
