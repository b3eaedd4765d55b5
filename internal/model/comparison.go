package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlignedSeries is the output of the alignment engine.
//
// Labels and PortfolioPct are always the same length. BenchmarkPct follows
// the benchmark's own monthly axis (BenchmarkLabels) starting at StartMonth
// and is not resampled, so its length may differ from Labels.
type AlignedSeries struct {
	StartMonth      Month
	Labels          []string
	Points          []PortfolioPoint
	PortfolioPct    []decimal.Decimal
	BenchmarkLabels []string
	BenchmarkPct    []decimal.Decimal
}

// LengthsMatch reports whether both lines share one axis position for position.
func (s *AlignedSeries) LengthsMatch() bool {
	return len(s.BenchmarkPct) == len(s.PortfolioPct)
}

// Comparison is one completed run of the pipeline.
type Comparison struct {
	Ticker      Ticker
	Series      *AlignedSeries
	GeneratedAt time.Time
}
