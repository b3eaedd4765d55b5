package collector

import (
	"context"

	"PortfolioBench/internal/model"
)

// PortfolioFetcher retrieves the brokerage snapshot sequence.
type PortfolioFetcher interface {
	FetchSnapshots(ctx context.Context) ([]model.Snapshot, error)
	Name() string
}

// BenchmarkFetcher retrieves the monthly closes of a comparison ticker,
// either from the provider or from a previously cached response.
type BenchmarkFetcher interface {
	FetchObservations(ctx context.Context, ticker model.Ticker, useCache bool) ([]model.BenchmarkObservation, error)
	Name() string
}
