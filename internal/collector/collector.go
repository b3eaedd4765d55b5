package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"PortfolioBench/internal/alignment"
	"PortfolioBench/internal/logging"
	"PortfolioBench/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Snapshots    []model.Snapshot
	Observations []model.BenchmarkObservation
	Err          error

	BenchmarkCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSnapshots(_ context.Context) ([]model.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshots, nil
}

func (m *MockFetcher) FetchObservations(_ context.Context, _ model.Ticker, _ bool) ([]model.BenchmarkObservation, error) {
	m.BenchmarkCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Observations, nil
}

// GenerateMockSeries builds count monthly snapshots starting at start and a
// benchmark covering the same months, both drifting upwards.
func GenerateMockSeries(start time.Time, count int) ([]model.Snapshot, []model.BenchmarkObservation) {
	snaps := make([]model.Snapshot, count)
	obs := make([]model.BenchmarkObservation, count)
	for i := 0; i < count; i++ {
		t := time.Date(start.Year(), start.Month()+time.Month(i), 15, 0, 0, 0, 0, time.UTC)
		investment := decimal.NewFromInt(int64(1000 * (i + 1)))
		snaps[i] = model.Snapshot{
			Time:          t.Format(alignment.SnapshotTimeLayout),
			Investment:    investment,
			ProfitAndLoss: investment.Mul(decimal.NewFromFloat(0.01 * float64(i))),
		}
		obs[i] = model.BenchmarkObservation{
			Month:      model.MonthOf(t),
			ClosePrice: decimal.NewFromInt(int64(100 + 2*i)),
		}
	}
	return snaps, obs
}

// Collector runs both sources and aligns their series.
type Collector struct {
	Portfolio PortfolioFetcher
	Benchmark BenchmarkFetcher
	Ticker    model.Ticker
	UseCache  bool
	// Start, when set, replaces the portfolio's first month as the
	// benchmark baseline.
	Start model.Month
	Log   *zap.SugaredLogger
}

// NewCollector creates a new Collector.
func NewCollector(portfolio PortfolioFetcher, benchmark BenchmarkFetcher, ticker model.Ticker, useCache bool, log *zap.SugaredLogger) *Collector {
	return &Collector{
		Portfolio: portfolio,
		Benchmark: benchmark,
		Ticker:    ticker,
		UseCache:  useCache,
		Log:       logging.OrNop(log),
	}
}

// Collect fetches the portfolio and, unless comparing against the portfolio's
// own profit and loss, the benchmark, then aligns them.
func (c *Collector) Collect(ctx context.Context) (*model.Comparison, error) {
	snaps, err := c.Portfolio.FetchSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch portfolio snapshots: %w", err)
	}

	var series *model.AlignedSeries
	if c.Ticker.Mode() == model.ModePPL {
		series, err = alignment.AlignPortfolio(snaps)
		if err != nil {
			return nil, fmt.Errorf("normalize portfolio: %w", err)
		}
	} else {
		obs, err := c.Benchmark.FetchObservations(ctx, c.Ticker, c.UseCache)
		if err != nil {
			return nil, fmt.Errorf("fetch benchmark %s: %w", c.Ticker, err)
		}
		var opts []alignment.Option
		if !c.Start.IsZero() {
			opts = append(opts, alignment.WithStartMonth(c.Start))
		}
		series, err = alignment.Align(snaps, obs, opts...)
		if err != nil {
			return nil, fmt.Errorf("align with %s: %w", c.Ticker, err)
		}
		if !series.LengthsMatch() {
			c.Log.Warnf("portfolio has %d points but benchmark has %d from %s; lines are plotted by position",
				len(series.PortfolioPct), len(series.BenchmarkPct), series.StartMonth)
		}
	}

	c.Log.Infow("comparison ready",
		zap.String("ticker", c.Ticker.String()),
		zap.String("start", series.StartMonth.String()),
		zap.Int("points", len(series.Labels)),
	)
	return &model.Comparison{
		Ticker:      c.Ticker,
		Series:      series,
		GeneratedAt: time.Now(),
	}, nil
}
