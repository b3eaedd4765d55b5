package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/cache"
	"PortfolioBench/internal/logging"
	"PortfolioBench/internal/model"
)

const (
	// DefaultYahooURL is the public chart API host.
	DefaultYahooURL = "https://query2.finance.yahoo.com"

	chartInterval = "1mo"
	chartRange    = "10y"
)

// YahooFetcher implements BenchmarkFetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Cache     cache.Store
	CacheFile string                     // entry loaded when the cache is used
	SymbolMap map[model.Benchmark]string // maps named benchmarks to Yahoo tickers
	// Location buckets timestamps into months. It defaults to time.Local, so
	// month labels depend on the zone the process runs in.
	Location *time.Location
	Log      *zap.SugaredLogger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration, store cache.Store, cacheFile string, log *zap.SugaredLogger) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	if store == nil {
		store = cache.NewNoopStore()
	}
	return &YahooFetcher{
		BaseURL:   baseURL,
		Client:    NewHTTPClient(proxyURL, timeout),
		Cache:     store,
		CacheFile: cacheFile,
		SymbolMap: map[model.Benchmark]string{
			model.BenchmarkSP500:     "^GSPC",
			model.BenchmarkVWRL:      "VWRL.L",
			model.BenchmarkNasdaq100: "CNX1.L",
		},
		Log: logging.OrNop(log),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// Symbol returns the Yahoo ticker for t.
func (f *YahooFetcher) Symbol(t model.Ticker) string {
	if mapped, ok := f.SymbolMap[t.Benchmark]; ok {
		return mapped
	}
	return t.Symbol
}

// CacheName is the cache entry written for t on refresh.
func (f *YahooFetcher) CacheName(t model.Ticker) string {
	return f.Symbol(t) + ".json"
}

func (f *YahooFetcher) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return time.Local
}

// FetchObservations returns the monthly adjusted closes for ticker. Without
// cache it downloads the chart and stores the raw body; with cache it parses
// the configured cache entry. An entry the provider flagged as an invalid
// ticker is removed before the error is returned.
func (f *YahooFetcher) FetchObservations(ctx context.Context, ticker model.Ticker, useCache bool) ([]model.BenchmarkObservation, error) {
	if ticker.Mode() == model.ModePPL {
		return nil, errors.Wrap(apperr.ErrConfig, "ppl comparison has no benchmark series")
	}
	symbol := f.Symbol(ticker)
	if symbol == "" {
		return nil, errors.Wrap(apperr.ErrConfig, "benchmark ticker is empty")
	}

	var (
		raw  []byte
		name string
		err  error
	)
	if useCache {
		if f.CacheFile == "" {
			return nil, errors.Wrap(apperr.ErrConfig, "the external data file is not set")
		}
		name = f.CacheFile
		if raw, err = f.Cache.Load(name); err != nil {
			return nil, err
		}
		f.Log.Infow("benchmark loaded from cache", zap.String("ticker", symbol), zap.String("entry", name))
	} else {
		if raw, err = f.FetchRaw(ctx, symbol); err != nil {
			return nil, err
		}
		name = f.CacheName(ticker)
		if err := f.Cache.Save(name, raw); err != nil {
			return nil, err
		}
	}

	obs, err := ParseChart(raw, symbol, f.location())
	if err != nil {
		var invalid *apperr.InvalidTickerError
		if errors.As(err, &invalid) {
			if rmErr := f.Cache.Remove(name); rmErr != nil {
				f.Log.Warnw("remove invalid cache entry", zap.String("entry", name), zap.Error(rmErr))
			}
		}
		return nil, err
	}
	f.Log.Infof("benchmark %s: %d monthly observations", symbol, len(obs))
	return obs, nil
}

// FetchRaw downloads the ten-year monthly chart of symbol verbatim.
func (f *YahooFetcher) FetchRaw(ctx context.Context, symbol string) ([]byte, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), chartInterval, chartRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	return readBody(f.Name(), resp)
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart *struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				AdjClose []struct {
					AdjClose []decimal.NullDecimal `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ParseChart extracts one observation per timestamp, bucketing timestamps
// into months in loc. Null closes (the provider emits them for months with
// no trading data) are skipped together with their timestamp. A trailing live
// bar in the same month as the previous bar replaces it.
func ParseChart(raw []byte, symbol string, loc *time.Location) ([]model.BenchmarkObservation, error) {
	var chart yahooChart
	if err := json.Unmarshal(raw, &chart); err != nil {
		return nil, errors.Wrapf(apperr.ErrMalformedData, "yahoo decode: %v", err)
	}
	if chart.Chart == nil {
		return nil, errors.Wrap(apperr.ErrMalformedData, "yahoo: response has no chart field")
	}
	if chart.Chart.Error != nil {
		return nil, &apperr.InvalidTickerError{Ticker: symbol, Description: chart.Chart.Error.Description}
	}
	if len(chart.Chart.Result) == 0 {
		return nil, errors.Wrap(apperr.ErrMalformedData, "yahoo: chart has no result")
	}

	result := chart.Chart.Result[0]
	if result.Timestamp == nil || len(result.Indicators.AdjClose) == 0 || result.Indicators.AdjClose[0].AdjClose == nil {
		return nil, errors.Wrap(apperr.ErrMalformedData, "failed to extract timestamps and adjusted closes")
	}
	closes := result.Indicators.AdjClose[0].AdjClose
	if len(closes) != len(result.Timestamp) {
		return nil, errors.Wrapf(apperr.ErrMalformedData, "yahoo: %d timestamps but %d adjusted closes", len(result.Timestamp), len(closes))
	}
	if loc == nil {
		loc = time.Local
	}

	obs := make([]model.BenchmarkObservation, 0, len(closes))
	for i, ts := range result.Timestamp {
		if !closes[i].Valid {
			continue
		}
		obs = append(obs, model.BenchmarkObservation{
			Month:      model.MonthOf(time.Unix(ts, 0).In(loc)),
			ClosePrice: closes[i].Decimal,
		})
	}
	// During an open month the provider appends a live bar after the bar
	// that starts that month; keep only the later close.
	if n := len(obs); n >= 2 && obs[n-1].Month == obs[n-2].Month {
		obs[n-2] = obs[n-1]
		obs = obs[:n-1]
	}
	return obs, nil
}
