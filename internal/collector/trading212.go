package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/logging"
	"PortfolioBench/internal/model"
	"PortfolioBench/internal/session"
)

// DefaultTrading212URL is the live brokerage API host.
const DefaultTrading212URL = "https://live.services.trading212.com"

var periodParams = map[model.Period]string{
	model.PeriodAll:     "ALL",
	model.PeriodLastDay: "LAST_DAY",
}

// Trading212Fetcher reads portfolio snapshots from the brokerage's private
// REST API using the cookies of a logged-in browser session.
type Trading212Fetcher struct {
	BaseURL     string
	Credentials *session.Credentials
	Client      *http.Client
	Log         *zap.SugaredLogger
}

// NewTrading212Fetcher creates a fetcher with optional proxy support.
func NewTrading212Fetcher(baseURL string, creds *session.Credentials, proxyURL string, timeout time.Duration, log *zap.SugaredLogger) *Trading212Fetcher {
	if baseURL == "" {
		baseURL = DefaultTrading212URL
	}
	return &Trading212Fetcher{
		BaseURL:     baseURL,
		Credentials: creds,
		Client:      NewHTTPClient(proxyURL, timeout),
		Log:         logging.OrNop(log),
	}
}

func (f *Trading212Fetcher) Name() string { return "trading212" }

// FetchPeriod returns the snapshots of one window.
func (f *Trading212Fetcher) FetchPeriod(ctx context.Context, p model.Period) ([]model.Snapshot, error) {
	param, ok := periodParams[p]
	if !ok {
		return nil, errors.Wrapf(apperr.ErrConfig, "unknown period %d", p)
	}
	endpoint := fmt.Sprintf("%s/rest/v2/portfolio?period=%s", f.BaseURL, url.QueryEscape(param))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if f.Credentials != nil {
		f.Credentials.Apply(req)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trading212 fetch %s: %w", param, err)
	}
	defer resp.Body.Close()

	body, err := readBody(f.Name(), resp)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Snapshots *[]model.Snapshot `json:"snapshots"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(apperr.ErrMalformedData, "trading212 decode %s: %v", param, err)
	}
	if payload.Snapshots == nil {
		return nil, errors.Wrapf(apperr.ErrMalformedData, "trading212 %s response has no snapshots field", param)
	}
	f.Log.Debugw("portfolio window fetched", zap.String("period", param), zap.Int("snapshots", len(*payload.Snapshots)))
	return *payload.Snapshots, nil
}

// FetchSnapshots issues the full-history and latest-day requests concurrently
// and joins them with JoinSnapshots.
func (f *Trading212Fetcher) FetchSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	var historical, latest []model.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		historical, err = f.FetchPeriod(gctx, model.PeriodAll)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = f.FetchPeriod(gctx, model.PeriodLastDay)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	joined, err := JoinSnapshots(historical, latest)
	if err != nil {
		return nil, err
	}
	f.Log.Infof("fetched %d historical snapshots, %d total", len(historical), len(joined))
	return joined, nil
}

// JoinSnapshots appends the final latest-day snapshot to the historical ones.
// No deduplication happens: if both describe the same period, both are kept.
func JoinSnapshots(historical, latest []model.Snapshot) ([]model.Snapshot, error) {
	if len(latest) == 0 {
		return nil, errors.Wrap(apperr.ErrMalformedData, "latest-day window has no snapshots")
	}
	out := make([]model.Snapshot, 0, len(historical)+1)
	out = append(out, historical...)
	return append(out, latest[len(latest)-1]), nil
}
