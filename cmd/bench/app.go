package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/cache"
	"PortfolioBench/internal/collector"
	"PortfolioBench/internal/config"
	"PortfolioBench/internal/logging"
	"PortfolioBench/internal/model"
	"PortfolioBench/internal/presenter"
	"PortfolioBench/internal/session"
)

const defaultConfigPath = "configs/config.yaml"

// app is the state shared by every command once configuration is loaded.
type app struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	store cache.Store
}

func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return defaultConfigPath
}

// setup loads .env and the config file, applies command-line overrides and
// opens the benchmark cache.
func setup(path string, override func(*config.Config)) (*app, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath(path))
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zl, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrConfig, "log level: %v", err)
	}
	log := zl.Sugar()

	store, err := cache.Open(cfg.Cache.Driver, cfg.Cache.Dir, cfg.Cache.SQLitePath, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, store: store}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warnf("close cache: %v", err)
	}
	_ = a.log.Sync()
}

func (a *app) ticker() model.Ticker {
	return model.ParseTicker(a.cfg.Benchmark.Ticker)
}

func (a *app) yahoo() *collector.YahooFetcher {
	return collector.NewYahooFetcher(a.cfg.Benchmark.BaseURL, a.cfg.Proxy, a.cfg.HTTP.Timeout,
		a.store, a.cfg.Benchmark.CacheFile, a.log)
}

// collector wires the brokerage and benchmark sources for one run.
func (a *app) collector(cookie string) (*collector.Collector, *collector.YahooFetcher, error) {
	creds, err := session.Parse(cookie)
	if err != nil {
		return nil, nil, err
	}
	brokerage := collector.NewTrading212Fetcher(a.cfg.Brokerage.BaseURL, creds, a.cfg.Proxy, a.cfg.HTTP.Timeout, a.log)
	yahoo := a.yahoo()
	col := collector.NewCollector(brokerage, yahoo, a.ticker(), !a.cfg.Benchmark.Refresh, a.log)
	return col, yahoo, nil
}

func (a *app) chartOptions(yahoo *collector.YahooFetcher) presenter.Options {
	opts := presenter.Options{Width: a.cfg.Chart.Width, Height: a.cfg.Chart.Height}
	if t := a.ticker(); t.Mode() == model.ModeBenchmark {
		opts.BenchmarkName = yahoo.Symbol(t)
	}
	return opts
}

// promptCookie asks for the session cookie on w and reads one line from r.
func promptCookie(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter the cookie string: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read cookie: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.Wrap(apperr.ErrConfig, "no cookie provided")
	}
	return line, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return subcommands.ExitFailure
}
