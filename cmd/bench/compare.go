package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"PortfolioBench/internal/config"
	"PortfolioBench/internal/model"
	"PortfolioBench/internal/presenter"
)

// compareCmd implements the "compare" command.
type compareCmd struct {
	configPath string
	ticker     string
	refresh    bool
	cacheFile  string
	out        string
	start      string

	stdin  io.Reader
	stdout io.Writer
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "charts the portfolio against a benchmark" }
func (*compareCmd) Usage() string {
	return `compare [-ticker T] [-refresh] [-cache-file F] [-start MM-YYYY] [-out P] [-config C]

Downloads the portfolio history from the brokerage, aligns it with the
monthly closes of the benchmark and writes a comparison chart.
The ticker is a named benchmark (sp500, vwrl, nasdaq100, ppl) or any
Yahoo Finance symbol. When no cookie is configured it is read from stdin.
-start moves the benchmark baseline to another month.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")
	f.StringVar(&c.ticker, "ticker", "", "benchmark to compare against")
	f.BoolVar(&c.refresh, "refresh", false, "download the benchmark instead of reading the cache")
	f.StringVar(&c.cacheFile, "cache-file", "", "cache entry holding the benchmark chart")
	f.StringVar(&c.start, "start", "", "benchmark baseline month as MM-YYYY (default: first portfolio month)")
	f.StringVar(&c.out, "out", "", "chart output path; .svg selects SVG, anything else PNG")
}

func (c *compareCmd) override(cfg *config.Config) {
	if c.ticker != "" {
		cfg.Benchmark.Ticker = c.ticker
	}
	if c.refresh {
		cfg.Benchmark.Refresh = true
	}
	if c.cacheFile != "" {
		cfg.Benchmark.CacheFile = c.cacheFile
	}
	if c.out != "" {
		cfg.Chart.Output = c.out
	}
}

func (c *compareCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout := c.stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	var start model.Month
	if c.start != "" {
		m, err := model.ParseMonth(c.start)
		if err != nil {
			return fail(err)
		}
		start = m
	}
	a, err := setup(c.configPath, c.override)
	if err != nil {
		return fail(err)
	}
	defer a.close()

	cookie := a.cfg.Brokerage.Cookie
	if cookie == "" {
		if cookie, err = promptCookie(c.stdin, stdout); err != nil {
			return fail(err)
		}
	}
	col, yahoo, err := a.collector(cookie)
	if err != nil {
		return fail(err)
	}
	col.Start = start

	cmp, err := col.Collect(ctx)
	if err != nil {
		return fail(err)
	}
	fig, err := presenter.Build(cmp, a.chartOptions(yahoo))
	if err != nil {
		return fail(err)
	}
	if err := presenter.RenderFile(a.cfg.Chart.Output, fig); err != nil {
		return fail(err)
	}

	s := cmp.Series
	fmt.Fprintf(stdout, "portfolio %s%% since %s\n", s.PortfolioPct[len(s.PortfolioPct)-1].StringFixed(2), s.StartMonth)
	if cmp.Ticker.Mode() == model.ModeBenchmark && len(s.BenchmarkPct) > 0 {
		fmt.Fprintf(stdout, "%s %s%%\n", fig.Lines[1].Name, s.BenchmarkPct[len(s.BenchmarkPct)-1].StringFixed(2))
	}
	fmt.Fprintf(stdout, "chart written to %s\n", a.cfg.Chart.Output)
	return subcommands.ExitSuccess
}
