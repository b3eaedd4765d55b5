package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"PortfolioBench/internal/config"
)

// fetchCmd implements the "fetch" command.
type fetchCmd struct {
	configPath string
	ticker     string

	stdout io.Writer
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "downloads a benchmark into the cache" }
func (*fetchCmd) Usage() string {
	return `fetch -ticker T [-config C]

Downloads ten years of monthly closes for the ticker, stores the raw
response in the benchmark cache and prints one line per month.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")
	f.StringVar(&c.ticker, "ticker", "", "benchmark to download")
}

func (c *fetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout := c.stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	a, err := setup(c.configPath, func(cfg *config.Config) {
		if c.ticker != "" {
			cfg.Benchmark.Ticker = c.ticker
		}
		cfg.Benchmark.Refresh = true
	})
	if err != nil {
		return fail(err)
	}
	defer a.close()

	yahoo := a.yahoo()
	ticker := a.ticker()
	obs, err := yahoo.FetchObservations(ctx, ticker, false)
	if err != nil {
		return fail(err)
	}
	for _, o := range obs {
		fmt.Fprintf(stdout, "%s %s\n", o.Month, o.ClosePrice.StringFixed(4))
	}
	fmt.Fprintf(os.Stderr, "%d months of %s cached as %s\n", len(obs), yahoo.Symbol(ticker), yahoo.CacheName(ticker))
	return subcommands.ExitSuccess
}
