package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BenchmarkObservation is the adjusted close of the benchmark for one month.
type BenchmarkObservation struct {
	Month      Month
	ClosePrice decimal.Decimal
}

// Benchmark enumerates the comparison targets known by name.
type Benchmark int

const (
	BenchmarkCustom Benchmark = iota
	BenchmarkSP500
	BenchmarkVWRL
	BenchmarkNasdaq100
	BenchmarkPPL // compare against the portfolio's own profit and loss
)

var benchmarkNames = map[Benchmark]string{
	BenchmarkSP500:     "sp500",
	BenchmarkVWRL:      "vwrl",
	BenchmarkNasdaq100: "nasdaq100",
	BenchmarkPPL:       "ppl",
}

func (b Benchmark) String() string {
	if n, ok := benchmarkNames[b]; ok {
		return n
	}
	return "custom"
}

// Ticker selects what the portfolio is compared against. Symbol is only
// meaningful for BenchmarkCustom, where it is passed to the provider as is.
type Ticker struct {
	Benchmark Benchmark
	Symbol    string
}

// DefaultTicker is the S&P 500 index.
var DefaultTicker = Ticker{Benchmark: BenchmarkSP500}

// ParseTicker maps a named benchmark ("sp500", "vwrl", "nasdaq100", "ppl")
// to its enumeration value; any other non-empty string is a custom symbol.
func ParseTicker(s string) Ticker {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTicker
	}
	for b, name := range benchmarkNames {
		if strings.EqualFold(s, name) {
			return Ticker{Benchmark: b}
		}
	}
	return Ticker{Benchmark: BenchmarkCustom, Symbol: s}
}

func (t Ticker) String() string {
	if t.Benchmark == BenchmarkCustom {
		return t.Symbol
	}
	return t.Benchmark.String()
}

// Mode tells the presenter which second line to draw.
func (t Ticker) Mode() Mode {
	if t.Benchmark == BenchmarkPPL {
		return ModePPL
	}
	return ModeBenchmark
}
