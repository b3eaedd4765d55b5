// Package presenter turns an aligned comparison into a dual-line chart.
package presenter

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"PortfolioBench/internal/alignment"
	"PortfolioBench/internal/model"
)

// Title is the heading drawn above every chart.
const Title = "Percentage Gain/Loss Comparison"

// Axis identifies the y axis a line is scaled against.
type Axis int

const (
	AxisPrimary Axis = iota
	AxisSecondary
)

// Role decides the color and styling of a line.
type Role int

const (
	RolePortfolio Role = iota
	RoleBenchmark
	RoleProfitAndLoss
)

// Line is one plotted series. Values are indexed by position on the label axis.
type Line struct {
	Name     string
	Role     Role
	Axis     Axis
	Values   []float64
	Filled   bool
	EndLabel string
}

// Figure is a renderer-independent description of the chart.
type Figure struct {
	Title          string
	XName          string
	PrimaryName    string
	SecondaryName  string // empty when no line uses the secondary axis
	Labels         []string
	TickStep       int
	PrimaryRange   [2]float64
	SecondaryRange [2]float64
	Lines          []Line
	Width, Height  int
}

// Options tune Build.
type Options struct {
	// BenchmarkName labels the benchmark line; defaults to the ticker name.
	BenchmarkName string
	Width, Height int
}

const rangePadding = 0.05

// Build describes the chart for cmp. In benchmark mode both percentage lines
// share the primary axis and the benchmark is shaded; in P&L mode the
// absolute profit and loss is drawn against a secondary axis.
func Build(cmp *model.Comparison, opts Options) (Figure, error) {
	if cmp == nil || cmp.Series == nil || len(cmp.Series.Labels) == 0 {
		return Figure{}, errors.New("nothing to plot")
	}
	s := cmp.Series
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}

	fig := Figure{
		Title:       Title,
		XName:       "Time",
		PrimaryName: "Percentage",
		Labels:      append([]string(nil), s.Labels...),
		TickStep:    tickStep(len(s.Labels)),
		Width:       opts.Width,
		Height:      opts.Height,
	}
	fig.Lines = append(fig.Lines, Line{
		Name:     "Portfolio % Change",
		Role:     RolePortfolio,
		Axis:     AxisPrimary,
		Values:   floats(s.PortfolioPct),
		EndLabel: percentLabel(s.PortfolioPct),
	})

	var err error
	switch cmp.Ticker.Mode() {
	case model.ModePPL:
		ppl := make([]decimal.Decimal, len(s.Points))
		for i, p := range s.Points {
			ppl[i] = p.ProfitAndLoss
		}
		fig.SecondaryName = "PPL"
		fig.Lines = append(fig.Lines, Line{
			Name:     "PPL",
			Role:     RoleProfitAndLoss,
			Axis:     AxisSecondary,
			Values:   floats(ppl),
			EndLabel: amountLabel(ppl),
		})
		if fig.PrimaryRange[0], fig.PrimaryRange[1], err = alignment.PaddedRange(rangePadding, s.PortfolioPct); err != nil {
			return Figure{}, err
		}
		if fig.SecondaryRange[0], fig.SecondaryRange[1], err = alignment.PaddedRange(rangePadding, ppl); err != nil {
			return Figure{}, err
		}
	default:
		name := opts.BenchmarkName
		if name == "" {
			name = cmp.Ticker.String()
		}
		fig.Lines = append(fig.Lines, Line{
			Name:     name + " % Change",
			Role:     RoleBenchmark,
			Axis:     AxisPrimary,
			Values:   floats(s.BenchmarkPct),
			Filled:   true,
			EndLabel: percentLabel(s.BenchmarkPct),
		})
		if fig.PrimaryRange[0], fig.PrimaryRange[1], err = alignment.PaddedRange(rangePadding, s.PortfolioPct, s.BenchmarkPct); err != nil {
			return Figure{}, err
		}
	}
	return fig, nil
}

// Ticks returns the positions that carry a label: every TickStep-th label
// and always the last one.
func (f Figure) Ticks() []int {
	step := f.TickStep
	if step < 1 {
		step = 1
	}
	var out []int
	for i := 0; i < len(f.Labels); i += step {
		out = append(out, i)
	}
	if last := len(f.Labels) - 1; last >= 0 && out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

// Span is the number of x positions needed to hold the longest line.
func (f Figure) Span() int {
	n := len(f.Labels)
	for _, l := range f.Lines {
		if len(l.Values) > n {
			n = len(l.Values)
		}
	}
	return n
}

func tickStep(n int) int {
	if n/10 < 1 {
		return 1
	}
	return n / 10
}

func floats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.InexactFloat64()
	}
	return out
}

func percentLabel(ds []decimal.Decimal) string {
	if len(ds) == 0 {
		return ""
	}
	return fmt.Sprintf("%s%%", ds[len(ds)-1].StringFixed(2))
}

func amountLabel(ds []decimal.Decimal) string {
	if len(ds) == 0 {
		return ""
	}
	return ds[len(ds)-1].StringFixed(2)
}
