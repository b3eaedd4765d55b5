package model

// Period selects the brokerage snapshot window.
type Period int

const (
	PeriodAll Period = iota
	PeriodLastDay
)

// Mode selects the comparison drawn next to the portfolio line.
type Mode int

const (
	ModeBenchmark Mode = iota
	ModePPL
)

func (m Mode) String() string {
	if m == ModePPL {
		return "ppl"
	}
	return "benchmark"
}
