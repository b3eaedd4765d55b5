package model

import "github.com/shopspring/decimal"

// Snapshot is one point-in-time portfolio state as reported by the brokerage.
// Time is kept verbatim; it is parsed when the snapshot is bucketed.
type Snapshot struct {
	Time          string          `json:"time"`
	Investment    decimal.Decimal `json:"investment"`
	ProfitAndLoss decimal.Decimal `json:"ppl"`
}

// PortfolioPoint is the derived per-snapshot return.
type PortfolioPoint struct {
	Investment    decimal.Decimal
	ProfitAndLoss decimal.Decimal
	Percentage    decimal.Decimal // ProfitAndLoss / Investment * 100
}
