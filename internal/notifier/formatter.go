package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"PortfolioBench/internal/model"
)

// HelpText lists the commands understood by the bot.
const HelpText = "Available commands:\n• /compare - build the comparison chart now\n• /help - show this message"

func last(ds []decimal.Decimal) (decimal.Decimal, bool) {
	if len(ds) == 0 {
		return decimal.Zero, false
	}
	return ds[len(ds)-1], true
}

// FormatSummary formats a comparison into a Telegram message.
func FormatSummary(cmp *model.Comparison) string {
	var b strings.Builder
	s := cmp.Series

	b.WriteString(fmt.Sprintf("📊 <b>Portfolio vs %s</b> | %s\n\n", cmp.Ticker, cmp.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Since: %s (%d points)\n", s.StartMonth, len(s.Labels)))

	portfolio, _ := last(s.PortfolioPct)
	b.WriteString(fmt.Sprintf("Portfolio: %s%%\n", portfolio.StringFixed(2)))

	if cmp.Ticker.Mode() == model.ModePPL {
		if len(s.Points) > 0 {
			p := s.Points[len(s.Points)-1]
			b.WriteString(fmt.Sprintf("P&L: %s on %s invested\n", p.ProfitAndLoss.StringFixed(2), p.Investment.StringFixed(2)))
		}
		return b.String()
	}

	if bench, ok := last(s.BenchmarkPct); ok {
		b.WriteString(fmt.Sprintf("%s: %s%%\n", cmp.Ticker, bench.StringFixed(2)))
		diff := portfolio.Sub(bench)
		sign := ""
		if diff.IsPositive() {
			sign = "+"
		}
		b.WriteString(fmt.Sprintf("Difference: %s%s pp\n", sign, diff.StringFixed(2)))
	}
	if !s.LengthsMatch() {
		b.WriteString(fmt.Sprintf("\n⚠️ benchmark has %d points against %d portfolio points; lines are plotted by position\n",
			len(s.BenchmarkPct), len(s.PortfolioPct)))
	}
	return b.String()
}
