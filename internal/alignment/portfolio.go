package alignment

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/model"
)

// SnapshotTimeLayout is the only timestamp form the brokerage emits.
const SnapshotTimeLayout = "2006-01-02T15:04:05Z"

var hundred = decimal.NewFromInt(100)

// ParseSnapshotTime parses a brokerage timestamp and returns its UTC month bucket.
func ParseSnapshotTime(s string) (model.Month, error) {
	// time.Parse tolerates fractional seconds the layout does not name.
	if len(s) != len(SnapshotTimeLayout) {
		return model.Month{}, errors.Wrapf(apperr.ErrMalformedData, "snapshot time %q does not match %s", s, SnapshotTimeLayout)
	}
	t, err := time.Parse(SnapshotTimeLayout, s)
	if err != nil {
		return model.Month{}, errors.Wrapf(apperr.ErrMalformedData, "snapshot time %q: %v", s, err)
	}
	return model.MonthOf(t.UTC()), nil
}

// Point derives the percentage return of one snapshot.
func Point(s model.Snapshot) (model.PortfolioPoint, error) {
	if s.Investment.IsZero() {
		return model.PortfolioPoint{}, errors.Wrapf(apperr.ErrDivisionByZero, "snapshot at %s has zero investment", s.Time)
	}
	return model.PortfolioPoint{
		Investment:    s.Investment,
		ProfitAndLoss: s.ProfitAndLoss,
		Percentage:    s.ProfitAndLoss.Div(s.Investment).Mul(hundred),
	}, nil
}

// NormalizePortfolio buckets every snapshot by month and derives its point.
// The first bucket is returned as the start month; the last label is then
// replaced by model.CurrentLabel. Nothing is returned on error.
func NormalizePortfolio(snapshots []model.Snapshot) (labels []string, points []model.PortfolioPoint, start model.Month, err error) {
	if len(snapshots) == 0 {
		return nil, nil, model.Month{}, errors.Wrap(apperr.ErrMalformedData, "no portfolio snapshots")
	}
	labels = make([]string, len(snapshots))
	points = make([]model.PortfolioPoint, len(snapshots))
	for i, s := range snapshots {
		m, err := ParseSnapshotTime(s.Time)
		if err != nil {
			return nil, nil, model.Month{}, err
		}
		if i == 0 {
			start = m
		}
		p, err := Point(s)
		if err != nil {
			return nil, nil, model.Month{}, err
		}
		labels[i] = m.String()
		points[i] = p
	}
	labels[len(labels)-1] = model.CurrentLabel
	return labels, points, start, nil
}
