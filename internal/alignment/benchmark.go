package alignment

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/model"
)

// CheckMonthly verifies observations are strictly ascending with one per month.
func CheckMonthly(obs []model.BenchmarkObservation) error {
	for i := 1; i < len(obs); i++ {
		prev, cur := obs[i-1].Month, obs[i].Month
		if prev == cur {
			return errors.Wrapf(apperr.ErrMalformedData, "benchmark has duplicate month %s", cur)
		}
		if !prev.Before(cur) {
			return errors.Wrapf(apperr.ErrMalformedData, "benchmark month %s follows %s", cur, prev)
		}
	}
	return nil
}

// Truncate drops every observation before start. The returned slice is a copy.
func Truncate(obs []model.BenchmarkObservation, start model.Month) ([]model.BenchmarkObservation, error) {
	if err := CheckMonthly(obs); err != nil {
		return nil, err
	}
	for i, o := range obs {
		if o.Month == start {
			return append([]model.BenchmarkObservation(nil), obs[i:]...), nil
		}
	}
	return nil, errors.Wrapf(apperr.ErrAlignment, "start month %s not found in benchmark series", start)
}

// PercentChange expresses each close relative to the first one, in percent.
func PercentChange(obs []model.BenchmarkObservation) ([]decimal.Decimal, error) {
	if len(obs) == 0 {
		return nil, nil
	}
	baseline := obs[0].ClosePrice
	if baseline.IsZero() {
		return nil, errors.Wrapf(apperr.ErrDivisionByZero, "benchmark baseline at %s is zero", obs[0].Month)
	}
	pct := make([]decimal.Decimal, len(obs))
	pct[0] = decimal.Zero
	for i := 1; i < len(obs); i++ {
		pct[i] = obs[i].ClosePrice.Sub(baseline).Div(baseline).Mul(hundred)
	}
	return pct, nil
}
