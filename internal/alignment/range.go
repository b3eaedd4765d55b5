package alignment

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Range scans every value of the given lines and returns the low and high.
func Range(lines ...[]decimal.Decimal) (low, high float64, err error) {
	low = math.Inf(1)
	high = math.Inf(-1)
	n := 0
	for _, line := range lines {
		for _, v := range line {
			f := v.InexactFloat64()
			if f > high {
				high = f
			}
			if f < low {
				low = f
			}
			n++
		}
	}
	if n == 0 {
		return 0, 0, errors.New("no values provided")
	}
	return low, high, nil
}

// PaddedRange widens Range by frac of its span on both sides, and by one unit
// when every value is equal so that an axis never collapses.
func PaddedRange(frac float64, lines ...[]decimal.Decimal) (low, high float64, err error) {
	low, high, err = Range(lines...)
	if err != nil {
		return 0, 0, err
	}
	span := high - low
	if span == 0 {
		return low - 1, high + 1, nil
	}
	return low - span*frac, high + span*frac, nil
}
