package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"PortfolioBench/internal/apperr"
)

// CurrentLabel replaces the month bucket of the most recent portfolio point.
const CurrentLabel = "current"

// Month is a calendar month bucket rendered as "MM-YYYY".
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf buckets t in its own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses an "MM-YYYY" label.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("01-2006", s)
	if err != nil {
		return Month{}, errors.Wrapf(apperr.ErrMalformedData, "month %q: %v", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%02d-%04d", int(m.Month), m.Year)
}

func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Before reports whether m is an earlier month than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}
