// Package apperr defines the error kinds surfaced by the comparison pipeline.
// Every failure is fatal for the run; callers tell kinds apart with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUpstream       = errors.New("upstream request failed")
	ErrInvalidTicker  = errors.New("invalid ticker")
	ErrMalformedData  = errors.New("malformed data")
	ErrConfig         = errors.New("configuration error")
	ErrNotFound       = errors.New("not found")
	ErrAlignment      = errors.New("alignment error")
	ErrDivisionByZero = errors.New("division by zero")
)

// UpstreamError is returned when an HTTP source answers with a non-success status.
type UpstreamError struct {
	Source     string
	URL        string
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d from %s", e.Source, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: status %d from %s: %s", e.Source, e.StatusCode, e.URL, e.Detail)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// InvalidTickerError is returned when the finance provider rejects the ticker itself.
type InvalidTickerError struct {
	Ticker      string
	Description string
}

func (e *InvalidTickerError) Error() string {
	return fmt.Sprintf("failed to retrieve data: %s. Ticker %s may be invalid", e.Description, e.Ticker)
}

func (e *InvalidTickerError) Is(target error) bool { return target == ErrInvalidTicker }

var kinds = []struct {
	err  error
	name string
}{
	{ErrUpstream, "upstream"},
	{ErrInvalidTicker, "invalid_ticker"},
	{ErrMalformedData, "malformed_data"},
	{ErrConfig, "config"},
	{ErrNotFound, "not_found"},
	{ErrAlignment, "alignment"},
	{ErrDivisionByZero, "division_by_zero"},
}

// Kind names the kind of err, or "unknown" when it matches none.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
