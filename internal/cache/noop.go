package cache

import (
	"github.com/pkg/errors"

	"PortfolioBench/internal/apperr"
)

// NoopStore discards everything; used when caching is disabled.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Save(_ string, _ []byte) error { return nil }
func (n *NoopStore) Load(name string) ([]byte, error) {
	return nil, errors.Wrapf(apperr.ErrNotFound, "cache disabled, no entry %q", name)
}
func (n *NoopStore) Remove(_ string) error { return nil }
func (n *NoopStore) Close() error          { return nil }
