// Package cache keeps verbatim copies of benchmark provider responses so a
// run can reuse them instead of calling the provider again.
package cache

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"PortfolioBench/internal/apperr"
)

// Store persists raw response bodies by name, one entry per ticker.
type Store interface {
	Save(name string, body []byte) error
	// Load returns apperr.ErrNotFound when name has no entry.
	Load(name string) ([]byte, error)
	// Remove deletes name; removing a missing entry is not an error.
	Remove(name string) error
	Close() error
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverNone   = "none"
)

// Open builds the store selected by driver.
func Open(driver, dir, sqlitePath string, log *zap.SugaredLogger) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(dir, log), nil
	case DriverSQLite:
		return NewSQLiteStore(sqlitePath, log)
	case DriverNone:
		return NewNoopStore(), nil
	default:
		return nil, errors.Wrapf(apperr.ErrConfig, "unknown cache driver %q", driver)
	}
}
