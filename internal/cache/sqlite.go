package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"PortfolioBench/internal/apperr"
)

// SQLiteStore keeps entries in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
	mu  sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string, log *zap.SugaredLogger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite cache opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS benchmark_cache (
		name       TEXT PRIMARY KEY,
		body       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Save(name string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO benchmark_cache (name, body, fetched_at) VALUES (?,?,?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		name, body, time.Now().Unix(),
	)
	if err != nil {
		return errors.Wrapf(err, "save cache entry %s", name)
	}
	return nil
}

func (s *SQLiteStore) Load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body []byte
	err := s.db.QueryRow(`SELECT body FROM benchmark_cache WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(apperr.ErrNotFound, "cache entry %s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load cache entry %s", name)
	}
	return body, nil
}

func (s *SQLiteStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM benchmark_cache WHERE name = ?`, name); err != nil {
		return errors.Wrapf(err, "remove cache entry %s", name)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite cache")
	return s.db.Close()
}
