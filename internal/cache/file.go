package cache

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"PortfolioBench/internal/apperr"
)

// FileStore keeps each entry as <dir>/<name>.
type FileStore struct {
	dir string
	log *zap.SugaredLogger
	mu  sync.Mutex
}

func NewFileStore(dir string, log *zap.SugaredLogger) *FileStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FileStore{dir: dir, log: log}
}

// Path returns the file backing name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *FileStore) Save(name string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create cache dir %s", s.dir)
	}
	path := s.Path(name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.Wrapf(err, "write cache file %s", path)
	}
	s.log.Infow("cache file written", zap.String("path", path), zap.Int("bytes", len(body)))
	return nil
}

func (s *FileStore) Load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(apperr.ErrNotFound, "cache file %s", path)
		}
		return nil, errors.Wrapf(err, "read cache file %s", path)
	}
	return data, nil
}

func (s *FileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove cache file %s", path)
	}
	s.log.Infow("cache file removed", zap.String("path", path))
	return nil
}

func (s *FileStore) Close() error { return nil }
