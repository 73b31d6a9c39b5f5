package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/utils"
)

// FS keeps one file per key under dir. Values read or written are kept hot
// in RAM and revalidated against the file's size and mtime on every Get, so a
// file removed or replaced by another process is noticed.
type FS struct {
	dir string
	mu  sync.RWMutex
	hot map[string]hotEntry
}

type hotEntry struct {
	data    []byte
	size    int64
	modTime time.Time
}

func NewFS(dataDir string) (*FS, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dataDir, err)
	}
	return &FS{
		dir: dataDir,
		hot: make(map[string]hotEntry),
	}, nil
}

func (s *FS) Dir() string { return s.dir }

func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	path := s.path(key)

	fi, err := os.Stat(path)
	if err != nil {
		s.forget(key)
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}

	s.mu.RLock()
	h, ok := s.hot[key]
	s.mu.RUnlock()
	if ok && h.size == fi.Size() && h.modTime.Equal(fi.ModTime()) {
		return append([]byte(nil), h.data...), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.forget(key)
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	s.mu.Lock()
	s.hot[key] = hotEntry{data: data, size: fi.Size(), modTime: fi.ModTime()}
	s.mu.Unlock()
	return append([]byte(nil), data...), nil
}

func (s *FS) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	final := s.path(key)
	logger.Debug("store: writing %s (%s)", final, utils.HumanSize(int64(len(value))))

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hot, key)
	if err := utils.WriteFileAtomic(final+".tmp", final, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if fi, err := os.Stat(final); err == nil {
		s.hot[key] = hotEntry{data: append([]byte(nil), value...), size: fi.Size(), modTime: fi.ModTime()}
	}
	return nil
}

func (s *FS) Has(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	return utils.FileExists(s.path(key))
}

func (s *FS) forget(key string) {
	s.mu.Lock()
	delete(s.hot, key)
	s.mu.Unlock()
}

// path escapes ':' as %3A. '%' never passes ValidateKey, so distinct keys
// always get distinct file names.
func (s *FS) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+".json")
}
