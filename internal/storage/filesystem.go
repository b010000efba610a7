package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Filesystem is a Backend that maps colon-delimited keys onto files below
// a base directory. Set overwrites via write-to-temp-then-rename so readers
// never observe a partial write; SetIfNotExists relies on O_EXCL, which is
// atomic at the OS level, to guarantee create-if-absent semantics without a
// separate lock.
type Filesystem struct {
	base   string
	logger *zap.Logger
}

// NewFilesystem constructs a Filesystem backend rooted at base, creating it
// if necessary.
func NewFilesystem(base string, logger *zap.Logger) (*Filesystem, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create base dir: %v", ErrIOError, err)
	}
	return &Filesystem{base: base, logger: logger}, nil
}

func (f *Filesystem) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	rel := KeyToRelPath(key)
	full := filepath.Join(f.base, filepath.FromSlash(rel))
	// Defense in depth: filepath.Join cleans ".." segments, but confirm the
	// resolved path still lives under base before touching the filesystem.
	if !strings.HasPrefix(full, filepath.Clean(f.base)+string(filepath.Separator)) && full != filepath.Clean(f.base) {
		return "", fmt.Errorf("%w: escapes base path", ErrInvalidKey)
	}
	return full, nil
}

func (f *Filesystem) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return data, nil
}

func (f *Filesystem) Set(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %v", ErrIOError, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrIOError, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp: %v", ErrIOError, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: sync temp: %v", ErrIOError, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp: %v", ErrIOError, err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", ErrIOError, err)
	}
	return nil
}

func (f *Filesystem) SetIfNotExists(key string, value []byte) (bool, error) {
	p, err := f.path(key)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return false, fmt.Errorf("%w: mkdir: %v", ErrIOError, err)
	}
	// O_EXCL is the atomic create-if-absent primitive the filesystem gives
	// us; two processes racing here, at most one wins.
	fh, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return false, ErrAlreadyExists
		}
		return false, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	defer fh.Close()
	if _, err := fh.Write(value); err != nil {
		return false, fmt.Errorf("%w: write: %v", ErrIOError, err)
	}
	return true, nil
}

func (f *Filesystem) Delete(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

func (f *Filesystem) Exists(key string) (bool, error) {
	p, err := f.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return true, nil
}

func (f *Filesystem) List(prefix string) ([]string, error) {
	root := f.base
	var keys []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := strings.ReplaceAll(filepath.ToSlash(rel), "/", ":")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return keys, nil
}

func (f *Filesystem) HealthCheck() HealthStatus {
	if info, err := os.Stat(f.base); err != nil || !info.IsDir() {
		return HealthStatus{Healthy: false, Detail: fmt.Sprintf("base path unavailable: %v", err)}
	}
	probe := filepath.Join(f.base, ".health-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return HealthStatus{Healthy: false, Detail: fmt.Sprintf("base path not writable: %v", err)}
	}
	os.Remove(probe)
	return HealthStatus{Healthy: true, Detail: "filesystem backend at " + f.base}
}

func (f *Filesystem) Close() error {
	return nil
}
