package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofrs/flock"
)

// Store handles reading and writing the global config file with file locking.
// It provides atomic writes safe for concurrent access across processes.
type Store struct {
	path string
}

// NewStore creates a config store. An empty path uses the global location.
func NewStore(path string) *Store {
	if path == "" {
		path = GlobalConfigPath()
	}
	return &Store{path: path}
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) lockPath() string {
	return filepath.Join(filepath.Dir(s.path), ".lock")
}

// LockTimeout is the maximum time to wait for acquiring the file lock.
// If exceeded, operations proceed without locking (fail-open) to avoid hangs.
const LockTimeout = 100 * time.Millisecond

type fileLock struct {
	flock *flock.Flock
}

// acquireLock obtains an exclusive lock on the config directory.
//
// Fail-open semantics: returns nil (with no error) if the lock cannot be
// acquired within LockTimeout. A brief race on the config file is preferable
// to a hung command when another process holds the lock.
func (s *Store) acquireLock() (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, err
	}

	fl := flock.New(s.lockPath())

	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, err
	}
	if !locked {
		return nil, nil
	}

	return &fileLock{flock: fl}, nil
}

func (fl *fileLock) release() error {
	if fl == nil || fl.flock == nil {
		return nil
	}
	return fl.flock.Unlock()
}

// Exists returns true if the config file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// EnsureExists creates the config file with defaults if it is absent.
// Returns true if the file was created.
func (s *Store) EnsureExists() (bool, error) {
	if s.Exists() {
		return false, nil
	}
	if err := s.Save(Default()); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the config to disk atomically with proper locking.
// If the lock cannot be acquired, proceeds without locking (fail-open).
func (s *Store) Save(cfg *Config) error {
	lock, err := s.acquireLock()
	if err != nil {
		return err
	}
	if lock != nil {
		defer func() { _ = lock.release() }()
	}

	return s.saveUnsafe(cfg)
}

func (s *Store) saveUnsafe(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file with unique name (PID + timestamp)
	// to avoid conflicts when the lock cannot be acquired
	tmpPath := fmt.Sprintf("%s.%d.%d.tmp", s.path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}

	// On Windows, os.Rename fails if destination exists. Remove it first.
	if runtime.GOOS == "windows" {
		_ = os.Remove(s.path)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}

// Update atomically loads, modifies, and saves the config file.
// The updateFn receives the current file contents (or defaults if absent)
// and should modify it in place. The lock is held for the whole
// read-modify-write cycle.
func (s *Store) Update(updateFn func(*Config) error) error {
	lock, err := s.acquireLock()
	if err != nil {
		return err
	}
	if lock != nil {
		defer func() { _ = lock.release() }()
	}

	cfg := Default()
	loadFromFile(cfg, s.path, SourceGlobal)

	if err := updateFn(cfg); err != nil {
		return err
	}

	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)
	return s.saveUnsafe(cfg)
}
