package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/nikbrunner/bmark/internal/logger"
	"github.com/nikbrunner/bmark/internal/model"
)

// JSONStorage persists bookmarks in a single JSON document.
type JSONStorage struct {
	path        string
	log         logger.Logger
	lockTimeout time.Duration
	noUpgrade   bool

	// warnedOlder is set once the older-schema warning has been logged.
	warnedOlder bool

	// writeFile replaces path with the contents of r without exposing a
	// partially written file.
	writeFile func(path string, r io.Reader) error
}

// Option configures a JSONStorage.
type Option func(*JSONStorage)

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(s *JSONStorage) {
		s.log = log
	}
}

// WithWriter replaces the atomic file writer.
func WithWriter(write func(path string, r io.Reader) error) Option {
	return func(s *JSONStorage) {
		s.writeFile = write
	}
}

// WithLockTimeout sets how long Update and View wait for the database lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *JSONStorage) {
		s.lockTimeout = d
	}
}

// WithoutUpgrade makes Load refuse files from an older release with a
// *SchemaError instead of upgrading them in memory.
func WithoutUpgrade() Option {
	return func(s *JSONStorage) {
		s.noUpgrade = true
	}
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string, opts ...Option) *JSONStorage {
	s := &JSONStorage{
		path:        path,
		log:         logger.Nop(),
		lockTimeout: LockTimeout,
		writeFile:   atomic.WriteFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the store from the JSON file.
//
// A missing file is created empty at the current schema version. An existing
// file is decoded with Decode: files from a newer release are refused with a
// *SchemaError, files from an older release are upgraded in memory and
// flagged via Store.Upgraded.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.initialize()
		}
		return nil, fmt.Errorf("%w: %w", ErrLoadIO, err)
	}

	store, err := Decode(data)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Path = s.path
			return nil, schemaErr
		}
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	version := store.LoadedVersion()
	cmp := CompareVersions(version, SchemaVersion)
	s.log.Debug("decoded database",
		logger.String("path", s.path),
		logger.Int("schema_version", version),
		logger.String("relation", cmp.Relation.String()),
		logger.Int("bookmarks", store.Len()),
	)

	if cmp.Relation == Older {
		if s.noUpgrade {
			return nil, &SchemaError{Path: s.path, Stored: version, Expected: SchemaVersion, Comparison: cmp}
		}
		if !s.warnedOlder {
			s.warnedOlder = true
			s.log.Warnf("%s uses an older schema (version %d, current %d); it will be rewritten on the next save",
				s.path, version, SchemaVersion)
		}
	}

	return store, nil
}

// initialize creates an empty store and writes it so the next run finds a
// valid file.
func (s *JSONStorage) initialize() (*model.Store, error) {
	store := model.NewStore()
	s.log.Debug("creating empty database", logger.String("path", s.path))
	if err := s.Save(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Save writes the whole store to the JSON file at the current schema version.
// Creates the directory if it doesn't exist. The file is replaced atomically:
// a failed save leaves the previous file in place.
func (s *JSONStorage) Save(store *model.Store) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveIO, err)
	}

	data, err := Encode(store)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveIO, err)
	}

	if err := s.writeFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveIO, err)
	}

	s.log.Debug("saved database",
		logger.String("path", s.path),
		logger.Int("bookmarks", store.Len()),
		logger.Int("schema_version", SchemaVersion),
	)
	return nil
}

// Update loads the store under the database lock, calls fn, and saves if fn
// reports a change. The lock is released on every path.
func (s *JSONStorage) Update(fn func(store *model.Store) (bool, error)) (err error) {
	lock, err := s.lock()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, lock.release())
	}()

	store, err := s.Load()
	if err != nil {
		return err
	}

	changed, err := fn(store)
	if err != nil {
		s.log.Debug("update aborted, nothing saved", logger.Error(err))
		return err
	}
	s.log.Debug("update finished", logger.Bool("changed", changed))
	if !changed {
		return nil
	}

	return s.Save(store)
}

// View loads the store under the database lock and calls fn. Nothing is
// saved, except the initial empty file when none existed.
func (s *JSONStorage) View(fn func(store *model.Store) error) error {
	return s.Update(func(store *model.Store) (bool, error) {
		return false, fn(store)
	})
}

func (s *JSONStorage) lock() (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadIO, err)
	}
	return acquireLock(s.path, s.lockTimeout)
}
