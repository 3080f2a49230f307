package calibration

import (
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store persists one calibration Record as a fixed-layout binary file.
// "Not loaded" is a normal steady state: a fresh device has no record, and a
// corrupted record is treated the same way instead of failing hard.
type Store struct {
	mu   sync.RWMutex
	path string
	rec  *Record
}

// NewStore returns a Store backed by the file at path. Call Load before use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and verifies the stored record. A missing or invalid record
// leaves the store unloaded and returns nil; only unexpected I/O failures
// are returned as errors.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = nil

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read calibration file %s", s.path)
	}

	var rec Record
	if err := rec.UnmarshalBinary(b); err != nil {
		logrus.WithError(err).WithField("path", s.path).
			Warn("stored calibration is invalid, running uncalibrated")
		return nil
	}

	s.rec = &rec
	return nil
}

// Save validates, writes the record to a temporary file, and renames it into
// place so a partially written record is never observable. On success the
// store is loaded with the new record.
func (s *Store) Save(clearRaw, cloudyRaw uint16) error {
	rec := Record{ClearRaw: clearRaw, CloudyRaw: cloudyRaw}

	b, err := rec.MarshalBinary()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return pkgerrors.Wrapf(err, "failed to create %s", dir)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write calibration file %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return pkgerrors.Wrapf(err, "failed to commit calibration file %s", s.path)
	}

	s.rec = &rec
	return nil
}

// Invalidate forgets the loaded record and removes the stored file.
func (s *Store) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove calibration file %s", s.path)
	}
	return nil
}

// Record returns a copy of the loaded record, if any.
func (s *Store) Record() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rec == nil {
		return Record{}, false
	}
	return *s.rec, true
}

// Loaded reports whether a valid record is in memory.
func (s *Store) Loaded() bool {
	_, ok := s.Record()
	return ok
}
