// Package storage persists harvest records as a JSON list on disk. The file
// is the unit of consistency: every mutation rewrites it atomically through a
// temporary file, so a crash leaves either the old list or the new one,
// never a torn write.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"igharvest/pkg/models"
)

// Store handles persistence of harvest records
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path. The parent
// directory is created if missing; the file itself is created on first
// append.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return &Store{path: path}, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load reads all stored records. A missing file is an empty store, not an
// error.
func (s *Store) Load() ([]models.HarvestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *Store) load() ([]models.HarvestRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []models.HarvestRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}

	return records, nil
}

// Append adds a record to the store. Records are never merged: re-harvesting
// the same username adds a new entry with its own timestamp.
func (s *Store) Append(record models.HarvestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	return s.write(append(records, record))
}

// Remove deletes the records whose Key matches any of the given keys and
// reports how many were removed
func (s *Store) Remove(keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}

	remaining := records[:0:0]
	for _, record := range records {
		if !wanted[record.Key()] {
			remaining = append(remaining, record)
		}
	}

	removed := len(records) - len(remaining)
	if removed == 0 {
		return 0, nil
	}

	return removed, s.write(remaining)
}

// Count returns the number of stored records
func (s *Store) Count() (int, error) {
	records, err := s.Load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// write replaces the backing file with the given list atomically
func (s *Store) write(records []models.HarvestRecord) error {
	if records == nil {
		records = []models.HarvestRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	return nil
}
