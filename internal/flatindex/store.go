package flatindex

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNotReady is returned when the store is queried before any index has
// been built or loaded. Distinct from an index that is built but empty.
var ErrNotReady = errors.New("index not built yet")

// Result pairs an indexed text record with its distance from the query.
type Result struct {
	ID       int
	Text     string
	Distance float32
}

// Store owns the persisted flat index and its text records. Queries may run
// concurrently; a rebuild swaps in a fully-built replacement under the write
// lock, so readers observe either the old or the new index, never a partial
// one.
type Store struct {
	indexPath   string
	recordsPath string

	mu      sync.RWMutex
	index   *Index
	records []string
}

// NewStore creates a store persisting to the given file paths. Call Load to
// pick up a previously persisted index.
func NewStore(indexPath, recordsPath string) *Store {
	return &Store{indexPath: indexPath, recordsPath: recordsPath}
}

// Ready reports whether an index is available for querying.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index != nil
}

// Count returns the number of indexed records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	return s.index.Len()
}

// Persisted reports whether both the index file and records file exist on
// disk, used to decide skip-vs-reprocess for the dataset.
func (s *Store) Persisted() bool {
	if _, err := os.Stat(s.indexPath); err != nil {
		return false
	}
	_, err := os.Stat(s.recordsPath)
	return err == nil
}

// Rebuild replaces the current index and records with the given
// fully-built replacement and persists both files. The in-memory swap
// happens only after persistence succeeds, leaving the previous index
// untouched on failure.
func (s *Store) Rebuild(ix *Index, records []string) error {
	if ix.Len() != len(records) {
		return fmt.Errorf("index has %d vectors but %d records", ix.Len(), len(records))
	}
	if err := WriteIndex(ix, s.indexPath); err != nil {
		return err
	}
	if err := writeRecords(records, s.recordsPath); err != nil {
		return err
	}

	s.mu.Lock()
	s.index = ix
	s.records = records
	s.mu.Unlock()
	return nil
}

// Load reads the persisted index and records from disk.
func (s *Store) Load() error {
	ix, err := ReadIndex(s.indexPath)
	if err != nil {
		return err
	}
	records, err := readRecords(s.recordsPath)
	if err != nil {
		return err
	}
	if ix.Len() != len(records) {
		return fmt.Errorf("index has %d vectors but %d records", ix.Len(), len(records))
	}

	s.mu.Lock()
	s.index = ix
	s.records = records
	s.mu.Unlock()
	return nil
}

// Search returns the k records nearest to the query vector, ordered by
// ascending distance. Returns ErrNotReady before the first Rebuild or Load.
func (s *Store) Search(query []float32, k int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, ErrNotReady
	}

	hits, err := s.index.Search(query, k)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{ID: h.ID, Text: s.records[h.ID], Distance: h.Distance}
	}
	return results, nil
}

// Reset deletes the persisted index and records files and clears the
// in-memory index.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.indexPath, s.recordsPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	s.index = nil
	s.records = nil
	return nil
}
