package flatindex

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteIndex serializes the index to path. The file is written to a
// temporary sibling first and renamed into place so readers never observe a
// partially-written index.
func WriteIndex(ix *Index, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(ix); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp index file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ReadIndex loads an index previously written with WriteIndex.
func ReadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	defer f.Close()

	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", path, err)
	}
	return &ix, nil
}

// writeRecords persists the text records sidecar as JSON.
func writeRecords(records []string, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".records-*")
	if err != nil {
		return fmt.Errorf("creating temp records file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp records file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func readRecords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records %s: %w", path, err)
	}
	defer f.Close()

	var records []string
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records %s: %w", path, err)
	}
	return records, nil
}
