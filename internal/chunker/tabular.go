package chunker

import (
	"strings"

	"github.com/datachat-ai/datachat/internal/dataset"
)

// TableChunker splits a dataset into windows of up to ChunkSize rows,
// advancing ChunkSize-Overlap rows per step. Consecutive windows repeat up
// to Overlap rows verbatim; the last window may be shorter.
type TableChunker struct {
	ChunkSize int
	Overlap   int
}

// Windows serializes the table into overlapping row windows, one embeddable
// string per row. Every record's fields are joined in canonical
// sorted-by-key order, so identical data yields identical text regardless of
// column ordering. Returns ErrInvalidOverlap when Overlap >= ChunkSize.
func (c TableChunker) Windows(t *dataset.Table) ([][]string, error) {
	size := c.ChunkSize
	if size <= 0 {
		size = 200
	}
	if c.Overlap >= size {
		return nil, ErrInvalidOverlap
	}
	overlap := c.Overlap
	if overlap < 0 {
		overlap = 0
	}

	step := size - overlap
	var windows [][]string
	for start := 0; start < len(t.Rows); start += step {
		end := start + size
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		records := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			records = append(records, t.RecordText(i))
		}
		windows = append(windows, records)
	}
	return windows, nil
}

// Split renders each window as a single newline-joined chunk.
func (c TableChunker) Split(t *dataset.Table) ([]Chunk, error) {
	windows, err := c.Windows(t)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = Chunk{Text: strings.Join(w, "\n"), Index: i}
	}
	return chunks, nil
}
