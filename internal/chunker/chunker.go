// Package chunker splits source content into overlapping windows, the unit of
// embedding and retrieval. Two independent strategies are provided: a
// sentence-aware text chunker for extracted document text and a row-based
// chunker for tabular datasets.
package chunker

import "errors"

// ErrInvalidOverlap is returned when overlap is not smaller than the window size.
var ErrInvalidOverlap = errors.New("overlap must be less than chunk size")

// Chunk is a bounded span of source content with its position in the source.
type Chunk struct {
	Text  string
	Index int
}
