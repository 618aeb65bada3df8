// Package flatindex implements a brute-force flat similarity index over raw
// embedding vectors, persisted to disk as a single file with a JSON sidecar
// of text records. The whole index is rebuilt and swapped in whenever the
// underlying dataset changes; there is no incremental add.
package flatindex

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoVectors is returned when building an index from an empty set.
	ErrNoVectors = errors.New("no vectors to index")
	// ErrDimensionMismatch is returned when a vector does not match the
	// index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Index is a flat L2 index. Distances are squared Euclidean over the raw
// vectors; no normalization is applied, so callers wanting cosine semantics
// must normalize before insertion.
type Index struct {
	Dim     int
	Vectors [][]float32
}

// Build creates an index from the given vectors. The dimension is taken
// from the first vector.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}
	ix := &Index{Dim: len(vectors[0])}
	if err := ix.Add(vectors...); err != nil {
		return nil, err
	}
	return ix, nil
}

// Add appends vectors to the index.
func (ix *Index) Add(vectors ...[]float32) error {
	for _, v := range vectors {
		if len(v) != ix.Dim {
			return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(v), ix.Dim)
		}
		ix.Vectors = append(ix.Vectors, v)
	}
	return nil
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int { return len(ix.Vectors) }

// Hit is one nearest neighbor: the vector's insertion id and its squared L2
// distance from the query. Lower distance means more relevant.
type Hit struct {
	ID       int
	Distance float32
}

// Search returns the k nearest neighbors of query, ordered by ascending
// distance. Ties keep insertion order.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.Dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), ix.Dim)
	}
	if k <= 0 {
		k = 5
	}

	hits := make([]Hit, len(ix.Vectors))
	for i, v := range ix.Vectors {
		hits[i] = Hit{ID: i, Distance: l2sq(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func l2sq(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
