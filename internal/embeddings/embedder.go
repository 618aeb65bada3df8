// Package embeddings wraps embedding providers behind a narrow gateway used
// by both ingestion and query-time retrieval. The vector dimension is
// treated as opaque: it is discovered from the first successful call, never
// assumed from the model name.
package embeddings

import "context"

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimension observed on the first
	// successful call, or 0 if no embedding has been produced yet.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
