// Package retrieval turns a user query into ranked context chunks, either
// from the persistent document store or from the in-memory dataset index.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/datachat-ai/datachat/internal/docstore"
	"github.com/datachat-ai/datachat/internal/embeddings"
	"github.com/datachat-ai/datachat/internal/flatindex"
)

// ErrIndexNotReady is returned when a dataset query arrives before any
// dataset has been ingested.
var ErrIndexNotReady = errors.New("retrieval: dataset index not built")

// minDocumentScore filters out weakly related document chunks. Hits whose
// store omits a score pass through unfiltered.
const minDocumentScore = 0.7

// Retriever resolves queries against the two index shapes.
type Retriever struct {
	embedder  embeddings.Embedder
	documents *docstore.Store
	tables    *flatindex.Store
	topK      int
}

func New(embedder embeddings.Embedder, documents *docstore.Store, tables *flatindex.Store, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{embedder: embedder, documents: documents, tables: tables, topK: topK}
}

// Documents returns the texts of the document chunks most relevant to the
// query, strongest first. An empty result is not an error: the chat layer
// switches to its no-context prompt.
func (r *Retriever) Documents(ctx context.Context, query string) ([]string, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.documents.QueryByVector(ctx, vectors[0], r.topK)
	if err != nil {
		return nil, fmt.Errorf("query document store: %w", err)
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < minDocumentScore {
			log.Printf("dropping chunk %s below relevance threshold (%.3f)", hit.ID, hit.Score)
			continue
		}
		texts = append(texts, hit.Text)
	}
	return texts, nil
}

// Dataset returns the dataset row windows closest to the query, nearest
// first. Returns ErrIndexNotReady until a dataset has been ingested.
func (r *Retriever) Dataset(ctx context.Context, query string) ([]string, error) {
	if !r.tables.Ready() {
		return nil, ErrIndexNotReady
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.tables.Search(vectors[0], r.topK)
	if err != nil {
		if errors.Is(err, flatindex.ErrNotReady) {
			return nil, ErrIndexNotReady
		}
		return nil, fmt.Errorf("search dataset index: %w", err)
	}

	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Text)
	}
	return texts, nil
}
