package embeddings

import (
	"context"
	"errors"
	"log"
)

// ErrNoEmbeddings is returned when every text in a batch failed to embed.
// Callers must not proceed to index construction in that case.
var ErrNoEmbeddings = errors.New("no embeddings were generated")

// BatchResult holds the surviving embeddings of a partial-failure batch.
// Vectors[i] corresponds to Texts[i]; failed items are absent from both.
// Indices[i] is the position of that item in the input slice, so callers
// that derive ids from input order can keep them stable across failures.
type BatchResult struct {
	Texts   []string
	Vectors [][]float32
	Indices []int
	Failed  int
}

// EmbedEach embeds every text independently, tolerating per-item failures:
// a text that fails to embed is logged and skipped without aborting the
// rest of the batch. Returns ErrNoEmbeddings if nothing succeeded.
func EmbedEach(ctx context.Context, e Embedder, texts []string) (*BatchResult, error) {
	res := &BatchResult{}
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil || len(vecs) == 0 {
			log.Printf("embeddings: skipping item %d/%d: %v", i+1, len(texts), err)
			res.Failed++
			continue
		}
		res.Texts = append(res.Texts, text)
		res.Vectors = append(res.Vectors, vecs[0])
		res.Indices = append(res.Indices, i)
	}
	if len(res.Vectors) == 0 && len(texts) > 0 {
		return nil, ErrNoEmbeddings
	}
	return res, nil
}
