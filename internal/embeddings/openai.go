package embeddings

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

const maxBatchSize = 100

// OpenAIEmbedder generates embeddings using OpenAI's API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel

	mu   sync.Mutex
	dims int
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key and
// model. An empty model defaults to text-embedding-ada-002.
func NewOpenAIEmbedder(apiKey string, model string) *OpenAIEmbedder {
	if model == "" {
		model = string(openai.AdaEmbeddingV2)
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}
}

func (e *OpenAIEmbedder) Name() string {
	return string(e.model)
}

// SetAPIKey replaces the API key. In-flight requests keep the old client.
func (e *OpenAIEmbedder) SetAPIKey(apiKey string) {
	e.mu.Lock()
	e.client = openai.NewClient(apiKey)
	e.mu.Unlock()
}

func (e *OpenAIEmbedder) api() *openai.Client {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client
}

// Dimensions returns the dimension seen on the first successful Embed call,
// or 0 before that.
func (e *OpenAIEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))

	// Batch up to maxBatchSize texts per API call.
	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := e.api().CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: e.model,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}

		for _, emb := range resp.Data {
			all = append(all, emb.Embedding)
		}
	}

	if len(all) > 0 {
		e.mu.Lock()
		if e.dims == 0 {
			e.dims = len(all[0])
		}
		e.mu.Unlock()
	}
	return all, nil
}
