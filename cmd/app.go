package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/datachat-ai/datachat/internal/chat"
	"github.com/datachat-ai/datachat/internal/chunker"
	"github.com/datachat-ai/datachat/internal/config"
	"github.com/datachat-ai/datachat/internal/dataset"
	"github.com/datachat-ai/datachat/internal/docstore"
	"github.com/datachat-ai/datachat/internal/embeddings"
	"github.com/datachat-ai/datachat/internal/flatindex"
	"github.com/datachat-ai/datachat/internal/history"
	"github.com/datachat-ai/datachat/internal/ingest"
	"github.com/datachat-ai/datachat/internal/llm"
	"github.com/datachat-ai/datachat/internal/pdf"
	"github.com/datachat-ai/datachat/internal/progress"
	"github.com/datachat-ai/datachat/internal/retrieval"
)

// app holds the wired application components shared by the commands.
type app struct {
	cfg       *config.Config
	provider  *llm.OpenAIProvider
	embedder  *embeddings.OpenAIEmbedder
	documents *docstore.Store
	tables    *flatindex.Store
	runs      *history.Store
	sessions  *chat.SessionStore
	engine    *chat.Engine
	ingestor  *ingest.DocumentPipeline
	retriever *retrieval.Retriever
	runner    *ingest.Runner
}

// buildApp loads configuration and wires every component. A previously
// persisted dataset index is loaded if present.
func buildApp(reporter progress.Reporter) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	embedder := embeddings.NewOpenAIEmbedder(cfg.APIKey, cfg.EmbeddingModel)
	provider := llm.NewOpenAIProvider(cfg.APIKey, cfg.Model)

	documents, err := docstore.Open(cfg.Paths.VectorDir, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("opening chunk store: %w", err)
	}

	tables := flatindex.NewStore(cfg.Paths.IndexFile, cfg.Paths.RecordsFile)
	if tables.Persisted() {
		if err := tables.Load(); err != nil {
			log.Printf("could not load dataset index, retrain to rebuild: %v", err)
		}
	}

	runs, err := history.Open(cfg.Paths.HistoryFile)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}

	sessions := chat.NewSessionStore()
	engine := chat.NewEngine(provider, sessions, func() (string, error) {
		return dataset.Find(cfg.Paths.DatasetsDir)
	}, cfg.Model, cfg.Temperature)

	retriever := retrieval.New(embedder, documents, tables, cfg.Retrieval.TopK)

	docPipeline := ingest.NewDocumentPipeline(pdf.NewReader(), chunker.TextChunker{
		ChunkSize: cfg.Documents.ChunkSize,
		Overlap:   cfg.Documents.Overlap,
	}, embedder, documents, reporter)
	datasetPipeline := ingest.NewDatasetPipeline(chunker.TableChunker{
		ChunkSize: cfg.Dataset.ChunkSize,
		Overlap:   cfg.Dataset.Overlap,
	}, embedder, tables, reporter)

	return &app{
		cfg:       cfg,
		provider:  provider,
		embedder:  embedder,
		documents: documents,
		tables:    tables,
		runs:      runs,
		sessions:  sessions,
		engine:    engine,
		ingestor:  docPipeline,
		retriever: retriever,
		runner:    ingest.NewRunner(docPipeline, datasetPipeline, runs),
	}, nil
}

// setAPIKey stores a runtime-supplied key in .env and rewires both OpenAI
// clients with it.
func (a *app) setAPIKey(key string) error {
	if err := config.SaveAPIKey(".env", key); err != nil {
		return err
	}
	a.provider.SetAPIKey(key)
	a.embedder.SetAPIKey(key)
	return nil
}

func (a *app) close() {
	if err := a.runs.Close(); err != nil {
		log.Printf("closing run history: %v", err)
	}
}
