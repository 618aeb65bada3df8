package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datachat-ai/datachat/internal/chunker"
	"github.com/datachat-ai/datachat/internal/dataset"
	"github.com/datachat-ai/datachat/internal/embeddings"
	"github.com/datachat-ai/datachat/internal/flatindex"
	"github.com/datachat-ai/datachat/internal/progress"
)

// DatasetPipeline ingests a CSV into the flat index. Ingestion is a full
// rebuild: the previous index is replaced wholesale, never patched.
type DatasetPipeline struct {
	chunker  chunker.TableChunker
	embedder embeddings.Embedder
	store    *flatindex.Store
	reporter progress.Reporter
}

func NewDatasetPipeline(c chunker.TableChunker, embedder embeddings.Embedder, store *flatindex.Store, reporter progress.Reporter) *DatasetPipeline {
	if reporter == nil {
		reporter = progress.NopReporter{}
	}
	return &DatasetPipeline{chunker: c, embedder: embedder, store: store, reporter: reporter}
}

// ProcessDataset loads, cleans, windows, embeds and indexes the CSV at
// path, then swaps the rebuilt index in.
func (p *DatasetPipeline) ProcessDataset(ctx context.Context, path string) Result {
	file := filepath.Base(path)

	table, err := dataset.Load(path)
	if err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("load dataset: %v", err)}
	}

	windows, err := p.chunker.Windows(table)
	if err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("window rows: %v", err)}
	}
	if len(windows) == 0 {
		return Result{File: file, Status: StatusError, Message: "dataset produced no row windows"}
	}

	texts := make([]string, len(windows))
	for i, w := range windows {
		texts[i] = strings.Join(w, "\n")
	}

	p.reporter.Start(len(texts))
	defer p.reporter.Finish()

	batch, err := embeddings.EmbedEach(ctx, p.embedder, texts)
	if err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("embed windows: %v", err)}
	}
	p.reporter.Update(len(batch.Texts), file)

	ix, err := flatindex.Build(batch.Vectors)
	if err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("build index: %v", err)}
	}
	if err := p.store.Rebuild(ix, batch.Texts); err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("persist index: %v", err)}
	}

	msg := fmt.Sprintf("%d windows indexed from %d rows", len(batch.Texts), len(table.Rows))
	if batch.Failed > 0 {
		msg += fmt.Sprintf(", %d failed to embed", batch.Failed)
	}
	return Result{File: file, Status: StatusProcessed, Message: msg}
}

// ProcessDir finds the dataset CSV under dir and ingests it.
func (p *DatasetPipeline) ProcessDir(ctx context.Context, dir string) Result {
	path, err := dataset.Find(dir)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	return p.ProcessDataset(ctx, path)
}
