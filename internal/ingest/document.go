package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/datachat-ai/datachat/internal/chunker"
	"github.com/datachat-ai/datachat/internal/docstore"
	"github.com/datachat-ai/datachat/internal/embeddings"
	"github.com/datachat-ai/datachat/internal/fingerprint"
	"github.com/datachat-ai/datachat/internal/pdf"
	"github.com/datachat-ai/datachat/internal/progress"
)

// ErrNoDocuments is returned when the uploads directory holds no PDFs.
var ErrNoDocuments = errors.New("no PDF files found in the uploads directory")

// DocumentPipeline ingests PDFs into the persistent chunk store.
type DocumentPipeline struct {
	extractor pdf.Extractor
	chunker   chunker.TextChunker
	embedder  embeddings.Embedder
	store     *docstore.Store
	reporter  progress.Reporter
}

func NewDocumentPipeline(extractor pdf.Extractor, c chunker.TextChunker, embedder embeddings.Embedder, store *docstore.Store, reporter progress.Reporter) *DocumentPipeline {
	if reporter == nil {
		reporter = progress.NopReporter{}
	}
	return &DocumentPipeline{
		extractor: extractor,
		chunker:   c,
		embedder:  embedder,
		store:     store,
		reporter:  reporter,
	}
}

// ProcessDocument ingests a single PDF. An unchanged document is skipped by
// content fingerprint; a changed one first has its previous chunks removed.
// The processing record is written only after every chunk is stored, and a
// rerun after an interruption skips chunks that already made it in.
func (p *DocumentPipeline) ProcessDocument(ctx context.Context, path string) Result {
	file := filepath.Base(path)

	hash, err := fingerprint.File(path)
	if err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("fingerprint: %v", err)}
	}

	if rec, _ := p.store.GetRecord(ctx, hash); rec != nil {
		return Result{File: file, Status: StatusSkipped, Message: "content unchanged since last ingestion"}
	}

	if old, _ := p.store.FindRecordByFile(ctx, file); old != nil && old.Hash != hash {
		if err := p.removeStale(ctx, old); err != nil {
			return Result{File: file, Status: StatusError, Message: fmt.Sprintf("remove stale chunks: %v", err)}
		}
		log.Printf("%s changed, removed %d stale chunks", file, old.NumChunks)
	}

	pages, err := p.extractor.Pages(path)
	if err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("extract text: %v", err)}
	}
	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return Result{File: file, Status: StatusError, Message: "no extractable text"}
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		return Result{File: file, Status: StatusError, Message: "text produced no chunks"}
	}

	// Chunks already stored under this fingerprint are skipped, so a run
	// interrupted before its record was written resumes where it stopped
	// instead of re-embedding everything.
	var pending []string
	var pendingIdx []int
	skipped := 0
	for i, c := range chunks {
		if p.store.Exists(ctx, fingerprint.ChunkID(hash, i)) {
			skipped++
			continue
		}
		pending = append(pending, c.Text)
		pendingIdx = append(pendingIdx, i)
	}

	stored := 0
	failed := 0
	if len(pending) > 0 {
		batch, err := embeddings.EmbedEach(ctx, p.embedder, pending)
		if err != nil {
			return Result{File: file, Status: StatusError, Message: fmt.Sprintf("embed chunks: %v", err)}
		}
		failed = batch.Failed
		for j, text := range batch.Texts {
			id := fingerprint.ChunkID(hash, pendingIdx[batch.Indices[j]])
			if err := p.store.Upsert(ctx, id, batch.Vectors[j], text); err != nil {
				return Result{File: file, Status: StatusError, Message: fmt.Sprintf("store chunk %s: %v", id, err)}
			}
			stored++
		}
	}

	// The record counts every chunk position, stored or not, so the stale
	// sweep can enumerate all ids this fingerprint may occupy.
	rec := docstore.ProcessingRecord{
		File:        file,
		ProcessedAt: time.Now().UTC(),
		NumChunks:   len(chunks),
		Hash:        hash,
	}
	if err := p.store.PutRecord(ctx, hash, rec); err != nil {
		return Result{File: file, Status: StatusError, Message: fmt.Sprintf("record processing: %v", err)}
	}

	msg := fmt.Sprintf("%d chunks stored", stored)
	if skipped > 0 {
		msg = fmt.Sprintf("%d chunks stored, %d already present", stored, skipped)
	}
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed to embed", failed)
	}
	return Result{File: file, Status: StatusProcessed, Message: msg}
}

// ClearDocument removes the stored chunks and processing record for one
// file. Returns false when the file was never ingested.
func (p *DocumentPipeline) ClearDocument(ctx context.Context, path string) (bool, error) {
	var rec *docstore.ProcessingRecord
	hash, err := fingerprint.File(path)
	switch {
	case err == nil:
		if rec, err = p.store.GetRecord(ctx, hash); err != nil {
			return false, err
		}
	case errors.Is(err, os.ErrNotExist):
		// already gone from disk, look the record up by name below
	default:
		return false, fmt.Errorf("fingerprint: %w", err)
	}
	if rec == nil {
		// The file may have changed or disappeared since ingestion;
		// fall back to the record stored under its name.
		rec, err = p.store.FindRecordByFile(ctx, filepath.Base(path))
		if err != nil || rec == nil {
			return false, err
		}
	}
	if err := p.removeStale(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (p *DocumentPipeline) removeStale(ctx context.Context, old *docstore.ProcessingRecord) error {
	ids := make([]string, 0, old.NumChunks)
	for i := 0; i < old.NumChunks; i++ {
		ids = append(ids, fingerprint.ChunkID(old.Hash, i))
	}
	if len(ids) > 0 {
		if err := p.store.Delete(ctx, ids...); err != nil {
			return err
		}
	}
	return p.store.DeleteRecord(ctx, old.Hash)
}

// ProcessAll ingests every PDF under dir, recursively. Per-file failures
// are reported in the results, not returned as errors.
func (p *DocumentPipeline) ProcessAll(ctx context.Context, dir string) ([]Result, error) {
	paths, err := findDocuments(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	p.reporter.Start(len(paths))
	defer p.reporter.Finish()

	results := make([]Result, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		p.reporter.Update(i+1, filepath.Base(path))
		results = append(results, p.ProcessDocument(ctx, path))
	}
	return results, nil
}

func findDocuments(dir string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return paths, nil
}
