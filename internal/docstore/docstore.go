// Package docstore owns the persistent vector collection for ingested
// documents, backed by chromem-go. It holds two collections in one on-disk
// directory: "docs" with one embedded chunk per entry, and "metadata" with
// one processing record per document fingerprint. Each is independently
// loadable without replaying ingestion.
package docstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	chromem "github.com/philippgille/chromem-go"
)

const (
	docsCollection = "docs"
	metaCollection = "metadata"
)

// Store wraps the chromem-go persistent database.
type Store struct {
	db        *chromem.DB
	docs      *chromem.Collection
	meta      *chromem.Collection
	embedFunc chromem.EmbeddingFunc
}

// Open creates or opens the persistent store rooted at dir. The embedding
// func is only used by chromem for documents added without an explicit
// vector; this store always supplies vectors itself.
func Open(dir string, embedFunc chromem.EmbeddingFunc) (*Store, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open collection store %s: %w", dir, err)
	}

	s := &Store{db: db, embedFunc: embedFunc}
	if err := s.openCollections(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) openCollections() error {
	docs, err := s.db.GetOrCreateCollection(docsCollection, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("create %s collection: %w", docsCollection, err)
	}
	meta, err := s.db.GetOrCreateCollection(metaCollection, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("create %s collection: %w", metaCollection, err)
	}
	s.docs = docs
	s.meta = meta
	return nil
}

// Upsert stores one chunk vector with its text payload under the given id.
func (s *Store) Upsert(ctx context.Context, id string, vector []float32, text string) error {
	return s.docs.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   text,
		Embedding: vector,
		Metadata:  map[string]string{"text": text},
	})
}

// Exists reports whether a chunk with the given id is already stored, used
// to skip re-embedding identical chunks on reprocessing.
func (s *Store) Exists(ctx context.Context, id string) bool {
	_, err := s.docs.GetByID(ctx, id)
	return err == nil
}

// Delete removes the chunks with the given ids. Missing ids are ignored.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.docs.Delete(ctx, nil, nil, ids...)
}

// Hit is one retrieved chunk. Score is read from the stored payload,
// defaulting to 1 when absent; this deliberately differs from the flat
// index's raw L2 distances.
type Hit struct {
	ID    string
	Text  string
	Score float32
}

// QueryByVector returns up to k chunks ranked by similarity to the query
// vector.
func (s *Store) QueryByVector(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	count := s.docs.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 || k > count {
		k = count
	}

	results, err := s.docs.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query docs collection: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		score := float32(1)
		if raw, ok := r.Metadata["score"]; ok {
			if v, err := strconv.ParseFloat(raw, 32); err == nil {
				score = float32(v)
			}
		}
		text := r.Metadata["text"]
		if text == "" {
			text = r.Content
		}
		hits[i] = Hit{ID: r.ID, Text: text, Score: score}
	}
	return hits, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int { return s.docs.Count() }

// Reset drops both collections and recreates them empty.
func (s *Store) Reset(ctx context.Context) error {
	for _, name := range []string{docsCollection, metaCollection} {
		if err := s.db.DeleteCollection(name); err != nil {
			return fmt.Errorf("delete %s collection: %w", name, err)
		}
	}
	return s.openCollections()
}

// ProcessingRecord is the metadata side-table entry for one processed
// document, keyed by content fingerprint.
type ProcessingRecord struct {
	File        string
	ProcessedAt time.Time
	NumChunks   int
	Hash        string
}

// metaEmbedding is the fixed vector stored with metadata records; records
// are fetched by id, never by similarity.
var metaEmbedding = []float32{1}

// PutRecord writes the processing record for the given fingerprint. Written
// last during ingestion, so a crash mid-run leaves a missing or mismatched
// record and the next run reprocesses.
func (s *Store) PutRecord(ctx context.Context, hash string, rec ProcessingRecord) error {
	return s.meta.AddDocument(ctx, chromem.Document{
		ID:        hash,
		Content:   hash,
		Embedding: metaEmbedding,
		Metadata: map[string]string{
			"file":         rec.File,
			"processed_at": rec.ProcessedAt.UTC().Format(time.RFC3339),
			"num_chunks":   strconv.Itoa(rec.NumChunks),
			"hash":         rec.Hash,
		},
	})
}

// GetRecord returns the processing record for the fingerprint, or nil when
// the document has never been processed.
func (s *Store) GetRecord(ctx context.Context, hash string) (*ProcessingRecord, error) {
	doc, err := s.meta.GetByID(ctx, hash)
	if err != nil {
		return nil, nil
	}

	rec := &ProcessingRecord{
		File: doc.Metadata["file"],
		Hash: doc.Metadata["hash"],
	}
	rec.NumChunks, _ = strconv.Atoi(doc.Metadata["num_chunks"])
	rec.ProcessedAt, _ = time.Parse(time.RFC3339, doc.Metadata["processed_at"])
	return rec, nil
}

// DeleteRecord removes the processing record for the fingerprint.
func (s *Store) DeleteRecord(ctx context.Context, hash string) error {
	return s.meta.Delete(ctx, nil, nil, hash)
}

// FindRecordByFile returns the processing record for the named file, or nil
// when no version of that file has been processed. Used to spot a file
// whose content changed since its last ingestion.
func (s *Store) FindRecordByFile(ctx context.Context, file string) (*ProcessingRecord, error) {
	if s.meta.Count() == 0 {
		return nil, nil
	}

	results, err := s.meta.QueryEmbedding(ctx, metaEmbedding, 1, map[string]string{"file": file}, nil)
	if err != nil || len(results) == 0 {
		return nil, nil
	}
	return s.GetRecord(ctx, results[0].ID)
}
