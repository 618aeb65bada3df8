package history

import (
	"context"
	"testing"
)

func TestBeginFinishRecent(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	id1, err := s.Begin(ctx, KindDocuments)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Finish(ctx, id1, RunCompleted, 3, 1, 0, ""); err != nil {
		t.Fatal(err)
	}

	id2, err := s.Begin(ctx, KindDataset)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Finish(ctx, id2, RunFailed, 0, 0, 1, "no dataset found"); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}

	byID := map[string]Run{}
	for _, r := range runs {
		byID[r.ID] = r
	}
	doc := byID[id1]
	if doc.Kind != KindDocuments || doc.Status != RunCompleted || doc.Processed != 3 || doc.Skipped != 1 {
		t.Fatalf("documents run = %+v", doc)
	}
	if doc.FinishedAt == nil {
		t.Fatal("documents run missing finished_at")
	}
	ds := byID[id2]
	if ds.Kind != KindDataset || ds.Status != RunFailed || ds.Failed != 1 || ds.Message != "no dataset found" {
		t.Fatalf("dataset run = %+v", ds)
	}
}

func TestRecentLimit(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Begin(ctx, KindDocuments); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
	for _, r := range runs {
		if r.Status != RunRunning {
			t.Fatalf("unfinished run status = %s", r.Status)
		}
	}
}
