package flatindex

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func vec(vals ...float32) []float32 { return vals }

func TestBuild_Empty(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrNoVectors) {
		t.Errorf("err = %v, want ErrNoVectors", err)
	}
}

func TestIndex_SearchOrdering(t *testing.T) {
	ix, err := Build([][]float32{
		vec(0, 0), // id 0
		vec(3, 4), // id 1, dist 25 from origin
		vec(1, 0), // id 2, dist 1
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search(vec(0, 0), 3)
	if err != nil {
		t.Fatal(err)
	}
	wantIDs := []int{0, 2, 1}
	wantDist := []float32{0, 1, 25}
	for i := range wantIDs {
		if hits[i].ID != wantIDs[i] {
			t.Errorf("hit %d id = %d, want %d", i, hits[i].ID, wantIDs[i])
		}
		if hits[i].Distance != wantDist[i] {
			t.Errorf("hit %d distance = %v, want %v", i, hits[i].Distance, wantDist[i])
		}
	}

	// k larger than the index is clamped.
	hits, err = ix.Search(vec(0, 0), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Errorf("got %d hits, want 3", len(hits))
	}
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ix, _ := Build([][]float32{vec(1, 2, 3)})
	if err := ix.Add(vec(1, 2)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := ix.Search(vec(1), 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Search err = %v, want ErrDimensionMismatch", err)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "index.bin"), filepath.Join(dir, "records.json"))
}

func buildSample(t *testing.T, n int) (*Index, []string) {
	t.Helper()
	vectors := make([][]float32, n)
	records := make([]string, n)
	for i := range vectors {
		vectors[i] = vec(float32(i), float32(i*i))
		records[i] = fmt.Sprintf("record %d", i)
	}
	ix, err := Build(vectors)
	if err != nil {
		t.Fatal(err)
	}
	return ix, records
}

func TestStore_NotReady(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Search(vec(0, 0), 3); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
	if s.Ready() {
		t.Error("Ready should be false before any rebuild")
	}
}

func TestStore_PersistLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ix, records := buildSample(t, 8)
	if err := s.Rebuild(ix, records); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	query := vec(2.5, 6)
	before, err := s.Search(query, 4)
	if err != nil {
		t.Fatal(err)
	}

	// A fresh store loading the same files must return identical ids and
	// distances for the same query.
	reloaded := NewStore(s.indexPath, s.recordsPath)
	if !reloaded.Persisted() {
		t.Fatal("Persisted should be true after Rebuild")
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	after, err := reloaded.Search(query, 4)
	if err != nil {
		t.Fatal(err)
	}

	if len(before) != len(after) {
		t.Fatalf("result count changed across persist/load: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("result %d changed across persist/load: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestStore_RebuildSwapsWholesale(t *testing.T) {
	s := newTestStore(t)
	ix1, rec1 := buildSample(t, 4)
	if err := s.Rebuild(ix1, rec1); err != nil {
		t.Fatal(err)
	}

	ix2, err := Build([][]float32{vec(100, 100)})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Rebuild(ix2, []string{"fresh"}); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(vec(100, 100), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "fresh" {
		t.Errorf("old index still visible after rebuild: %+v", results)
	}
}

func TestStore_RebuildCountMismatch(t *testing.T) {
	s := newTestStore(t)
	ix, _ := buildSample(t, 3)
	if err := s.Rebuild(ix, []string{"only one"}); err == nil {
		t.Error("expected error for vector/record count mismatch")
	}
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)
	ix, records := buildSample(t, 3)
	if err := s.Rebuild(ix, records); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.Persisted() {
		t.Error("files should be deleted after Reset")
	}
	if _, err := s.Search(vec(0, 0), 1); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady after Reset", err)
	}

	// Resetting an already-clean store is not an error.
	if err := s.Reset(); err != nil {
		t.Errorf("second Reset: %v", err)
	}
}
