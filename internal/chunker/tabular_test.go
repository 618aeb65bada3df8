package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/datachat-ai/datachat/internal/dataset"
)

func table(rows int) *dataset.Table {
	t := &dataset.Table{Columns: []string{"id", "value"}}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []string{fmt.Sprintf("%d", i), fmt.Sprintf("v%d", i)})
	}
	return t
}

func TestTableChunker_WindowBoundaries(t *testing.T) {
	// 450 rows with a 200-row window and 3-row overlap advance 197 rows per
	// step: ceil(450/197) = 3 windows starting at 0, 197, 394.
	tbl := table(450)
	windows, err := TableChunker{ChunkSize: 200, Overlap: 3}.Windows(tbl)
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}

	for i, want := range []int{200, 200, 56} {
		if len(windows[i]) != want {
			t.Errorf("window %d has %d rows, want %d", i, len(windows[i]), want)
		}
	}
	for i, start := range []int{0, 197, 394} {
		if first := windows[i][0]; !strings.Contains(first, fmt.Sprintf("id: %d,", start)) {
			t.Errorf("window %d starts with %q, want row %d", i, first, start)
		}
	}
}

func TestTableChunker_OverlapRowsVerbatim(t *testing.T) {
	tbl := table(10)
	windows, err := TableChunker{ChunkSize: 5, Overlap: 2}.Windows(tbl)
	if err != nil {
		t.Fatal(err)
	}

	// step = 3: windows start at 0, 3, 6, 9.
	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}
	if windows[0][3] != windows[1][0] || windows[0][4] != windows[1][1] {
		t.Error("overlap rows are not repeated verbatim between windows")
	}
}

func TestTableChunker_ReconstructsRowOrder(t *testing.T) {
	tbl := table(23)
	chunkSize, overlap := 7, 2
	windows, err := TableChunker{ChunkSize: chunkSize, Overlap: overlap}.Windows(tbl)
	if err != nil {
		t.Fatal(err)
	}

	var rows []string
	rows = append(rows, windows[0]...)
	for _, w := range windows[1:] {
		skip := overlap
		if skip > len(w) {
			skip = len(w)
		}
		rows = append(rows, w[skip:]...)
	}
	if len(rows) != len(tbl.Rows) {
		t.Fatalf("reconstructed %d rows, want %d", len(rows), len(tbl.Rows))
	}
	for i, r := range rows {
		if want := tbl.RecordText(i); r != want {
			t.Errorf("row %d = %q, want %q", i, r, want)
		}
	}
}

func TestTableChunker_InvalidOverlap(t *testing.T) {
	_, err := TableChunker{ChunkSize: 10, Overlap: 10}.Windows(table(5))
	if err != ErrInvalidOverlap {
		t.Errorf("err = %v, want ErrInvalidOverlap", err)
	}
}

func TestTableChunker_CanonicalRecordOrder(t *testing.T) {
	tbl := &dataset.Table{
		Columns: []string{"zeta", "alpha"},
		Rows:    [][]string{{"2", "1"}},
	}
	chunks, err := TableChunker{ChunkSize: 5, Overlap: 0}.Split(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if chunks[0].Text != "alpha: 1, zeta: 2" {
		t.Errorf("record text = %q, want sorted-by-key order", chunks[0].Text)
	}
}
