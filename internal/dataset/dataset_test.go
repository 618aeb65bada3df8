package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = "Name,Age,City\n" +
	"alice,30,london\n" +
	"bob,25,paris\n" +
	"alice,30,london\n" + // duplicate
	"carol,,berlin\n" + // missing value
	"dave,41,new york\n"

func TestLoad_CleansData(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "people.csv", sampleCSV)

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 rows after dedup and dropna, got %d", len(tbl.Rows))
	}
	if tbl.Columns[0] != "name" || tbl.Columns[2] != "city" {
		t.Errorf("header not normalized: %v", tbl.Columns)
	}
	if tbl.Rows[0][0] != "Alice" {
		t.Errorf("text cell not title-cased: %q", tbl.Rows[0][0])
	}
	if tbl.Rows[2][2] != "New York" {
		t.Errorf("multi-word cell not title-cased: %q", tbl.Rows[2][2])
	}
}

func TestNumericColumn(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "d.csv", sampleCSV)
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !tbl.NumericColumn(1) {
		t.Error("age should be numeric")
	}
	if tbl.NumericColumn(0) {
		t.Error("name should not be numeric")
	}
}

func TestRecordText_SortedByKey(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "d.csv", "b,a\n2,1\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := tbl.RecordText(0); got != "a: 1, b: 2" {
		t.Errorf("RecordText = %q, want keys in sorted order", got)
	}
}

func TestFindColumn(t *testing.T) {
	tbl := &Table{Columns: []string{"order id", "unit price", "quantity"}}

	if got := tbl.FindColumn("quantity"); got != 2 {
		t.Errorf("exact match = %d, want 2", got)
	}
	if got := tbl.FindColumn("price"); got != 1 {
		t.Errorf("substring match = %d, want 1", got)
	}
	if got := tbl.FindColumn("discount"); got != -1 {
		t.Errorf("missing column = %d, want -1", got)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err != ErrNoDataset {
		t.Errorf("empty dir: err = %v, want ErrNoDataset", err)
	}

	writeCSV(t, dir, "sales.csv", "a\n1\n")
	path, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(path) != "sales.csv" {
		t.Errorf("Find = %s", path)
	}
}

func TestTitleCase_MultiByteRunes(t *testing.T) {
	cases := map[string]string{
		"ürün adı":   "Ürün Adı",
		"économie":   "Économie",
		"plain name": "Plain Name",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
