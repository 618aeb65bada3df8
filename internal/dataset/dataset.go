// Package dataset loads and cleans CSV datasets. The cleaned table feeds both
// the tabular chunker and the analytic tool functions, so cleaning must be
// deterministic: the same input file always yields the same rows in the same
// order.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoDataset is returned when no CSV file can be found in the data directory.
var ErrNoDataset = errors.New("no CSV file found in the datasets directory")

// Table is a cleaned, in-memory CSV dataset.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Load reads and cleans the CSV file at path. Cleaning removes duplicate rows
// and rows with missing values, lower-cases and trims the header, and
// title-cases and trims non-numeric cell values.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	header := make([]string, len(records[0]))
	for i, c := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(c))
	}

	t := &Table{Columns: header}
	seen := make(map[string]struct{})
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		row := make([]string, len(rec))
		missing := false
		for i, v := range rec {
			v = strings.TrimSpace(v)
			if v == "" {
				missing = true
				break
			}
			row[i] = v
		}
		if missing {
			continue
		}
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		t.Rows = append(t.Rows, row)
	}

	t.titleCaseTextColumns()
	return t, nil
}

// titleCaseTextColumns normalizes the casing of every non-numeric column.
func (t *Table) titleCaseTextColumns() {
	for c := range t.Columns {
		if t.NumericColumn(c) {
			continue
		}
		for _, row := range t.Rows {
			row[c] = titleCase(row[c])
		}
	}
}

// NumericColumn reports whether every value in column index c parses as a number.
func (t *Table) NumericColumn(c int) bool {
	if c < 0 || c >= len(t.Columns) || len(t.Rows) == 0 {
		return false
	}
	for _, row := range t.Rows {
		if _, err := strconv.ParseFloat(row[c], 64); err != nil {
			return false
		}
	}
	return true
}

// Floats returns the values of numeric column index c.
func (t *Table) Floats(c int) []float64 {
	vals := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		v, err := strconv.ParseFloat(row[c], 64)
		if err != nil {
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

// Record returns row i as a column-name -> value map.
func (t *Table) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for c, name := range t.Columns {
		rec[name] = t.Rows[i][c]
	}
	return rec
}

// RecordText serializes row i as "key: value" pairs joined in sorted-by-key
// order, so identical data produces identical text regardless of column order.
func (t *Table) RecordText(i int) string {
	rec := t.Record(i)
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for j, k := range keys {
		parts[j] = fmt.Sprintf("%s: %s", k, rec[k])
	}
	return strings.Join(parts, ", ")
}

// FindColumn resolves a requested column name against the table header:
// exact match first, then the first column containing the query as a
// substring. Returns -1 when nothing matches.
func (t *Table) FindColumn(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	for i, c := range t.Columns {
		if strings.Contains(c, name) {
			return i
		}
	}
	return -1
}

// Find returns the path of the first CSV file in dir.
func Find(dir string) (string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.csv"))
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", ErrNoDataset
	}
	sort.Strings(matches)
	return matches[0], nil
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
