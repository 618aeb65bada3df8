package analytics

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/datachat-ai/datachat/internal/dataset"
)

// CompareColumns cross-tabulates two columns of the dataset: one row per
// distinct value of column1, one column per distinct value of column2, each
// cell counting co-occurrences. Column names are resolved fuzzily (exact
// match, then substring).
func CompareColumns(csvPath, column1, column2 string) (string, error) {
	t, err := dataset.Load(csvPath)
	if err != nil {
		return "", err
	}

	c1 := t.FindColumn(column1)
	c2 := t.FindColumn(column2)
	if c1 < 0 || c2 < 0 {
		return "", fmt.Errorf("could not find one or both columns (%q, %q); available columns: %s",
			column1, column2, strings.Join(t.Columns, ", "))
	}

	cross := make(map[string]map[string]int)
	colSet := make(map[string]struct{})
	for _, row := range t.Rows {
		v1, v2 := row[c1], row[c2]
		if cross[v1] == nil {
			cross[v1] = make(map[string]int)
		}
		cross[v1][v2]++
		colSet[v2] = struct{}{}
	}

	rowVals := sortedKeys(cross)
	colVals := make([]string, 0, len(colSet))
	for v := range colSet {
		colVals = append(colVals, v)
	}
	sort.Strings(colVals)

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "%s \\ %s", t.Columns[c1], t.Columns[c2])
	for _, cv := range colVals {
		fmt.Fprintf(w, "\t%s", cv)
	}
	fmt.Fprintln(w)

	for _, rv := range rowVals {
		fmt.Fprint(w, rv)
		for _, cv := range colVals {
			fmt.Fprintf(w, "\t%d", cross[rv][cv])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return b.String(), nil
}

func sortedKeys(m map[string]map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
