// Package analytics implements the analytic functions the chat model can
// invoke as tools: column statistics, per-category aggregates and
// cross-tabulated column comparison. Results are rendered as fixed-width
// text tables; the chat engine explains them in natural language and never
// forwards them verbatim unless the user explicitly asks for raw data.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/datachat-ai/datachat/internal/dataset"
)

// MinMaxMean returns the minimum, maximum and mean of every numeric column,
// rendered as one table row per statistic.
func MinMaxMean(csvPath string) (string, error) {
	t, err := dataset.Load(csvPath)
	if err != nil {
		return "", err
	}

	var cols []int
	for c := range t.Columns {
		if t.NumericColumn(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("no numeric columns in %s", csvPath)
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	fmt.Fprint(w, "stat")
	for _, c := range cols {
		fmt.Fprintf(w, "\t%s", t.Columns[c])
	}
	fmt.Fprintln(w)

	stats := []struct {
		name string
		fn   func([]float64) float64
	}{
		{"min", minOf},
		{"max", maxOf},
		{"mean", meanOf},
	}
	for _, st := range stats {
		fmt.Fprint(w, st.name)
		for _, c := range cols {
			fmt.Fprintf(w, "\t%g", st.fn(t.Floats(c)))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return b.String(), nil
}

// Totals returns the sum of every numeric column.
func Totals(csvPath string) (string, error) {
	t, err := dataset.Load(csvPath)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	found := false
	for c := range t.Columns {
		if !t.NumericColumn(c) {
			continue
		}
		found = true
		fmt.Fprintf(w, "%s\t%g\n", t.Columns[c], sumOf(t.Floats(c)))
	}
	if !found {
		return "", fmt.Errorf("no numeric columns in %s", csvPath)
	}
	w.Flush()
	return b.String(), nil
}

func minOf(vals []float64) float64 {
	m := math.Inf(1)
	for _, v := range vals {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		m = math.Max(m, v)
	}
	return m
}

func sumOf(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return sumOf(vals) / float64(len(vals))
}

func medianOf(vals []float64) float64 {
	return quantileOf(vals, 0.5)
}

// stdOf returns the sample standard deviation (n-1 denominator).
func stdOf(vals []float64) float64 {
	return math.Sqrt(varianceOf(vals))
}

func varianceOf(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	m := meanOf(vals)
	var ss float64
	for _, v := range vals {
		ss += (v - m) * (v - m)
	}
	return ss / float64(len(vals)-1)
}

// quantileOf uses linear interpolation between closest ranks.
func quantileOf(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
