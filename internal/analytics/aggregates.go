package analytics

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/datachat-ai/datachat/internal/dataset"
)

// Aggregates holds the rendered per-column aggregate tables.
type Aggregates struct {
	Numeric     string
	Categorical string
}

// valueFreq is one categorical value with its frequency and share.
type valueFreq struct {
	value string
	freq  int
	pct   float64
}

// CategoryAggregates computes a set of aggregates for each column. Numeric
// columns get count, sum, mean, median, std, variance, min, quartiles, max
// and range; categorical columns get count, unique count, mode and the
// three most and least frequent values with frequencies and percentages.
func CategoryAggregates(csvPath string) (*Aggregates, error) {
	t, err := dataset.Load(csvPath)
	if err != nil {
		return nil, err
	}

	var numB, catB strings.Builder
	numW := tabwriter.NewWriter(&numB, 0, 8, 2, ' ', 0)
	catW := tabwriter.NewWriter(&catB, 0, 8, 2, ' ', 0)

	fmt.Fprintln(numW, "column\tcount\tsum\tmean\tmedian\tstd\tvariance\tmin\t25%\t50%\t75%\tmax\trange")
	fmt.Fprintln(catW, "column\tcount\tunique\tmode\ttop values\tlow values")

	hasNumeric, hasCategorical := false, false
	for c, name := range t.Columns {
		if t.NumericColumn(c) {
			hasNumeric = true
			vals := t.Floats(c)
			fmt.Fprintf(numW, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
				name, len(vals), sumOf(vals), meanOf(vals), medianOf(vals),
				stdOf(vals), varianceOf(vals), minOf(vals),
				quantileOf(vals, 0.25), quantileOf(vals, 0.50), quantileOf(vals, 0.75),
				maxOf(vals), maxOf(vals)-minOf(vals))
			continue
		}

		hasCategorical = true
		counts := columnCounts(t, c)
		top := topValues(counts, 3, true)
		low := topValues(counts, 3, false)
		mode := ""
		if len(top) > 0 {
			mode = top[0].value
		}
		fmt.Fprintf(catW, "%s\t%d\t%d\t%s\t%s\t%s\n",
			name, len(t.Rows), len(counts), mode, renderFreqs(top), renderFreqs(low))
	}

	numW.Flush()
	catW.Flush()

	agg := &Aggregates{}
	if hasNumeric {
		agg.Numeric = numB.String()
	}
	if hasCategorical {
		agg.Categorical = catB.String()
	}
	return agg, nil
}

func columnCounts(t *dataset.Table, c int) map[string]int {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		counts[row[c]]++
	}
	return counts
}

// topValues returns the n most (or least) frequent values, breaking
// frequency ties alphabetically for stable output.
func topValues(counts map[string]int, n int, descending bool) []valueFreq {
	total := 0
	freqs := make([]valueFreq, 0, len(counts))
	for v, f := range counts {
		freqs = append(freqs, valueFreq{value: v, freq: f})
		total += f
	}
	sort.Slice(freqs, func(a, b int) bool {
		if freqs[a].freq != freqs[b].freq {
			if descending {
				return freqs[a].freq > freqs[b].freq
			}
			return freqs[a].freq < freqs[b].freq
		}
		return freqs[a].value < freqs[b].value
	})

	if n > len(freqs) {
		n = len(freqs)
	}
	out := freqs[:n]
	for i := range out {
		out[i].pct = float64(out[i].freq) / float64(total) * 100
	}
	return out
}

func renderFreqs(freqs []valueFreq) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = fmt.Sprintf("%s (%d, %.2f%%)", f.value, f.freq, f.pct)
	}
	return strings.Join(parts, "; ")
}
