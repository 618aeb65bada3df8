package analytics

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const salesCSV = "Region,Product,Units,Revenue\n" +
	"north,widget,10,100.5\n" +
	"south,widget,20,210\n" +
	"north,gadget,5,75\n" +
	"east,widget,15,160\n" +
	"south,gadget,8,96\n"

func writeSales(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(salesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMinMaxMean(t *testing.T) {
	out, err := MinMaxMean(writeSales(t))
	if err != nil {
		t.Fatalf("MinMaxMean: %v", err)
	}

	for _, want := range []string{"units", "revenue", "min", "max", "mean"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// units: min 5, max 20, mean 11.6
	if !strings.Contains(out, "5") || !strings.Contains(out, "20") || !strings.Contains(out, "11.6") {
		t.Errorf("unexpected units stats:\n%s", out)
	}
	// Non-numeric columns must not appear as stat columns.
	if strings.Contains(out, "region") {
		t.Errorf("categorical column leaked into numeric summary:\n%s", out)
	}
}

func TestTotals(t *testing.T) {
	out, err := Totals(writeSales(t))
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if !strings.Contains(out, "58") { // units total
		t.Errorf("missing units total:\n%s", out)
	}
	if !strings.Contains(out, "641.5") { // revenue total
		t.Errorf("missing revenue total:\n%s", out)
	}
}

func TestCategoryAggregates(t *testing.T) {
	agg, err := CategoryAggregates(writeSales(t))
	if err != nil {
		t.Fatalf("CategoryAggregates: %v", err)
	}

	if !strings.Contains(agg.Numeric, "median") || !strings.Contains(agg.Numeric, "units") {
		t.Errorf("numeric table incomplete:\n%s", agg.Numeric)
	}
	if !strings.Contains(agg.Categorical, "Widget (3, 60.00%)") {
		t.Errorf("top value with frequency and percentage missing:\n%s", agg.Categorical)
	}
	if !strings.Contains(agg.Categorical, "region") || !strings.Contains(agg.Categorical, "product") {
		t.Errorf("categorical columns missing:\n%s", agg.Categorical)
	}
}

func TestCompareColumns(t *testing.T) {
	out, err := CompareColumns(writeSales(t), "region", "product")
	if err != nil {
		t.Fatalf("CompareColumns: %v", err)
	}

	if !strings.Contains(out, "North") || !strings.Contains(out, "Widget") {
		t.Errorf("crosstab missing values:\n%s", out)
	}
	// north x gadget occurs once, east x gadget never.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 { // header + 3 regions
		t.Errorf("expected 4 crosstab lines, got %d:\n%s", len(lines), out)
	}
}

func TestCompareColumns_FuzzyResolution(t *testing.T) {
	// "prod" resolves to "product" via substring match.
	if _, err := CompareColumns(writeSales(t), "Region", "prod"); err != nil {
		t.Errorf("fuzzy column resolution failed: %v", err)
	}
}

func TestCompareColumns_MissingColumn(t *testing.T) {
	_, err := CompareColumns(writeSales(t), "region", "discount")
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	if !strings.Contains(err.Error(), "available columns") {
		t.Errorf("error should list available columns: %v", err)
	}
}

func TestQuantileInterpolation(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	if q := quantileOf(vals, 0.25); math.Abs(q-1.75) > 1e-9 {
		t.Errorf("q25 = %v, want 1.75", q)
	}
	if q := quantileOf(vals, 0.5); math.Abs(q-2.5) > 1e-9 {
		t.Errorf("median = %v, want 2.5", q)
	}
}
