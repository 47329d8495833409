// Package testutil provides shared test infrastructure for the allocation
// packages: the golden search dataset and float assertion helpers used by
// alloc/ and alloc/config/ tests.
package testutil

import (
	"encoding/json"
	"iter"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one search problem with its known optimum.
type GoldenTestCase struct {
	Name          string      `json:"name"`
	TotalQuantity float64     `json:"totalQuantity"`
	Interval      float64     `json:"interval"`
	Uses          []GoldenUse `json:"uses"`
	Want          GoldenWant  `json:"want"`
}

// GoldenUse mirrors the configuration file's use entry.
type GoldenUse struct {
	Name            string  `json:"name"`
	Multiplier      float64 `json:"multiplier"`
	Type            string  `json:"type"`
	LinearSlope     float64 `json:"linearSlope"`
	Offset          float64 `json:"offset"`
	Coefficient     float64 `json:"coefficient"`
	HorizontalShift float64 `json:"horizontalShift"`
	Exponent        float64 `json:"exponent"`
}

// GoldenWant is the expected search outcome.
type GoldenWant struct {
	Allocation []float64 `json:"allocation"`
	Revenue    float64   `json:"revenue"`
	Index      int       `json:"index"`
	Evaluated  int       `json:"evaluated"`
	Excluded   int       `json:"excluded"`
}

// LoadGoldenDataset loads the golden dataset from the repo-root testdata directory.
// The path is resolved relative to this source file: alloc/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// CollectCopies drains seq, copying each vector since sequences may recycle
// their buffer between iterations.
func CollectCopies(seq iter.Seq[[]float64]) [][]float64 {
	var out [][]float64
	for v := range seq {
		out = append(out, slices.Clone(v))
	}
	return out
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
