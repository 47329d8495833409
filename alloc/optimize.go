package alloc

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Result is the best allocation found by a search.
type Result struct {
	// Allocation is an owned copy of the winning vector, one quantity per use
	// in the order the uses were given.
	Allocation []float64
	// Revenue is the total revenue of Allocation.
	Revenue float64
	// UseRevenue holds the revenue contributed by each use at Allocation.
	UseRevenue []float64
	// Index is the 0-based enumeration position of the winning vector.
	Index int
	// Evaluated counts every vector the search saw, excluded ones included.
	Evaluated int
	// Excluded counts vectors dropped because a price model was undefined there.
	Excluded int
}

// Optimize evaluates every vector in allocations against uses and returns the
// one with the highest total revenue. Ties keep the earliest vector.
//
// Vectors at which some price model is undefined are skipped and counted in
// Result.Excluded. If no vector survives, the error wraps ErrNoCandidates.
// Fewer than MinUses uses, or a vector whose length differs from len(uses),
// is an ErrConfiguration.
func Optimize(allocations iter.Seq[[]float64], uses []Use) (*Result, error) {
	if err := checkUses(uses); err != nil {
		return nil, err
	}
	var best *Result
	scratch := make([]float64, len(uses))
	evaluated, excluded := 0, 0
	for vec := range allocations {
		idx := evaluated
		evaluated++
		revenue, err := evaluate(vec, uses, scratch)
		if err != nil {
			if errors.Is(err, ErrNumericDomain) {
				excluded++
				logrus.Debugf("excluding allocation %d %v: %v", idx, vec, err)
				continue
			}
			return nil, err
		}
		if best == nil || revenue > best.Revenue {
			if best == nil {
				best = &Result{}
			}
			best.Allocation = append(best.Allocation[:0], vec...)
			best.UseRevenue = append(best.UseRevenue[:0], scratch...)
			best.Revenue = revenue
			best.Index = idx
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %d evaluated, %d excluded", ErrNoCandidates, evaluated, excluded)
	}
	best.Evaluated = evaluated
	best.Excluded = excluded
	logrus.Debugf("search complete: %d evaluated, %d excluded, best revenue %g at index %d",
		evaluated, excluded, best.Revenue, best.Index)
	return best, nil
}

// evaluate writes the per-use revenue of vec into out and returns the total.
func evaluate(vec []float64, uses []Use, out []float64) (float64, error) {
	if len(vec) != len(uses) {
		return 0, fmt.Errorf("%w: allocation has %d entries for %d uses", ErrConfiguration, len(vec), len(uses))
	}
	for i, u := range uses {
		r, err := u.Revenue(vec[i])
		if err != nil {
			return 0, err
		}
		out[i] = r
	}
	total := floats.Sum(out)
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: total revenue is %g", ErrNumericDomain, total)
	}
	return total, nil
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Allocation = slices.Clone(r.Allocation)
	c.UseRevenue = slices.Clone(r.UseRevenue)
	return &c
}
