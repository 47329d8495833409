package alloc

import (
	"fmt"
	"iter"
	"math"
	"math/big"
)

// stepEpsilon is the relative slack applied to total/interval so that an
// interval which divides the total on paper is not short by one step.
const stepEpsilon = 1e-9

// residualEpsilon is the relative tolerance below which a negative residual
// in dimension 0 is treated as rounding and clamped to zero.
const residualEpsilon = 1e-8

// Enumerate returns the discretized simplex {x in R^n, x >= 0, sum(x) == total}
// at spacing interval as a lazy sequence.
//
// Dimension 0 is the residual: it always holds total minus the sum of the
// other entries. Dimensions 1..n-1 behave like odometer digits with dimension
// 1 least significant; a digit may step while at least one whole interval of
// the total is still unclaimed by it and the higher digits, otherwise it
// resets and carries. The first vector is [total, 0, ..., 0] and the walk ends
// once dimension n-1 holds every step that fits.
//
// The yielded slice is reused between iterations. Callers that keep a vector
// past the current iteration must copy it.
func Enumerate(total, interval float64, n int) (iter.Seq[[]float64], error) {
	steps, err := stepBudget(total, interval, n)
	if err != nil {
		return nil, err
	}
	return func(yield func([]float64) bool) {
		counts := make([]int, n) // counts[0] unused; dimension 0 is derived
		vec := make([]float64, n)
		vec[0] = total
		if !yield(vec) {
			return
		}
		if n < 2 {
			return
		}
		used := 0 // sum of counts[1:]
		for counts[n-1] < steps {
			// suffix holds the step count of dimensions d..n-1 before the
			// increment, so the scan can test each digit without re-summing.
			suffix := used
			for d := 1; d < n; d++ {
				if steps-suffix >= 1 {
					counts[d]++
					used++
					vec[d] = float64(counts[d]) * interval
					break
				}
				suffix -= counts[d]
				used -= counts[d]
				counts[d] = 0
				vec[d] = 0
			}
			vec[0] = residual(total, interval, used)
			if !yield(vec) {
				return
			}
		}
	}, nil
}

// PartitionCount returns the number of vectors Enumerate yields for the same
// arguments: C(K+n-1, n-1) with K the number of whole intervals in total.
// The count saturates at math.MaxInt.
func PartitionCount(total, interval float64, n int) (int, error) {
	steps, err := stepBudget(total, interval, n)
	if err != nil {
		return 0, err
	}
	count := new(big.Int).Binomial(int64(steps+n-1), int64(n-1))
	if !count.IsInt64() || count.Int64() > math.MaxInt {
		return math.MaxInt, nil
	}
	return int(count.Int64()), nil
}

func stepBudget(total, interval float64, n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: dimension count must be at least 1, got %d", ErrNonTermination, n)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return 0, fmt.Errorf("%w: total must be a finite positive number, got %g", ErrNonTermination, total)
	}
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return 0, fmt.Errorf("%w: interval must be a finite positive number, got %g", ErrNonTermination, interval)
	}
	ratio := total / interval
	k := math.Floor(ratio + math.Max(1, ratio)*stepEpsilon)
	if k > math.MaxInt32 {
		return 0, fmt.Errorf("%w: interval %g is too fine for total %g", ErrNonTermination, interval, total)
	}
	return int(k), nil
}

func residual(total, interval float64, used int) float64 {
	r := total - float64(used)*interval
	if r < 0 && r > -residualEpsilon*total {
		return 0
	}
	return r
}
