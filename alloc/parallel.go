package alloc

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of vectors handed to a worker at a time when
// ParallelOptions.BatchSize is unset.
const DefaultBatchSize = 256

// ParallelOptions tunes OptimizeParallel.
type ParallelOptions struct {
	Workers   int // <= 0 means runtime.GOMAXPROCS(0)
	BatchSize int // <= 0 means DefaultBatchSize
}

// batch is an owned copy of consecutive vectors starting at enumeration
// position start, stored row-major in data.
type batch struct {
	start int
	data  []float64
}

// partial is one worker's view of the search.
type partial struct {
	best     *Result
	excluded int
}

// OptimizeParallel is Optimize with revenue evaluation spread over a pool of
// workers. The producer copies vectors out of the sequence into owned
// batches, so the sequence may recycle its buffer. Per-worker winners are
// merged by revenue and then by enumeration position, which makes the result
// identical to Optimize, tie-break included.
func OptimizeParallel(ctx context.Context, allocations iter.Seq[[]float64], uses []Use, opts ParallelOptions) (*Result, error) {
	if err := checkUses(uses); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	n := len(uses)

	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan batch, workers)
	evaluated := 0

	g.Go(func() error {
		defer close(batches)
		cur := batch{data: make([]float64, 0, batchSize*n)}
		send := func() error {
			select {
			case batches <- cur:
			case <-gctx.Done():
				return gctx.Err()
			}
			cur = batch{start: evaluated, data: make([]float64, 0, batchSize*n)}
			return nil
		}
		for vec := range allocations {
			if len(vec) != n {
				return fmt.Errorf("%w: allocation has %d entries for %d uses", ErrConfiguration, len(vec), n)
			}
			cur.data = append(cur.data, vec...)
			evaluated++
			if len(cur.data) == batchSize*n {
				if err := send(); err != nil {
					return err
				}
			}
		}
		if len(cur.data) > 0 {
			return send()
		}
		return nil
	})

	partials := make([]partial, workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			p := &partials[w]
			scratch := make([]float64, n)
			for b := range batches {
				if err := gctx.Err(); err != nil {
					return err
				}
				for off := 0; off < len(b.data); off += n {
					idx := b.start + off/n
					vec := b.data[off : off+n]
					revenue, err := evaluate(vec, uses, scratch)
					if err != nil {
						if errors.Is(err, ErrNumericDomain) {
							p.excluded++
							continue
						}
						return err
					}
					if p.best == nil || better(revenue, idx, p.best) {
						p.best = &Result{
							Allocation: vec,
							UseRevenue: append([]float64(nil), scratch...),
							Revenue:    revenue,
							Index:      idx,
						}
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// An empty sequence never reaches a worker's cancellation check.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var best *Result
	excluded := 0
	for _, p := range partials {
		excluded += p.excluded
		if p.best != nil && (best == nil || better(p.best.Revenue, p.best.Index, best)) {
			best = p.best
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %d evaluated, %d excluded", ErrNoCandidates, evaluated, excluded)
	}
	// Allocation still aliases its batch; detach it from the shared backing array.
	best = best.Clone()
	best.Evaluated = evaluated
	best.Excluded = excluded
	logrus.Debugf("parallel search complete: %d workers, %d evaluated, %d excluded, best revenue %g at index %d",
		workers, evaluated, excluded, best.Revenue, best.Index)
	return best, nil
}

// better reports whether a candidate with the given revenue and enumeration
// position beats cur: higher revenue wins, equal revenue goes to the earlier
// position.
func better(revenue float64, idx int, cur *Result) bool {
	if revenue != cur.Revenue {
		return revenue > cur.Revenue
	}
	return idx < cur.Index
}
