package alloc

import "errors"

// MinUses is the smallest number of competing uses the search accepts.
const MinUses = 3

var (
	// ErrConfiguration is returned for unusable configuration: fewer than
	// MinUses uses, missing or forbidden pricing fields, or allocation vectors
	// whose length does not match the use list. It is fatal; no partial result
	// accompanies it.
	ErrConfiguration = errors.New("alloc: configuration error")

	// ErrNumericDomain is returned when a price model is evaluated at a point
	// where it divides by zero or produces a non-finite value. The optimizer
	// recovers from it by excluding the offending candidate.
	ErrNumericDomain = errors.New("alloc: numeric domain error")

	// ErrNonTermination is returned when enumeration parameters could never
	// produce a finite walk (non-positive or non-finite total or interval, or
	// fewer than one dimension).
	ErrNonTermination = errors.New("alloc: enumeration would not terminate")

	// ErrNoCandidates is returned when a search saw no usable allocation,
	// either because the sequence was empty or every candidate was excluded.
	ErrNoCandidates = errors.New("alloc: no candidate allocations")
)
