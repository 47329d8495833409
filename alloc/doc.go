// Package alloc finds the revenue-maximizing split of a fixed quantity of a
// divisible resource among competing uses.
//
// # Reading Guide
//
//   - enumerate.go: the discretized simplex walk (Enumerate, PartitionCount)
//   - price.go: the Linear and Power unit-price models
//   - use.go: a Use couples a multiplier with a price model into a revenue function
//   - optimize.go: the sequential search (Optimize) and its Result
//   - parallel.go: the same search spread over a worker pool (OptimizeParallel)
//   - curve.go: per-use price/revenue samples for reporting
//
// Enumerate and Optimize form a pull pipeline: the optimizer ranges over the
// enumerator's sequence and copies only the vectors it keeps. Configuration
// loading lives in alloc/config and search metrics in alloc/metrics.
package alloc
