/*package policy describes iteration spaces for parallel kernels. A policy says
which indices a kernel visits and, for reductions, how partial results are
combined. It says nothing about the work done at each index or about which
workers run it; that's the job of lib/parallel.
*/
package policy

import (
	"math"
)

// RangePolicy is a for-each over the indices [0, N).
type RangePolicy struct {
	N int
}

// Range creates a for-each policy over [0, n). n = 0 is an empty iteration.
// Negative n is rejected when the policy is dispatched.
func Range(n int) RangePolicy { return RangePolicy{ n } }

// ReducePolicy is a reduction over [0, N). Combine must be associative and
// commutative, and Identity must satisfy Combine(Identity, x) == x. Partial
// results may be combined in any grouping, so a combine which breaks these
// rules gives answers which depend on the worker count.
type ReducePolicy[T any] struct {
	N        int
	Identity T
	Combine  func(a, b T) T
}

// ReduceRange creates a reduction policy over [0, n).
func ReduceRange[T any](n int, identity T, combine func(a, b T) T) ReducePolicy[T] {
	return ReducePolicy[T]{ N: n, Identity: identity, Combine: combine }
}

// MDRangePolicy is a for-each over every multi-index of a rank-k box with the
// given extents. Indices are visited in row-major order within a chunk.
type MDRangePolicy struct {
	Extents []int
}

// MDRange creates a multidimensional for-each policy.
func MDRange(extents ...int) MDRangePolicy {
	ext := make([]int, len(extents))
	copy(ext, extents)
	return MDRangePolicy{ ext }
}

// N returns the number of multi-indices in the box. A negative extent, or a
// box with more indices than an int can count, gives -1 so that dispatch
// rejects it.
func (p MDRangePolicy) N() int {
	for _, ext := range p.Extents {
		if ext < 0 { return -1 }
	}
	for _, ext := range p.Extents {
		if ext == 0 { return 0 }
	}

	n := 1
	for _, ext := range p.Extents {
		if n > math.MaxInt / ext { return -1 }
		n *= ext
	}
	return n
}
