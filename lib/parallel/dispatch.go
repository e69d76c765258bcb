package parallel

import (
	"fmt"

	"github.com/phil-mansfield/parkit/lib/array"
	"github.com/phil-mansfield/parkit/lib/policy"
)

// ForEach calls work(i) exactly once for every i in [0, p.N) and returns after
// all calls finish. Within a chunk, indices are visited in increasing order.
// There is no ordering between chunks, so work must be safe to call
// concurrently for different indices.
//
// If any call returns an error or panics, the remaining chunks stop at their
// next index and ForEach returns a *DispatchError for the first failure.
func ForEach(space Space, p policy.RangePolicy, work func(i int) error) error {
	if p.N < 0 { return badRange(p.N) }
	if p.N == 0 { return nil }

	chunks := policy.Chunks(p.N, space.Concurrency())
	f := &failure{ }
	space.Launch(len(chunks), func(k int) {
		c := chunks[k]
		i := c.Start
		defer f.catch(&i)
		for ; i < c.End; i++ {
			if f.stopped.Load() { return }
			if err := work(i); err != nil {
				f.set(i, err)
				return
			}
		}
	})

	if f.err != nil { return f.err }
	return nil
}

// ForEachMD calls work(idx) once for every multi-index in the policy's box.
// The box is flattened in row-major order and split like a ForEach over
// p.N(). idx is reused between calls within a chunk, so work must copy it if
// it needs to keep it.
func ForEachMD(space Space, p policy.MDRangePolicy, work func(idx []int) error) error {
	n := p.N()
	if n < 0 { return badRange(n) }
	if n == 0 { return nil }

	shape := array.Shape(p.Extents)
	chunks := policy.Chunks(n, space.Concurrency())
	f := &failure{ }
	space.Launch(len(chunks), func(k int) {
		c := chunks[k]
		idx := make([]int, len(shape))
		i := c.Start
		defer f.catch(&i)
		for ; i < c.End; i++ {
			if f.stopped.Load() { return }
			shape.Index(i, idx)
			if err := work(idx); err != nil {
				f.set(i, err)
				return
			}
		}
	})

	if f.err != nil { return f.err }
	return nil
}

// Reduce folds work(0), ..., work(p.N-1) together with p.Combine and returns
// the result. Each chunk folds its own indices in increasing order starting
// from p.Identity, and the chunk partials are then combined in chunk order.
// The grouping therefore depends only on p.N and the space's concurrency.
//
// p.N = 0 returns p.Identity. On failure Reduce returns the zero value of T
// and a *DispatchError for the first failure; no partial result is returned.
func Reduce[T any](
	space Space, p policy.ReducePolicy[T], work func(i int) (T, error),
) (T, error) {
	var zero T
	if p.N < 0 { return zero, badRange(p.N) }
	if p.Combine == nil {
		return zero, fmt.Errorf("%w: reduction has no combine function",
			ErrBadPolicy)
	}
	if p.N == 0 { return p.Identity, nil }

	chunks := policy.Chunks(p.N, space.Concurrency())
	partials := make([]T, len(chunks))
	f := &failure{ }
	space.Launch(len(chunks), func(k int) {
		c := chunks[k]
		acc := p.Identity
		i := c.Start
		defer f.catch(&i)
		for ; i < c.End; i++ {
			if f.stopped.Load() { return }
			x, err := work(i)
			if err != nil {
				f.set(i, err)
				return
			}
			acc = p.Combine(acc, x)
		}
		partials[k] = acc
	})

	if f.err != nil { return zero, f.err }

	out := p.Identity
	for k := range partials { out = p.Combine(out, partials[k]) }
	return out, nil
}

// Scan writes the exclusive prefix fold of work(0), ..., work(p.N-1) to
// out[0:p.N], so out[i] = Identity ⊕ work(0) ⊕ ... ⊕ work(i-1), and returns
// the fold of all N values. work is called exactly once per index. out must
// have at least p.N elements. On failure the contents of out are unspecified.
func Scan[T any](
	space Space, p policy.ReducePolicy[T], work func(i int) (T, error), out []T,
) (T, error) {
	var zero T
	if p.N < 0 { return zero, badRange(p.N) }
	if p.Combine == nil {
		return zero, fmt.Errorf("%w: scan has no combine function", ErrBadPolicy)
	}
	if len(out) < p.N {
		return zero, fmt.Errorf("%w: scan output has %d elements, but N = %d",
			ErrBadPolicy, len(out), p.N)
	}
	if p.N == 0 { return p.Identity, nil }

	chunks := policy.Chunks(p.N, space.Concurrency())
	partials := make([]T, len(chunks))
	f := &failure{ }

	// Pass 1: store each value and fold each chunk.
	space.Launch(len(chunks), func(k int) {
		c := chunks[k]
		acc := p.Identity
		i := c.Start
		defer f.catch(&i)
		for ; i < c.End; i++ {
			if f.stopped.Load() { return }
			x, err := work(i)
			if err != nil {
				f.set(i, err)
				return
			}
			out[i] = x
			acc = p.Combine(acc, x)
		}
		partials[k] = acc
	})
	if f.err != nil { return zero, f.err }

	// Turn the chunk partials into chunk offsets.
	total := p.Identity
	for k := range partials {
		partials[k], total = total, p.Combine(total, partials[k])
	}

	// Pass 2: replace values with running prefixes.
	space.Launch(len(chunks), func(k int) {
		c := chunks[k]
		acc := partials[k]
		i := c.Start
		defer f.catch(&i)
		for ; i < c.End; i++ {
			x := out[i]
			out[i] = acc
			acc = p.Combine(acc, x)
		}
	})
	if f.err != nil { return zero, f.err }

	return total, nil
}
