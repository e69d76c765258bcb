package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/phil-mansfield/parkit/lib/array"
	"github.com/phil-mansfield/parkit/lib/eq"
	"github.com/phil-mansfield/parkit/lib/policy"
)

// testSpaces returns one of every space, with a few thread counts for the
// concurrent ones. Callers must close them.
func testSpaces() []Space {
	return []Space{
		Serial{ },
		NewPool(1, nil), NewPool(3, nil), NewPool(8, nil),
		NewSpawn(1), NewSpawn(4),
	}
}

func closeAll(spaces []Space) {
	for _, s := range spaces { s.Close() }
}

func spaceName(s Space) string {
	return fmt.Sprintf("%s/%d", s.Name(), s.Concurrency())
}

var testSizes = []int{ 0, 1, 2, 3, 7, 8, 64, 1000, 1023 }

func TestForEachVisitsOnce(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		for _, n := range testSizes {
			counts := make([]int64, n)
			err := ForEach(s, policy.Range(n), func(i int) error {
				atomic.AddInt64(&counts[i], 1)
				return nil
			})
			require.NoError(t, err, "%s N=%d", spaceName(s), n)
			require.True(t, eq.Counts(counts, 1),
				"%s N=%d: visit counts %v", spaceName(s), n, counts)
		}
	}
}

func TestForEachSquares(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		a, err := array.New[int](8)
		require.NoError(t, err)
		err = ForEach(s, policy.Range(a.Extent(0)), func(i int) error {
			return a.Set(i*i, i)
		})
		require.NoError(t, err)
		require.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49}, a.Data(), spaceName(s))
	}
}

func TestForEachChunkOrder(t *testing.T) {
	// Within a chunk indices must be visited in increasing order. Each chunk
	// records its own sequence, so no locking is needed.
	p := NewPool(4, nil)
	defer p.Close()

	n := 103
	chunks := policy.Chunks(n, p.Concurrency())
	seqs := make([][]int, len(chunks))
	owner := make([]int, n)
	for k, c := range chunks {
		for i := c.Start; i < c.End; i++ { owner[i] = k }
	}

	err := ForEach(p, policy.Range(n), func(i int) error {
		k := owner[i]
		seqs[k] = append(seqs[k], i)
		return nil
	})
	require.NoError(t, err)

	for k, c := range chunks {
		want := make([]int, 0, c.Len())
		for i := c.Start; i < c.End; i++ { want = append(want, i) }
		require.Equal(t, want, seqs[k], "chunk %d", k)
	}
}

func TestForEachNegativeRange(t *testing.T) {
	err := ForEach(Serial{ }, policy.Range(-1), func(int) error { return nil })
	require.ErrorIs(t, err, ErrBadRange)

	_, err = Reduce(Serial{ }, policy.Sum[int](-5),
		func(int) (int, error) { return 1, nil })
	require.ErrorIs(t, err, ErrBadRange)
}

func TestForEachFailure(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	errBoom := errors.New("boom")
	for _, s := range spaces {
		err := ForEach(s, policy.Range(100), func(i int) error {
			if i == 37 { return errBoom }
			return nil
		})
		require.ErrorIs(t, err, ErrDispatch, spaceName(s))
		require.ErrorIs(t, err, errBoom, spaceName(s))

		var de *DispatchError
		require.True(t, errors.As(err, &de))
		require.Equal(t, 37, de.Index)
	}
}

func TestForEachFirstErrorOnly(t *testing.T) {
	p := NewPool(4, nil)
	defer p.Close()

	// Every index fails. Exactly one error must come back, and the others
	// must not be joined into it.
	var calls int64
	err := ForEach(p, policy.Range(1000), func(i int) error {
		atomic.AddInt64(&calls, 1)
		return fmt.Errorf("index %d", i)
	})
	require.ErrorIs(t, err, ErrDispatch)

	var de *DispatchError
	require.True(t, errors.As(err, &de))
	require.Equal(t, fmt.Sprintf("index %d", de.Index), de.Err.Error())
	// Each chunk stops at its first failure.
	require.LessOrEqual(t, atomic.LoadInt64(&calls), int64(p.Concurrency()))
}

func TestForEachPanic(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		err := ForEach(s, policy.Range(50), func(i int) error {
			if i == 12 { panic("bad index") }
			return nil
		})
		require.ErrorIs(t, err, ErrDispatch, spaceName(s))

		var pe *PanicError
		require.True(t, errors.As(err, &pe))
		require.Equal(t, "bad index", pe.Value)

		var de *DispatchError
		require.True(t, errors.As(err, &de))
		require.Equal(t, 12, de.Index)
	}
}

func TestForEachOutOfRangeWrite(t *testing.T) {
	a, _ := array.New[float64](10)
	p := NewPool(2, nil)
	defer p.Close()

	err := ForEach(p, policy.Range(11), func(i int) error {
		return a.Set(1, i)
	})
	require.ErrorIs(t, err, ErrDispatch)
	require.ErrorIs(t, err, array.ErrOutOfRange)
}

func TestReduceScenario(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		add := func(a, b int) int { return a + b }
		sum, err := Reduce(s, policy.ReduceRange(5, 0, add),
			func(i int) (int, error) { return i, nil })
		require.NoError(t, err)
		require.Equal(t, 10, sum, spaceName(s))
	}
}

func TestReduceEmpty(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		called := false
		x, err := Reduce(s, policy.ReduceRange(0, 42, func(a, b int) int { return a * b }),
			func(int) (int, error) {
				called = true
				return 0, nil
			})
		require.NoError(t, err)
		require.Equal(t, 42, x)
		require.False(t, called)
	}
}

func TestReduceMatchesFold(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	work := func(i int) (int64, error) { return int64(i*i%97 - 40), nil }
	reducers := []struct{
		name string
		p func(n int) policy.ReducePolicy[int64]
	} {
		{"sum", policy.Sum[int64]},
		{"max", policy.Max[int64]},
		{"min", policy.Min[int64]},
		{"xor", func(n int) policy.ReducePolicy[int64] {
			return policy.ReduceRange(n, int64(0),
				func(a, b int64) int64 { return a ^ b })
		}},
	}

	for _, r := range reducers {
		for _, n := range testSizes {
			p := r.p(n)
			want := p.Identity
			for i := 0; i < n; i++ {
				x, _ := work(i)
				want = p.Combine(want, x)
			}

			for _, s := range spaces {
				got, err := Reduce(s, p, work)
				require.NoError(t, err)
				require.Equal(t, want, got, "%s %s N=%d", r.name, spaceName(s), n)
			}
		}
	}
}

func TestReduceFloatSum(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	n := 10000
	x := make([]float64, n)
	for i := range x { x[i] = 1 / float64(i + 1) }
	want := floats.Sum(x)

	for _, s := range spaces {
		got, err := Reduce(s, policy.Sum[float64](n),
			func(i int) (float64, error) { return x[i], nil })
		require.NoError(t, err)
		// Only reordering-level differences are allowed.
		require.True(t, scalar.EqualWithinAbsOrRel(want, got, 1e-12, 1e-12),
			"%s: want %g, got %g", spaceName(s), want, got)
	}
}

func TestReduceDeterministic(t *testing.T) {
	p := NewPool(5, nil)
	defer p.Close()

	n := 12345
	work := func(i int) (float64, error) { return 1 / float64(i + 1), nil }
	first, err := Reduce(p, policy.Sum[float64](n), work)
	require.NoError(t, err)
	for trial := 0; trial < 20; trial++ {
		got, err := Reduce(p, policy.Sum[float64](n), work)
		require.NoError(t, err)
		require.Equal(t, first, got, "trial %d", trial)
	}
}

func TestReduceFailure(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	errBoom := errors.New("boom")
	for _, s := range spaces {
		x, err := Reduce(s, policy.Sum[int](64), func(i int) (int, error) {
			if i == 63 { return 0, errBoom }
			return 1, nil
		})
		require.ErrorIs(t, err, ErrDispatch)
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, 0, x, spaceName(s))
	}
}

func TestReduceNilCombine(t *testing.T) {
	_, err := Reduce(Serial{ }, policy.ReducePolicy[int]{ N: 3 },
		func(int) (int, error) { return 1, nil })
	require.ErrorIs(t, err, ErrBadPolicy)
}

func TestForEachMD(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		a, _ := array.New[int32](3, 4, 5)
		err := ForEachMD(s, policy.MDRange(3, 4, 5), func(idx []int) error {
			p, err := a.Ptr(idx...)
			if err != nil { return err }
			*p += int32(100*idx[0] + 10*idx[1] + idx[2]) + 1
			return nil
		})
		require.NoError(t, err)

		for off, x := range a.Data() {
			idx := make([]int, 3)
			a.Shape().Index(off, idx)
			require.Equal(t, int32(100*idx[0] + 10*idx[1] + idx[2]) + 1, x,
				"%s offset %d", spaceName(s), off)
		}

		require.NoError(t, ForEachMD(s, policy.MDRange(3, 0),
			func([]int) error { return errors.New("never called") }))
		require.ErrorIs(t, ForEachMD(s, policy.MDRange(-1, 2),
			func([]int) error { return nil }), ErrBadRange)
	}
}

func TestForEachMDOverflow(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		var calls int64
		err := ForEachMD(s, policy.MDRange(1 << 32, 1 << 32), func([]int) error {
			atomic.AddInt64(&calls, 1)
			return nil
		})
		require.ErrorIs(t, err, ErrBadRange, spaceName(s))
		require.Zero(t, atomic.LoadInt64(&calls))
	}
}

func TestScan(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	for _, s := range spaces {
		for _, n := range testSizes {
			out := make([]int, n)
			var calls int64
			total, err := Scan(s, policy.Sum[int](n), func(i int) (int, error) {
				atomic.AddInt64(&calls, 1)
				return i + 1, nil
			}, out)
			require.NoError(t, err)
			require.Equal(t, int64(n), calls, "work must run once per index")
			require.Equal(t, n*(n+1)/2, total)
			for i := range out {
				require.Equal(t, i*(i+1)/2, out[i], "%s N=%d i=%d", spaceName(s), n, i)
			}
		}
	}
}

func TestScanFloat(t *testing.T) {
	spaces := testSpaces()
	defer closeAll(spaces)

	n := 1000
	want := make([]float64, n)
	for i := 1; i < n; i++ { want[i] = want[i-1] + 1/float64(i) }

	for _, s := range spaces {
		out := make([]float64, n)
		_, err := Scan(s, policy.Sum[float64](n), func(i int) (float64, error) {
			return 1/float64(i + 1), nil
		}, out)
		require.NoError(t, err)
		require.True(t, eq.SlicesEps(want, out, 1e-12), spaceName(s))
	}
}

func TestScanErrors(t *testing.T) {
	_, err := Scan(Serial{ }, policy.Sum[int](5),
		func(int) (int, error) { return 1, nil }, make([]int, 4))
	require.ErrorIs(t, err, ErrBadPolicy)

	p := NewPool(3, nil)
	defer p.Close()
	_, err = Scan(p, policy.Sum[int](30), func(i int) (int, error) {
		if i == 20 { return 0, errors.New("boom") }
		return 1, nil
	}, make([]int, 30))
	require.ErrorIs(t, err, ErrDispatch)
}
