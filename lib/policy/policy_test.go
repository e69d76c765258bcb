package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	tests := []struct{
		n, workers int
		chunks []Chunk
	} {
		{0, 4, nil},
		{-3, 4, nil},
		{1, 4, []Chunk{{0, 1}}},
		{4, 4, []Chunk{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{10, 4, []Chunk{{0, 3}, {3, 6}, {6, 9}, {9, 10}}},
		{9, 4, []Chunk{{0, 3}, {3, 6}, {6, 9}}},
		{5, 1, []Chunk{{0, 5}}},
		{5, 0, []Chunk{{0, 5}}},
		{3, 8, []Chunk{{0, 1}, {1, 2}, {2, 3}}},
	}

	for i := range tests {
		got := Chunks(tests[i].n, tests[i].workers)
		require.Equal(t, len(tests[i].chunks), len(got), "case %d", i)
		for j := range got {
			require.Equal(t, tests[i].chunks[j], got[j], "case %d chunk %d", i, j)
		}
	}
}

func TestChunksCover(t *testing.T) {
	for n := 0; n < 200; n++ {
		for workers := 1; workers <= 17; workers++ {
			chunks := Chunks(n, workers)
			require.LessOrEqual(t, len(chunks), workers)

			next := 0
			for _, c := range chunks {
				require.Equal(t, next, c.Start, "n=%d workers=%d", n, workers)
				require.Greater(t, c.Len(), 0)
				next = c.End
			}
			require.Equal(t, n, next, "n=%d workers=%d", n, workers)
		}
	}
}

func TestReducers(t *testing.T) {
	sum := Sum[int](5)
	require.Equal(t, 0, sum.Identity)
	require.Equal(t, 7, sum.Combine(3, 4))

	prod := Prod[float64](5)
	require.Equal(t, 1.0, prod.Identity)
	require.Equal(t, 12.0, prod.Combine(3, 4))

	require.Equal(t, math.Inf(1), Min[float64](1).Identity)
	require.Equal(t, math.Inf(-1), Max[float64](1).Identity)
	require.Equal(t, int32(math.MaxInt32), Min[int32](1).Identity)
	require.Equal(t, int8(math.MinInt8), Max[int8](1).Identity)
	require.Equal(t, uint16(math.MaxUint16), Min[uint16](1).Identity)
	require.Equal(t, uint64(0), Max[uint64](1).Identity)

	require.Equal(t, 2, Min[int](2).Combine(2, 9))
	require.Equal(t, 9, Max[int](2).Combine(2, 9))

	// Identities really are identities.
	for _, x := range []float64{-1e300, -1, 0, 3.5, 1e300} {
		require.Equal(t, x, Min[float64](1).Combine(Min[float64](1).Identity, x))
		require.Equal(t, x, Max[float64](1).Combine(Max[float64](1).Identity, x))
	}
}

func TestPolicies(t *testing.T) {
	require.Equal(t, 7, Range(7).N)
	require.Equal(t, 5, ReduceRange(5, 0, func(a, b int) int { return a + b }).N)

	ext := []int{2, 3, 4}
	md := MDRange(ext...)
	ext[0] = 100
	require.Equal(t, 24, md.N())
	require.Equal(t, 0, MDRange(2, 0).N())
	require.Equal(t, -1, MDRange(2, -1).N())
	require.Equal(t, 1, MDRange().N())
}

func TestMDRangeOverflow(t *testing.T) {
	require.Equal(t, -1, MDRange(1 << 32, 1 << 32).N())
	require.Equal(t, -1, MDRange(math.MaxInt, 2).N())
	require.Equal(t, 0, MDRange(1 << 32, 1 << 32, 0).N())
	require.Equal(t, math.MaxInt, MDRange(math.MaxInt, 1).N())
}
