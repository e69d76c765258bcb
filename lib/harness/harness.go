/*package harness times the parallel kernels over a doubling sequence of
problem sizes. For every size it builds an array, fills it with a parallel
for-each, sums it with a parallel reduction, checks the sum, and records how
long each phase took.
*/
package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/parkit/lib/array"
	"github.com/phil-mansfield/parkit/lib/mpi"
	"github.com/phil-mansfield/parkit/lib/parallel"
	"github.com/phil-mansfield/parkit/lib/policy"
)

var (
	// ErrVerify is returned when a reduction doesn't produce the expected sum.
	ErrVerify = errors.New("harness: reduction result is wrong")
	// ErrRemote marks a size which failed on some other rank.
	ErrRemote = errors.New("harness: size failed on another rank")
)

// unitRoundoff is half the gap between 1 and the next float64.
const unitRoundoff = 0x1p-53

// verifyTol returns the relative tolerance of the sum check for n elements.
// Above 2^26 elements the partial sums no longer fit exactly in a float64.
// Summing n non-negative values in any grouping has a relative error of at
// most about (n-1) unit roundoffs, so the tolerance is twice that.
func verifyTol(n int) float64 {
	return math.Max(2*float64(n)*unitRoundoff, 1e-12)
}

// Phase names a timed section of a benchmark.
type Phase string
const (
	InitPhase Phase = "init"
	ReducePhase Phase = "reduce"
)

// TimingSample is one timed run of one phase.
type TimingSample struct {
	Phase   Phase
	Size    int
	Repeat  int
	Start   time.Time
	Elapsed time.Duration
}

// Row is one line of the timing table. Times are in milliseconds and are the
// mean over repeats of the slowest rank.
type Row struct {
	Exponent, Size int
	Init, Reduce, Total float64
	InitStdDev, ReduceStdDev float64
	// Err is non-nil if this size failed. The times are then meaningless.
	Err error
}

func (r Row) Failed() bool { return r.Err != nil }

// Report is the result of a full benchmark.
type Report struct {
	Space   string
	Threads int
	Ranks   int
	Repeats int
	Rows    []Row
	Samples []TimingSample
}

// Communicator is the part of MPI the harness needs. *mpi.Comm implements it.
type Communicator interface {
	Rank() int
	Size() int
	Barrier() error
	AllreduceMax(x []float64) error
}

// Harness runs benchmarks. Only Space is required.
type Harness struct {
	Space parallel.Space
	// Comm defaults to mpi.World.
	Comm Communicator
	// Repeats is the number of times each phase is run per size.
	Repeats int
	Log *slog.Logger
	// Value gives the element written at index i by the init phase. It
	// defaults to float64(i).
	Value func(i int) (float64, error)
	// Expected gives the correct sum for n elements. It defaults to
	// n(n-1)/2.
	Expected func(n int) float64
}

func (h *Harness) setDefaults() {
	if h.Comm == nil { h.Comm = mpi.World }
	if h.Repeats < 1 { h.Repeats = 1 }
	if h.Log == nil { h.Log = slog.Default() }
	if h.Value == nil {
		h.Value = func(i int) (float64, error) { return float64(i), nil }
	}
	if h.Expected == nil {
		h.Expected = func(n int) float64 {
			return float64(n) * float64(n - 1) / 2
		}
	}
}

// Run benchmarks every size 2^e in exponents, in order. A failure in one size
// is recorded in its row and doesn't stop later sizes. The returned error is
// only non-nil if communication between ranks fails. Every rank must call Run
// with the same exponents.
func (h *Harness) Run(exponents []int) (*Report, error) {
	if h.Space == nil {
		return nil, fmt.Errorf("harness: no execution space")
	}
	h.setDefaults()

	report := &Report{
		Space: h.Space.Name(), Threads: h.Space.Concurrency(),
		Ranks: h.Comm.Size(), Repeats: h.Repeats,
	}

	for _, e := range exponents {
		if err := h.Comm.Barrier(); err != nil { return nil, err }

		n := 1 << e
		samples, err := h.runSize(n)
		row, err := h.summarize(e, n, samples, err)
		if err != nil { return nil, err }

		if row.Failed() {
			h.Log.Warn("benchmark size failed", "size", n, "err", row.Err)
		} else {
			h.Log.Debug("benchmark size finished", "size", n,
				"init_ms", row.Init, "reduce_ms", row.Reduce)
		}

		report.Rows = append(report.Rows, row)
		report.Samples = append(report.Samples, samples...)
	}

	return report, nil
}

// runSize times every repeat of both phases for a single size. On failure it
// returns the samples taken before the failing phase.
func (h *Harness) runSize(n int) ([]TimingSample, error) {
	a, err := array.New[float64](n)
	if err != nil { return nil, err }

	samples := make([]TimingSample, 0, 2*h.Repeats)
	for r := 0; r < h.Repeats; r++ {
		start := time.Now()
		err = parallel.ForEach(h.Space, policy.Range(n), func(i int) error {
			v, err := h.Value(i)
			if err != nil { return err }
			return a.Set(v, i)
		})
		samples = append(samples, TimingSample{
			InitPhase, n, r, start, time.Since(start),
		})
		if err != nil { return samples, fmt.Errorf("init: %w", err) }

		start = time.Now()
		sum, err := parallel.Reduce(h.Space, policy.Sum[float64](n),
			func(i int) (float64, error) { return a.At(i) })
		samples = append(samples, TimingSample{
			ReducePhase, n, r, start, time.Since(start),
		})
		if err != nil { return samples, fmt.Errorf("reduce: %w", err) }

		want := h.Expected(n)
		if !scalar.EqualWithinAbsOrRel(sum, want, 0, verifyTol(n)) {
			return samples, fmt.Errorf("%w: sum of %d elements is %g, " +
				"expected %g", ErrVerify, n, sum, want)
		}
	}

	return samples, nil
}

// summarize turns one size's samples into a table row. Times are max-reduced
// across ranks first, along with a failure flag, so every rank ends up with
// the same row.
func (h *Harness) summarize(
	e, n int, samples []TimingSample, runErr error,
) (Row, error) {
	row := Row{ Exponent: e, Size: n }

	// Layout: init times, reduce times, failure flag.
	buf := make([]float64, 2*h.Repeats + 1)
	for _, s := range samples {
		ms := float64(s.Elapsed) / float64(time.Millisecond)
		switch s.Phase {
		case InitPhase: buf[s.Repeat] = ms
		case ReducePhase: buf[h.Repeats + s.Repeat] = ms
		}
	}
	if runErr != nil { buf[2*h.Repeats] = 1 }

	if err := h.Comm.AllreduceMax(buf); err != nil {
		return row, fmt.Errorf("could not reduce timings for size %d: %w",
			n, err)
	}

	switch {
	case runErr != nil:
		row.Err = runErr
		return row, nil
	case buf[2*h.Repeats] != 0:
		row.Err = ErrRemote
		return row, nil
	}

	initMs, reduceMs := buf[:h.Repeats], buf[h.Repeats:2*h.Repeats]
	row.Init, row.InitStdDev = meanStdDev(initMs)
	row.Reduce, row.ReduceStdDev = meanStdDev(reduceMs)
	row.Total = row.Init + row.Reduce
	return row, nil
}

func meanStdDev(x []float64) (mean, std float64) {
	if len(x) < 2 { return stat.Mean(x, nil), 0 }
	return stat.MeanStdDev(x, nil)
}
