package parallel

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines started once by NewPool. Tasks
// from Launch are handed to whichever worker is free. Several goroutines may
// call Launch at once; each call waits only for its own tasks.
//
// A task must not call Launch on the pool that is running it. Once every
// worker is blocked in such a call, nothing is left to run the inner tasks.
type Pool struct {
	threads int
	tasks   chan poolTask
	workers sync.WaitGroup
	closed  atomic.Bool
	log     *slog.Logger
}

var _ Space = &Pool{ }

// poolTask is one chunk of one Launch call.
type poolTask struct {
	chunk int
	fn    func(chunk int)
	done  *sync.WaitGroup
}

func (t poolTask) run() {
	defer t.done.Done()
	t.fn(t.chunk)
}

// NewPool starts a pool of threads workers. threads <= 0 means one per core.
func NewPool(threads int, logger *slog.Logger) *Pool {
	threads = Threads(threads)
	p := &Pool{
		threads: threads,
		tasks: make(chan poolTask, threads),
		log: loggerOrDefault(logger),
	}

	p.workers.Add(threads)
	for i := 0; i < threads; i++ {
		go p.work()
	}

	p.log.Debug("started worker pool", "threads", threads)
	return p
}

func (p *Pool) work() {
	defer p.workers.Done()
	for t := range p.tasks { t.run() }
}

func (p *Pool) Name() string { return PoolSpace }

func (p *Pool) Concurrency() int { return p.threads }

// Launch runs task(0), ..., task(n-1) on the pool's workers and waits for
// them. It panics if the pool has been closed.
func (p *Pool) Launch(n int, task func(chunk int)) {
	if p.closed.Load() {
		panic("parallel: Launch called on a closed Pool")
	}
	if n <= 0 { return }

	done := &sync.WaitGroup{ }
	done.Add(n)
	for c := 0; c < n; c++ {
		p.tasks <- poolTask{ c, task, done }
	}
	done.Wait()
}

// Close stops the workers after any queued tasks finish. It must not be
// called while a Launch is in progress. Calling it twice is harmless.
func (p *Pool) Close() error {
	if p.closed.Swap(true) { return nil }
	close(p.tasks)
	p.workers.Wait()
	p.log.Debug("stopped worker pool", "threads", p.threads)
	return nil
}
