package parallel

import (
	"golang.org/x/sync/errgroup"
)

// Spawn starts a new goroutine for every task, with at most threads of them
// running at once.
type Spawn struct {
	threads int
}

var _ Space = &Spawn{ }

// NewSpawn creates a Spawn space. threads <= 0 means one per core.
func NewSpawn(threads int) *Spawn {
	return &Spawn{ Threads(threads) }
}

func (s *Spawn) Name() string { return SpawnSpace }
func (s *Spawn) Concurrency() int { return s.threads }
func (s *Spawn) Close() error { return nil }

func (s *Spawn) Launch(n int, task func(chunk int)) {
	var g errgroup.Group
	g.SetLimit(s.threads)
	for c := 0; c < n; c++ {
		c := c
		g.Go(func() error {
			task(c)
			return nil
		})
	}
	// Tasks report failures through the dispatcher, never through the group.
	_ = g.Wait()
}
