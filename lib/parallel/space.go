/*package parallel runs data-parallel kernels. ForEach, ForEachMD, Reduce and
Scan take a policy from lib/policy and a per-index work function, split the
index range into contiguous chunks, and run the chunks on an execution Space.
Every call blocks until all of its chunks are finished.

Three spaces are provided: Pool, a fixed set of worker goroutines started
once; Serial, which runs everything on the calling goroutine; and Spawn,
which starts a goroutine per chunk. Pool is the one to use. Spawn exists so
the harness can measure what a persistent pool saves.
*/
package parallel

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Space is an execution space: something that can run n independent tasks
// and wait for all of them.
type Space interface {
	// Name returns the name NewSpace knows the space by.
	Name() string
	// Concurrency returns the number of tasks which may run at once. Dispatch
	// splits work into at most this many chunks.
	Concurrency() int
	// Launch runs task(0), ..., task(n-1) and returns once all of them have
	// returned. Tasks may run in any order and on any goroutine.
	Launch(n int, task func(chunk int))
	// Close releases the space's workers. The space can't be used afterwards.
	Close() error
}

// Names of the spaces NewSpace can build.
const (
	PoolSpace   = "pool"
	SerialSpace = "serial"
	SpawnSpace  = "spawn"
)

// NewSpace creates the named execution space with the given number of
// threads. threads <= 0 means one per core. Serial ignores threads.
func NewSpace(name string, threads int, logger *slog.Logger) (Space, error) {
	switch strings.ToLower(name) {
	case PoolSpace:
		return NewPool(threads, logger), nil
	case SerialSpace:
		return Serial{ }, nil
	case SpawnSpace:
		return NewSpawn(threads), nil
	}
	return nil, fmt.Errorf("%w '%s'; valid spaces are %s",
		ErrUnknownSpace, name, strings.Join(SpaceNames(), ", "))
}

// SpaceNames returns the names accepted by NewSpace, sorted.
func SpaceNames() []string {
	names := []string{ PoolSpace, SerialSpace, SpawnSpace }
	sort.Strings(names)
	return names
}

// Serial runs every task on the calling goroutine, in order.
type Serial struct{ }

var _ Space = Serial{ }

func (Serial) Name() string { return SerialSpace }
func (Serial) Concurrency() int { return 1 }
func (Serial) Close() error { return nil }

func (Serial) Launch(n int, task func(chunk int)) {
	for c := 0; c < n; c++ { task(c) }
}
