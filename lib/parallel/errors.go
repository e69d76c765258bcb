package parallel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrDispatch is matched by every error caused by a failing work item.
	ErrDispatch = errors.New("parallel: dispatch failed")
	// ErrBadRange is returned when a policy has a negative index range.
	ErrBadRange = errors.New("parallel: negative iteration range")
	// ErrBadPolicy is returned for policies which can't be run for some other
	// reason, like a missing combine function.
	ErrBadPolicy = errors.New("parallel: invalid policy")
	// ErrUnknownSpace is returned by NewSpace for names it doesn't know.
	ErrUnknownSpace = errors.New("parallel: unknown execution space")
)

// DispatchError is the first failure seen during a dispatch. It matches both
// ErrDispatch and the work item's own error under errors.Is.
type DispatchError struct {
	// Index is the iteration index whose work item failed.
	Index int
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: work item %d: %s", ErrDispatch.Error(), e.Index, e.Err)
}

func (e *DispatchError) Unwrap() []error { return []error{ ErrDispatch, e.Err } }

// PanicError wraps a value recovered from a panicking work item.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// failure collects the first error from the workers of one dispatch. Later
// errors are dropped. Workers poll stopped so they can quit their chunks
// early once something has gone wrong.
type failure struct {
	stopped atomic.Bool
	once    sync.Once
	err     error
}

func (f *failure) set(i int, err error) {
	f.once.Do(func() {
		f.err = &DispatchError{ Index: i, Err: err }
		f.stopped.Store(true)
	})
}

// catch is deferred by every chunk. *i is the index being worked on when
// the panic happened.
func (f *failure) catch(i *int) {
	if r := recover(); r != nil {
		f.set(*i, &PanicError{ r })
	}
}

func badRange(n int) error {
	return fmt.Errorf("%w: N = %d", ErrBadRange, n)
}
