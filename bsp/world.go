// Package bsp provides the bulk-synchronous-parallel process-group
// runtime consumed by the transform: rank/size queries, coarrays with
// buffered remote writes, a collective barrier and fail-fast group
// abort. The implementation runs the group in-process, one goroutine
// per processor, which is what the library's own tests and the
// benchmark harness use.
package bsp

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// ErrAborted is wrapped into every error produced by a group abort,
// whether raised explicitly through Abort or caused by a processor
// being interrupted at a barrier after another processor failed.
var ErrAborted = errors.New("bsp: process group aborted")

// Logger is the diagnostic sink of a process group. The stdlib logger
// satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Environment spawns process groups. The zero value is ready to use and
// logs through the stdlib default logger.
type Environment struct {
	Logger Logger
}

// World is the handle a processor holds on its process group. Exactly
// one World exists per processor; it is not safe to share a World
// between goroutines.
type World struct {
	group     *group
	rank      int
	coarrayID int
}

type group struct {
	size   int
	logger Logger
	ctx    context.Context

	barrier barrier

	abortErr chan error // buffered, capacity 1; first abort wins

	registry coarrayRegistry
}

// abortError carries a group-abort through the worker's stack; the
// spawn wrapper recovers it and turns it into the worker's return
// value. Any other panic is re-raised untouched.
type abortError struct {
	err error
}

// Spawn launches p identical workers sharing one process group and
// blocks until all of them have returned. The returned error is the
// abort diagnostic if the group was aborted, otherwise the first
// non-nil worker error.
func (e *Environment) Spawn(p int, f func(w *World) error) error {
	if p < 1 {
		return fmt.Errorf("bsp: cannot spawn %d processors", p)
	}

	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}

	eg, ctx := errgroup.WithContext(context.Background())
	g := &group{
		size:     p,
		logger:   logger,
		ctx:      ctx,
		abortErr: make(chan error, 1),
	}
	g.barrier.init(p)

	for s := 0; s < p; s++ {
		w := &World{group: g, rank: s}
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					ae, ok := r.(abortError)
					if !ok {
						panic(r)
					}
					err = ae.err
				}
			}()
			return f(w)
		})
	}

	err := eg.Wait()
	select {
	case abort := <-g.abortErr:
		return abort
	default:
		return err
	}
}

// Spawn is the package-level convenience for a default Environment.
func Spawn(p int, f func(w *World) error) error {
	env := Environment{}
	return env.Spawn(p, f)
}

// Rank returns the processor number, 0 <= Rank() < Size().
func (w *World) Rank() int {
	return w.rank
}

// Size returns the number of processors in the group.
func (w *World) Size() int {
	return w.group.size
}

// Logf writes a diagnostic line to the group's logger.
func (w *World) Logf(format string, args ...any) {
	w.group.logger.Printf(format, args...)
}

// Sync is the collective barrier: it blocks until every processor in
// the group has called it, at which point all remote writes issued
// before the barrier become visible to their destinations. If the
// group is aborted while waiting, Sync unwinds the worker with the
// abort diagnostic instead of returning.
func (w *World) Sync() {
	if err := w.group.barrier.await(w.group.ctx); err != nil {
		panic(abortError{fmt.Errorf("%w: processor %d interrupted at barrier: %w", ErrAborted, w.rank, err)})
	}
}

// Serially runs f on every processor in rank order, with a barrier
// between turns. Used for setup steps that are not safe to perform
// concurrently across processors, such as kernel plan creation.
func (w *World) Serially(f func()) {
	for s := 0; s < w.group.size; s++ {
		if s == w.rank {
			f()
		}
		w.Sync()
	}
}

// Abort terminates the entire process group with err as diagnostic.
// It never returns: the calling worker unwinds immediately and every
// other processor is released from its next (or current) barrier wait.
func (w *World) Abort(err error) {
	err = fmt.Errorf("%w on processor %d: %w", ErrAborted, w.rank, err)
	w.group.logger.Printf("%v", err)
	select {
	case w.group.abortErr <- err:
	default:
	}
	panic(abortError{err})
}

// Abortf is Abort with a formatted message.
func (w *World) Abortf(format string, args ...any) {
	w.Abort(fmt.Errorf(format, args...))
}
