package bsp

import (
	"context"
	"sync"
)

// barrier is a reusable generation barrier. Remote writes issued during
// a superstep are queued on it and applied by the last processor to
// arrive, strictly after every member has stopped computing and
// strictly before any member is released. That gives the
// all-or-nothing visibility the BSP model promises without fine-grained
// locking: within a superstep nobody observes anybody else's writes.
type barrier struct {
	mu      sync.Mutex
	size    int
	count   int
	release chan struct{}
	pending []func()
}

func (b *barrier) init(size int) {
	b.size = size
	b.release = make(chan struct{})
}

// enqueue registers a buffered remote write for delivery at the next
// barrier.
func (b *barrier) enqueue(apply func()) {
	b.mu.Lock()
	b.pending = append(b.pending, apply)
	b.mu.Unlock()
}

// await blocks until all group members arrive, or until ctx is
// cancelled because the group is going down. The last arriver delivers
// the pending writes and opens a fresh generation before releasing the
// waiters, so a fast processor can already queue writes for the next
// superstep while stragglers are still waking up.
func (b *barrier) await(ctx context.Context) error {
	b.mu.Lock()
	release := b.release
	b.count++
	if b.count == b.size {
		for _, apply := range b.pending {
			apply()
		}
		b.pending = b.pending[:0]
		b.count = 0
		b.release = make(chan struct{})
		close(release)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
