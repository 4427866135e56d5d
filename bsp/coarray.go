package bsp

import (
	"fmt"
	"sync"
)

// coarrayRegistry matches up the per-processor halves of a coarray.
// Creation is collective: every processor must create its coarrays in
// the same order, and the n-th creation on each processor refers to the
// same distributed array.
type coarrayRegistry struct {
	mu    sync.Mutex
	slots []any
}

// coshared is the group-wide half of a coarray: one local slice per
// processor.
type coshared[T any] struct {
	length int
	locals [][]T
}

// Coarray is a distributed array: every processor owns a local slice of
// the same length and may write contiguous ranges into any other
// processor's slice. Remote writes are buffered and become visible only
// after the barrier that follows them.
type Coarray[T any] struct {
	world  *World
	shared *coshared[T]
}

// NewCoarray collectively creates a coarray with `length` local
// elements per processor. All processors of the group must call it, in
// the same creation order relative to their other coarrays, with the
// same element type and length.
func NewCoarray[T any](w *World, length int) *Coarray[T] {
	id := w.coarrayID
	w.coarrayID++

	reg := &w.group.registry
	reg.mu.Lock()
	for len(reg.slots) <= id {
		reg.slots = append(reg.slots, nil)
	}
	if reg.slots[id] == nil {
		reg.slots[id] = &coshared[T]{
			length: length,
			locals: make([][]T, w.group.size),
		}
	}
	shared, ok := reg.slots[id].(*coshared[T])
	reg.mu.Unlock()

	if !ok {
		w.Abortf("bsp: coarray %d created with mismatched element types across processors", id)
	}
	if shared.length != length {
		w.Abortf("bsp: coarray %d created with local length %d on processor %d, %d elsewhere",
			id, length, w.rank, shared.length)
	}

	shared.locals[w.rank] = make([]T, length)
	return &Coarray[T]{world: w, shared: shared}
}

// Local returns the calling processor's slice of the coarray.
func (c *Coarray[T]) Local() []T {
	return c.shared.locals[c.world.rank]
}

// Len returns the local length, which is the same on every processor.
func (c *Coarray[T]) Len() int {
	return c.shared.length
}

// Put issues a remote write of values into processor proc's local slice
// at [offset, offset+len(values)). The values are captured at call time,
// so the caller may reuse its buffer immediately; the destination
// observes the write only after the next barrier. The caller must
// guarantee that no two processors write the same destination slot in
// the same superstep.
func (c *Coarray[T]) Put(proc, offset int, values []T) {
	w := c.world
	if proc < 0 || proc >= w.group.size {
		w.Abort(fmt.Errorf("bsp: put targets processor %d of %d", proc, w.group.size))
	}
	if offset < 0 || offset+len(values) > c.shared.length {
		w.Abort(fmt.Errorf("bsp: put of %d elements at offset %d exceeds local length %d",
			len(values), offset, c.shared.length))
	}

	buffered := make([]T, len(values))
	copy(buffered, values)

	// The destination slice header is resolved at delivery time, under
	// the barrier lock, so creation on the owning processor is always
	// ordered before the first delivery into it.
	shared := c.shared
	w.group.barrier.enqueue(func() {
		copy(shared.locals[proc][offset:], buffered)
	})
}
