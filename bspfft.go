// Package bspfft computes the discrete Fourier transform of a complex
// vector of length n = 2^m distributed cyclically over p = 2^q
// processors of a bulk-synchronous-parallel process group, with p < n
// unless both are 1. The algorithm follows the bspedupack scheme:
// an unordered local transform of size k1, then O(log(p/k1)) supersteps
// of redistribution, twiddle correction and an unordered local
// transform of size n/p.
//
// All precondition violations are fatal and terminate the entire
// process group through the bsp abort primitive; a partially completed
// distributed transform has no defined semantics.
package bspfft

import (
	"fmt"

	"github.com/bspkit/go-bsp-fft/bsp"
	"github.com/bspkit/go-bsp-fft/internal/fourier"
	"github.com/bspkit/go-bsp-fft/internal/utils"
)

// Direction selects between the forward transform and the inverse
// transform. Both share one control flow; the inverse conjugates every
// weight and scales the result by 1/n.
type Direction int

const (
	Forward Direction = iota
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// Transform holds the processor-private state of the distributed FFT:
// the bit-reversal permutations and weight tables derived from (n, p,
// rank) at initialization. The tables are immutable between
// initializations; the distributed vector itself is owned by the caller
// and mutated in place.
//
// Every processor of the group must construct its Transform
// collectively and with the same n.
type Transform struct {
	world *bsp.World

	n  int // global transform length
	p  int // processors in the group
	s  int // this processor's rank
	np int // local elements, n/p
	k1 int // butterfly size of the first local pass

	w0 []complex128 // k1/2 weights for the first local pass
	w  []complex128 // np/2 weights for the later local passes
	tw []complex128 // np twiddles per redistribution superstep

	rhoNp []int // bit-reversal permutation of length np
	rhoP  []int // bit-reversal permutation of length p

	backend KernelBackend
	plans   *kernelPlans
	bound   *complex128 // first element of the buffer the plans were built on
}

// New initializes a Transform of length n using the pure-Go local
// kernel. n and the group size must be powers of two with p < n (p == n
// is only allowed in the degenerate n = 1 case); violations abort the
// process group.
func New(world *bsp.World, n int) *Transform {
	return NewWithKernel(world, n, nil)
}

// NewWithKernel initializes a Transform whose local butterfly passes
// are executed by the given batched kernel backend instead of the
// pure-Go kernel. BindKernel must be called on the data buffer before
// the first transform.
func NewWithKernel(world *bsp.World, n int, backend KernelBackend) *Transform {
	t := &Transform{
		world:   world,
		p:       world.Size(),
		s:       world.Rank(),
		backend: backend,
	}
	t.init(n)
	return t
}

// Reinitialize rebuilds all tables for a new transform length. Any
// bound kernel plans are invalidated; call BindKernel again before
// transforming with a backend.
func (t *Transform) Reinitialize(n int) {
	t.init(n)
	t.plans = nil
	t.bound = nil
}

// Length returns the global transform length n.
func (t *Transform) Length() int {
	return t.n
}

func (t *Transform) init(n int) {
	if !utils.IsPowerOfTwo(uint64(n)) || !utils.IsPowerOfTwo(uint64(t.p)) {
		t.world.Abort(fmt.Errorf("%w: n=%d, p=%d", ErrNotPowerOfTwo, n, t.p))
	}
	if t.p > n || (t.p == n && n > 1) {
		t.world.Abort(fmt.Errorf("%w: n=%d, p=%d", ErrTooManyProcs, n, t.p))
	}

	t.n = n
	t.np = n / t.p

	// k1 is the largest butterfly size usable in the first local pass:
	// k1 = n/c with c the smallest power of np that is at least p.
	// Note np >= 2 whenever p > 1, so this terminates.
	c := 1
	for c < t.p {
		c *= t.np
	}
	t.k1 = n / c

	t.rhoNp = fourier.Permutation(t.np)
	t.rhoP = fourier.Permutation(t.p)
	t.w0 = fourier.Weights(t.k1)
	t.w = fourier.Weights(t.np)

	// One block of np twiddles per redistribution superstep, keyed to
	// this processor's residue within the superstep's cycle.
	t.tw = t.tw[:0]
	if t.n > 1 {
		for c = t.k1; c <= t.p; c *= t.np {
			alpha := float64(t.s%c) / float64(c)
			t.tw = append(t.tw, fourier.TwiddleWeights(t.np, t.rhoNp, alpha)...)
		}
	}
}
