package bspfft

import (
	"fmt"

	"github.com/bspkit/go-bsp-fft/bsp"
	"github.com/bspkit/go-bsp-fft/internal/fourier"
)

// Vector is the distributed complex vector a Transform operates on: a
// coarray with n/p local elements per processor, cyclically
// distributed so that global index j lives on processor j mod p at
// local offset j div p. Transforms consume and produce this exact
// distribution.
type Vector = bsp.Coarray[complex128]

// NewVector collectively creates a distributed vector with `length`
// local elements per processor.
func NewVector(w *bsp.World, length int) *Vector {
	return bsp.NewCoarray[complex128](w, length)
}

// Forward computes the discrete Fourier transform of xs in place:
// y[k] = sum_{j=0}^{n-1} exp(-2*pi*i*k*j/n) * x[j].
func (t *Transform) Forward(xs *Vector) {
	t.transform(xs, Forward)
}

// Inverse computes the inverse transform of xs in place:
// y[k] = (1/n) * sum_{j=0}^{n-1} exp(+2*pi*i*k*j/n) * x[j].
// A Forward followed by an Inverse reproduces the input up to rounding.
func (t *Transform) Inverse(xs *Vector) {
	t.transform(xs, Inverse)
}

func (t *Transform) transform(xs *Vector, dir Direction) {
	local := xs.Local()
	if len(local) != t.np {
		t.world.Abort(fmt.Errorf("%w: got %d, want %d/%d = %d",
			ErrSliceLength, len(local), t.n, t.p, t.np))
	}
	if t.backend != nil {
		if t.plans == nil {
			t.world.Abort(fmt.Errorf("%w: call BindKernel after NewWithKernel", ErrKernelNotBound))
		}
		if t.bound != &local[0] {
			t.world.Abort(fmt.Errorf("%w", ErrKernelBufferMoved))
		}
	}

	// Length-1 transform is the identity.
	if t.n == 1 {
		return
	}

	conjugate := dir == Inverse

	fourier.Permute(local, t.rhoNp)

	// First pass: np/k1 unordered transforms of size k1. A bound
	// kernel computes ordered batches, so the bit-reversal of each
	// chunk (rhoP, since k1 == p whenever a kernel is bound) is
	// applied up front.
	if t.backend != nil {
		for r := 0; r < t.np/t.k1; r++ {
			fourier.Permute(local[r*t.k1:(r+1)*t.k1], t.rhoP)
		}
		t.execute(t.plans.batch(dir))
	} else {
		for r := 0; r < t.np/t.k1; r++ {
			fourier.UnorderedFFT(local[r*t.k1:(r+1)*t.k1], t.w0, conjugate)
		}
	}

	c0 := 1
	reversed := true
	tw := t.tw
	for c := t.k1; c <= t.p; c *= t.np {
		t.redistribute(xs, c0, c, reversed)
		reversed = false
		c0 = c

		fourier.TwiddleMul(local, tw[:t.np], conjugate)
		tw = tw[t.np:]

		if t.backend != nil {
			fourier.Permute(local, t.rhoNp)
			t.execute(t.plans.long(dir))
		} else {
			fourier.UnorderedFFT(local, t.w, conjugate)
		}
	}

	if dir == Inverse {
		fourier.Scale(local, 1/float64(t.n))
	}
}

func (t *Transform) execute(plan KernelPlan) {
	if err := plan.Execute(); err != nil {
		t.world.Abort(fmt.Errorf("bspfft: kernel execution failed: %w", err))
	}
}
