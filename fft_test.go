package bspfft_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	bspfft "github.com/bspkit/go-bsp-fft"
	"github.com/bspkit/go-bsp-fft/bsp"
	"github.com/stretchr/testify/require"
)

// quietLogger keeps expected abort diagnostics out of the test output.
type quietLogger struct{}

func (quietLogger) Printf(format string, args ...any) {}

func quietEnv() bsp.Environment {
	return bsp.Environment{Logger: quietLogger{}}
}

// runTransform spawns a process group of size p, distributes input
// cyclically, runs ops on every processor and gathers the result back
// into natural order.
func runTransform(t *testing.T, n, p int, input []complex128, ops func(tr *bspfft.Transform, xs *bspfft.Vector)) []complex128 {
	t.Helper()
	require.Len(t, input, n)

	output := make([]complex128, n)
	env := quietEnv()
	err := env.Spawn(p, func(w *bsp.World) error {
		np := n / p
		xs := bspfft.NewVector(w, np)
		local := xs.Local()
		for j := 0; j < np; j++ {
			local[j] = input[j*p+w.Rank()]
		}
		w.Sync()

		tr := bspfft.New(w, n)
		ops(tr, xs)
		w.Sync()

		for j := 0; j < np; j++ {
			output[j*p+w.Rank()] = local[j]
		}
		return nil
	})
	require.NoError(t, err)
	return output
}

func referenceDFT(xs []complex128, inverse bool) []complex128 {
	n := len(xs)
	sign := -1.0
	if inverse {
		sign = 1.0
	}

	ys := make([]complex128, n)
	for k := 0; k < n; k++ {
		var acc complex128
		for j := 0; j < n; j++ {
			theta := sign * 2 * math.Pi * float64(k) * float64(j) / float64(n)
			acc += xs[j] * cmplx.Rect(1, theta)
		}
		if inverse {
			acc /= complex(float64(n), 0)
		}
		ys[k] = acc
	}
	return ys
}

func rampInput(n int) []complex128 {
	xs := make([]complex128, n)
	for j := range xs {
		xs[j] = complex(float64(j), 1)
	}
	return xs
}

func randomInput(n int, seed int64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	xs := make([]complex128, n)
	for j := range xs {
		xs[j] = complex(rng.Float64()-0.5, rng.Float64()-0.5)
	}
	return xs
}

func requireVectorsClose(t *testing.T, expected, got []complex128, tol float64) {
	t.Helper()
	require.Equal(t, len(expected), len(got))
	for j := range expected {
		require.InDelta(t, real(expected[j]), real(got[j]), tol, "real part of element %d", j)
		require.InDelta(t, imag(expected[j]), imag(got[j]), tol, "imaginary part of element %d", j)
	}
}

func TestForwardMatchesReferenceDFT(t *testing.T) {
	cases := []struct{ n, p int }{
		{4, 2},
		{8, 1},
		{8, 2},
		{16, 2},
		{16, 4},
		{16, 8},
		{64, 4},
		{128, 8},
	}
	for _, tc := range cases {
		input := randomInput(tc.n, int64(tc.n*31+tc.p))
		expected := referenceDFT(input, false)

		got := runTransform(t, tc.n, tc.p, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
			tr.Forward(xs)
		})
		requireVectorsClose(t, expected, got, 1e-9)
	}
}

func TestInverseMatchesReferenceDFT(t *testing.T) {
	input := randomInput(64, 99)
	expected := referenceDFT(input, true)

	got := runTransform(t, 64, 4, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
		tr.Inverse(xs)
	})
	requireVectorsClose(t, expected, got, 1e-9)
}

// The classic acceptance scenario: x[j] = j + i for n=8, p=2. The DC
// component of the spectrum is the sum of all inputs, 28 + 8i, and a
// subsequent inverse recovers the ramp.
func TestRampScenario(t *testing.T) {
	input := rampInput(8)

	spectrum := runTransform(t, 8, 2, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
		tr.Forward(xs)
	})
	require.InDelta(t, 28, real(spectrum[0]), 1e-9)
	require.InDelta(t, 8, imag(spectrum[0]), 1e-9)

	roundTrip := runTransform(t, 8, 2, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
		tr.Forward(xs)
		tr.Inverse(xs)
	})
	requireVectorsClose(t, input, roundTrip, 1e-9)
}

func TestLengthOneIsIdentity(t *testing.T) {
	input := []complex128{3 - 2i}

	got := runTransform(t, 1, 1, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
		tr.Forward(xs)
		tr.Inverse(xs)
	})
	require.Equal(t, input, got)

	forwardOnly := runTransform(t, 1, 1, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
		tr.Forward(xs)
	})
	require.Equal(t, input, forwardOnly)
}

func TestRoundTripMultiSuperstep(t *testing.T) {
	// n=16, p=8 runs three redistribution supersteps (k1=2, np=2).
	input := randomInput(16, 5)
	got := runTransform(t, 16, 8, input, func(tr *bspfft.Transform, xs *bspfft.Vector) {
		tr.Forward(xs)
		tr.Inverse(xs)
	})
	requireVectorsClose(t, input, got, 1e-9)
}

func TestReinitialize(t *testing.T) {
	const p = 2
	env := quietEnv()
	err := env.Spawn(p, func(w *bsp.World) error {
		tr := bspfft.New(w, 8)

		tr.Reinitialize(32)
		xs := bspfft.NewVector(w, 32/p)
		local := xs.Local()
		for j := range local {
			local[j] = complex(float64(j*p+w.Rank()), 1)
		}
		w.Sync()

		tr.Forward(xs)
		tr.Inverse(xs)
		w.Sync()

		for j := range local {
			want := complex(float64(j*p+w.Rank()), 1)
			if cmplx.Abs(local[j]-want) > 1e-9 {
				w.Abortf("round trip after reinitialize diverged at local %d", j)
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestWrongLocalLengthAborts(t *testing.T) {
	env := quietEnv()
	err := env.Spawn(2, func(w *bsp.World) error {
		xs := bspfft.NewVector(w, 5) // n/p would be 4
		w.Sync()
		tr := bspfft.New(w, 8)
		tr.Forward(xs)
		return nil
	})
	require.ErrorIs(t, err, bsp.ErrAborted)
	require.ErrorIs(t, err, bspfft.ErrSliceLength)
}

func TestNonPowerOfTwoLengthAborts(t *testing.T) {
	env := quietEnv()
	err := env.Spawn(2, func(w *bsp.World) error {
		bspfft.New(w, 12)
		return nil
	})
	require.ErrorIs(t, err, bspfft.ErrNotPowerOfTwo)
}

func TestNonPowerOfTwoProcsAborts(t *testing.T) {
	env := quietEnv()
	err := env.Spawn(3, func(w *bsp.World) error {
		bspfft.New(w, 16)
		return nil
	})
	require.ErrorIs(t, err, bspfft.ErrNotPowerOfTwo)
}

func TestProcessorCountBoundsAborts(t *testing.T) {
	env := quietEnv()
	err := env.Spawn(4, func(w *bsp.World) error {
		bspfft.New(w, 2)
		return nil
	})
	require.ErrorIs(t, err, bspfft.ErrTooManyProcs)

	err = env.Spawn(4, func(w *bsp.World) error {
		bspfft.New(w, 4) // p == n > 1 leaves no room for a local pass
		return nil
	})
	require.ErrorIs(t, err, bspfft.ErrTooManyProcs)
}
