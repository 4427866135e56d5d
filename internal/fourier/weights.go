package fourier

import (
	"math"
	"math/cmplx"
)

// Weights returns the table of n/2 weights used by an unordered FFT of
// length n: w[j] = exp(-2*pi*i*j/n) for 0 <= j < n/2. Note the table is
// half the transform length; for n == 1 it is empty.
func Weights(n int) []complex128 {
	theta := -2 * math.Pi / float64(n)

	ws := make([]complex128, n/2)
	for j := range ws {
		ws[j] = cmplx.Rect(1, float64(j)*theta)
	}
	return ws
}

// TwiddleWeights returns the np phase correctors applied after one
// redistribution superstep: tw[j] = exp(-2*pi*i*rho(j)*alpha/np), where
// rho is the bit-reversal permutation of length np and alpha encodes the
// calling processor's residue within the current cycle.
func TwiddleWeights(np int, rho []int, alpha float64) []complex128 {
	theta := -2 * math.Pi * alpha / float64(np)

	tw := make([]complex128, np)
	for j := range tw {
		tw[j] = cmplx.Rect(1, float64(rho[j])*theta)
	}
	return tw
}

// TwiddleMul multiplies xs elementwise by ws, or by conj(ws) if conjugate
// is set. The result overwrites xs.
func TwiddleMul(xs, ws []complex128, conjugate bool) {
	for j := range xs {
		w := ws[j]
		if conjugate {
			w = cmplx.Conj(w)
		}
		xs[j] *= w
	}
}

// Scale multiplies every element of xs by the real factor f.
func Scale(xs []complex128, f float64) {
	c := complex(f, 0)
	for j := range xs {
		xs[j] *= c
	}
}
