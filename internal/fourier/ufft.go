package fourier

import "math/cmplx"

// UnorderedFFT computes the unordered discrete Fourier transform of xs
// in place. For a block of length L = 2^m it performs log2(L) butterfly
// passes with stride k doubling from 2 to L, so the result is F*R*xs
// (conj(F)*R*xs when conjugate is set), where F is the L by L Fourier
// matrix and R the bit-reversal matrix. Callers that need natural
// frequency order must apply the bit-reversal permutation themselves.
//
// ws must be the half-length weight table produced by Weights(L).
func UnorderedFFT(xs []complex128, ws []complex128, conjugate bool) {
	n := len(xs)
	for k := 2; k <= n; k <<= 1 {
		nk := n / k
		for r := 0; r < nk; r++ {
			rk := r * k
			for j := 0; j < k/2; j++ {
				w := ws[j*nk]
				if conjugate {
					w = cmplx.Conj(w)
				}
				j0 := rk + j
				j2 := j0 + k/2
				tau := w * xs[j2]
				xs[j2] = xs[j0] - tau
				xs[j0] += tau
			}
		}
	}
}
