// Package fourier implements the sequential building blocks of the
// distributed transform: bit-reversal permutations, root-of-unity weight
// tables and the in-place unordered Cooley-Tukey kernel. Everything in
// this package is purely local; communication lives one level up.
package fourier

import (
	"math/bits"

	"github.com/bspkit/go-bsp-fft/internal/utils"
)

// Permutation returns the bit-reversal permutation rho of length n,
// where n must be a power of two. The permutation is an involution
// (rho(rho(j)) == j) and always fixes index 0.
func Permutation(n int) []int {
	if !utils.IsPowerOfTwo(uint64(n)) {
		panic("fourier: permutation length must be a power of two")
	}

	shift := 64 - bits.TrailingZeros64(uint64(n))

	rho := make([]int, n)
	for j := range rho {
		// Shifts of 64 or more are defined in Go and yield 0,
		// which gives the correct rho = [0] for n == 1.
		rho[j] = int(bits.Reverse64(uint64(j)) >> shift)
	}
	return rho
}

// Permute reorders xs in place by the permutation rho: xs[j] <- xs[rho[j]].
// The swap-once rule used here is only valid for involutions such as the
// bit-reversal permutations produced by Permutation.
func Permute(xs []complex128, rho []int) {
	for j, rj := range rho {
		if j < rj {
			xs[j], xs[rj] = xs[rj], xs[j]
		}
	}
}
