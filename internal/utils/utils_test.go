package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPowerOfTwo(t *testing.T) {
	powInt := func(x, y uint64) uint64 {
		result := uint64(1)
		for i := uint64(0); i < y; i++ {
			result *= x
		}
		return result
	}

	// 0 is not a power of two
	require.False(t, IsPowerOfTwo(0))

	for i := uint64(0); i < 63; i++ {
		require.True(t, IsPowerOfTwo(powInt(2, i)))
	}

	require.False(t, IsPowerOfTwo(3))
	require.False(t, IsPowerOfTwo(6))
	require.False(t, IsPowerOfTwo(1023))
}
