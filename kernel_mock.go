package bspfft

import (
	"fmt"

	"github.com/bspkit/go-bsp-fft/internal/fourier"
	"github.com/bspkit/go-bsp-fft/internal/utils"
)

// MockKernelBackend is a pure-Go kernel backend for development and
// tests. It satisfies the backend contract but computes on the CPU with
// the same tables as the fallback kernel, producing natural-order
// batches the way a native FFT library would.
type MockKernelBackend struct{}

// NewMockKernelBackend returns a CPU-backed kernel backend.
func NewMockKernelBackend() *MockKernelBackend {
	return &MockKernelBackend{}
}

func (b *MockKernelBackend) Configure(buf []complex128, cfg KernelConfig) (KernelPlan, error) {
	if cfg.Length < 1 || !utils.IsPowerOfTwo(uint64(cfg.Length)) {
		return nil, fmt.Errorf("%w: length %d is not a power of two", ErrKernelConfig, cfg.Length)
	}
	if cfg.Count < 1 {
		return nil, fmt.Errorf("%w: batch count %d", ErrKernelConfig, cfg.Count)
	}
	if cfg.Stride != 1 {
		return nil, fmt.Errorf("%w: the mock backend only supports unit stride", ErrKernelConfig)
	}
	if cfg.Distance < cfg.Length {
		return nil, fmt.Errorf("%w: distance %d overlaps batches of length %d",
			ErrKernelConfig, cfg.Distance, cfg.Length)
	}
	if (cfg.Count-1)*cfg.Distance+cfg.Length > len(buf) {
		return nil, fmt.Errorf("%w: %d batches of %d at distance %d exceed buffer length %d",
			ErrKernelConfig, cfg.Count, cfg.Length, cfg.Distance, len(buf))
	}

	return &mockKernelPlan{
		buf: buf,
		cfg: cfg,
		rho: fourier.Permutation(cfg.Length),
		w:   fourier.Weights(cfg.Length),
	}, nil
}

type mockKernelPlan struct {
	buf []complex128
	cfg KernelConfig
	rho []int
	w   []complex128
}

// Execute transforms every batch in place. Output is in natural order:
// the unordered kernel is fed the bit-reversal-permuted batch, which is
// how an ordered transform decomposes. The inverse direction is
// unscaled, matching native FFT backward transforms; the driver applies
// the 1/n factor itself.
func (p *mockKernelPlan) Execute() error {
	conjugate := p.cfg.Direction == Inverse
	for b := 0; b < p.cfg.Count; b++ {
		start := b * p.cfg.Distance
		block := p.buf[start : start+p.cfg.Length]
		fourier.Permute(block, p.rho)
		fourier.UnorderedFFT(block, p.w, conjugate)
	}
	return nil
}
