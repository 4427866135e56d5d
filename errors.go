package bspfft

import "errors"

var (
	ErrNotPowerOfTwo     = errors.New("transform length and processor count should both be powers of two")
	ErrTooManyProcs      = errors.New("processor count should be smaller than the transform length")
	ErrSliceLength       = errors.New("local slice length should equal n/p")
	ErrKernelNotBound    = errors.New("kernel backend was not bound before transforming")
	ErrKernelBufferMoved = errors.New("buffer address changed since the kernel backend was bound")
	ErrKernelUnsupported = errors.New("kernel backend cannot serve this transform geometry")
	ErrKernelConfig      = errors.New("invalid kernel plan configuration")
)
