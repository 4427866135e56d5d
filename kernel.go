package bspfft

import "fmt"

// KernelBackend is implemented by batched local-transform engines
// (native FFT libraries, accelerators) that can stand in for the
// pure-Go butterfly kernel. A backend is configured once per buffer and
// geometry and hands back an opaque plan; executing the plan transforms
// the buffer it was configured on, in place and in natural frequency
// order.
type KernelBackend interface {
	Configure(buf []complex128, cfg KernelConfig) (KernelPlan, error)
}

// KernelConfig describes one batched in-place transform: Count
// transforms of Length points each, the j-th point of a batch at
// buf[batch*Distance + j*Stride].
type KernelConfig struct {
	Length    int
	Count     int
	Stride    int
	Distance  int
	Direction Direction
}

// KernelPlan executes the transform it was configured for on the buffer
// it was configured on. Plans are not safe for concurrent use.
type KernelPlan interface {
	Execute() error
}

// kernelPlans holds the four plans a transform needs: the batched
// first-pass plan and the full-length later-pass plan, each in both
// directions.
type kernelPlans struct {
	batchFwd KernelPlan
	batchInv KernelPlan
	longFwd  KernelPlan
	longInv  KernelPlan
}

func (k *kernelPlans) batch(dir Direction) KernelPlan {
	if dir == Inverse {
		return k.batchInv
	}
	return k.batchFwd
}

func (k *kernelPlans) long(dir Direction) KernelPlan {
	if dir == Inverse {
		return k.longInv
	}
	return k.longFwd
}

// BindKernel configures the backend's plans on the local slice of xs.
// It must be called collectively, after NewWithKernel and before the
// first transform, and again after every Reinitialize. Plan creation is
// not safe to perform concurrently across processors, so each
// processor configures in turn while the others wait at a barrier.
//
// The buffer address is recorded: transforming a vector whose local
// slice has moved since binding is a fatal precondition error.
func (t *Transform) BindKernel(xs *Vector) {
	if t.backend == nil {
		t.world.Abortf("bspfft: BindKernel called on a transform without a kernel backend")
	}
	local := xs.Local()
	if len(local) != t.np {
		t.world.Abort(fmt.Errorf("%w: got %d, want %d/%d = %d",
			ErrSliceLength, len(local), t.n, t.p, t.np))
	}
	// The driver's first-pass permutation only matches a batched
	// natural-order kernel when the chunk size equals p, i.e. k1 == p.
	// That holds exactly when p*p <= n.
	if t.n > 1 && t.k1 != t.p {
		t.world.Abort(fmt.Errorf("%w: batched kernels need p*p <= n, got n=%d, p=%d",
			ErrKernelUnsupported, t.n, t.p))
	}

	plans := &kernelPlans{}
	t.world.Serially(func() {
		batch := KernelConfig{Length: t.k1, Count: t.np / t.k1, Stride: 1, Distance: t.k1}
		long := KernelConfig{Length: t.np, Count: 1, Stride: 1, Distance: t.np}
		plans.batchFwd = t.configure(local, batch, Forward)
		plans.batchInv = t.configure(local, batch, Inverse)
		plans.longFwd = t.configure(local, long, Forward)
		plans.longInv = t.configure(local, long, Inverse)
	})

	t.plans = plans
	t.bound = &local[0]
}

func (t *Transform) configure(buf []complex128, cfg KernelConfig, dir Direction) KernelPlan {
	cfg.Direction = dir
	plan, err := t.backend.Configure(buf, cfg)
	if err != nil {
		t.world.Abort(fmt.Errorf("bspfft: kernel configuration failed: %w", err))
	}
	return plan
}
