package bspfft

// redistribute reshapes the group-cyclic distribution of xs from cycle
// c0 to cycle c1, where 1 <= c0 <= c1 <= p and c1/c0 is a power of two.
// Each processor cuts its np local elements into packets of
// size = max(np/(c1/c0), 1) taken at local stride c1/c0 and writes every
// packet contiguously into its destination processor. The closing
// barrier makes all packets visible; this is the transform's only
// communication primitive.
//
// If reversed is set, the processor numbering is assumed to be bit
// reversed on input: the rank is passed through the length-p
// bit-reversal permutation before the cycle decomposition. This applies
// exactly once, on the first redistribution after the initial local
// pass; later redistributions see natural processor order.
func (t *Transform) redistribute(xs *Vector, c0, c1 int, reversed bool) {
	local := xs.Local()

	ratio := c1 / c0
	size := t.np / ratio
	if size < 1 {
		size = 1
	}
	npackets := t.np / size

	var j0, j2 int
	if reversed {
		j0 = t.rhoP[t.s] % c0
		j2 = t.rhoP[t.s] / c0
	} else {
		j0 = t.s % c0
		j2 = t.s / c0
	}

	tmp := make([]complex128, size)
	for j := 0; j < npackets; j++ {
		for r := 0; r < size; r++ {
			tmp[r] = local[j+r*ratio]
		}
		jglob := j2*c0*t.np + j*c0 + j0
		destProc := (jglob/(c1*t.np))*c1 + jglob%c1
		destOffset := (jglob % (c1 * t.np)) / c1
		xs.Put(destProc, destOffset, tmp)
	}
	t.world.Sync()
}
