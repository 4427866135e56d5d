// Package partition provides the N-dimensional block partitioning used
// elsewhere in the hosting library: a rectangular decomposition of a
// global index space over a processor grid along a chosen subset of
// axes. It is pure index arithmetic with no communication.
package partition

// Block equally block-distributes the first G axes (or an explicit axis
// subset) of a D-dimensional index space over a G-dimensional processor
// grid. Axes that are not partitioned keep their full extent on every
// processor.
type Block struct {
	dataSize  []int
	grid      []int
	axes      []int
	blockSize []int
}

// NewBlock constructs a block partitioning of dataSize over grid,
// partitioning the first len(grid) axes in order.
func NewBlock(dataSize, grid []int) *Block {
	axes := make([]int, len(grid))
	for i := range axes {
		axes[i] = i
	}
	return NewBlockOnAxes(dataSize, grid, axes)
}

// NewBlockOnAxes constructs a block partitioning of dataSize over grid,
// where axes names the data axis each grid dimension partitions. The
// grid may not have more dimensions than the data, and every grid
// dimension and data extent must be positive; violations panic, as
// they are programmer errors.
func NewBlockOnAxes(dataSize, grid, axes []int) *Block {
	if len(grid) > len(dataSize) {
		panic("partition: processor grid has more dimensions than the data")
	}
	if len(axes) != len(grid) {
		panic("partition: need exactly one axis per grid dimension")
	}
	for _, size := range dataSize {
		if size < 1 {
			panic("partition: data extents must be positive")
		}
	}
	for _, procs := range grid {
		if procs < 1 {
			panic("partition: grid extents must be positive")
		}
	}

	b := &Block{
		dataSize:  append([]int(nil), dataSize...),
		grid:      append([]int(nil), grid...),
		axes:      append([]int(nil), axes...),
		blockSize: append([]int(nil), dataSize...),
	}
	for i, d := range b.axes {
		if d < 0 || d >= len(dataSize) {
			panic("partition: axis out of range")
		}
		b.blockSize[d] = (dataSize[d]-1)/grid[i] + 1
	}
	return b
}

// Procs returns the total number of processors in the grid.
func (b *Block) Procs() int {
	procs := 1
	for _, g := range b.grid {
		procs *= g
	}
	return procs
}

// BlockSize returns the extent of one block along each data axis.
func (b *Block) BlockSize() []int {
	return append([]int(nil), b.blockSize...)
}

// Owner returns the grid coordinates of the processor owning the given
// global index.
func (b *Block) Owner(index []int) []int {
	owner := make([]int, len(b.grid))
	for i, d := range b.axes {
		owner[i] = index[d] / b.blockSize[d]
	}
	return owner
}

// GlobalToLocal converts a global index to the index within its owner's
// block. Unpartitioned axes pass through unchanged.
func (b *Block) GlobalToLocal(index []int) []int {
	local := make([]int, len(index))
	for d := range index {
		local[d] = index[d] % b.blockSize[d]
	}
	return local
}

// Origin returns the global index at which processor t's block starts,
// with t a flattened grid rank (first grid dimension varying fastest).
func (b *Block) Origin(t int) []int {
	coords := b.unflatten(t)
	origin := make([]int, len(b.dataSize))
	for i, d := range b.axes {
		origin[d] = b.blockSize[d] * coords[i]
	}
	return origin
}

// LocalSize returns the number of elements processor t owns along each
// axis. Trailing blocks are clipped against the data extent, so the
// sizes of all blocks along an axis sum to that axis's extent.
func (b *Block) LocalSize(t int) []int {
	origin := b.Origin(t)
	size := make([]int, len(b.dataSize))
	for d := range size {
		size[d] = b.blockSize[d]
		if rest := b.dataSize[d] - origin[d]; rest < size[d] {
			size[d] = rest
		}
		if size[d] < 0 {
			size[d] = 0
		}
	}
	return size
}

// LocalToGlobal converts processor t's local index back to the global
// index space.
func (b *Block) LocalToGlobal(t int, index []int) []int {
	global := b.Origin(t)
	for d := range global {
		global[d] += index[d]
	}
	return global
}

func (b *Block) unflatten(t int) []int {
	coords := make([]int, len(b.grid))
	for i, g := range b.grid {
		coords[i] = t % g
		t /= g
	}
	return coords
}
