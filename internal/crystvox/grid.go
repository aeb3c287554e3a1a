package crystvox

import "fmt"

// Dims is the spatial resolution of a grid along the a, b and c axes.
type Dims struct {
	D0, D1, D2 int
}

// DefaultDims returns the 32×32×32 grid.
func DefaultDims() Dims { return Dims{GridResX, GridResY, GridResZ} }

// Voxels returns D0*D1*D2.
func (d Dims) Voxels() int { return d.D0 * d.D1 * d.D2 }

func (d Dims) IsZero() bool { return d == Dims{} }

func (d Dims) validate() error {
	if d.D0 <= 0 || d.D1 <= 0 || d.D2 <= 0 {
		return fmt.Errorf("%w: got (%d, %d, %d)", ErrInvalidDims, d.D0, d.D1, d.D2)
	}
	return nil
}

// mustContain panics if (i, j, k) is outside the grid. A flat index alone
// would alias another voxel when only j or k overflows.
func (d Dims) mustContain(i, j, k int) {
	if i < 0 || i >= d.D0 || j < 0 || j >= d.D1 || k < 0 || k >= d.D2 {
		panic(fmt.Sprintf("crystvox: voxel (%d, %d, %d) out of range %s", i, j, k, d))
	}
}

func (d Dims) String() string { return fmt.Sprintf("%dx%dx%d", d.D0, d.D1, d.D2) }

// Grid is a single-channel 3D voxel buffer spanning one unit cell.
// Voxels live in a flat buffer: (i*D1 + j)*D2 + k.
type Grid struct {
	Dims
	StrideX int // i * StrideX + j * StrideY + k
	StrideY int
	Buf     []Real
}

// NewGrid allocates a zero-initialized grid.
func NewGrid(d Dims) (Grid, error) {
	if err := d.validate(); err != nil {
		return Grid{}, err
	}
	return gridOver(d, make([]Real, d.Voxels())), nil
}

// gridOver wraps buf (len must be d.Voxels()) without copying.
func gridOver(d Dims, buf []Real) Grid {
	return Grid{
		Dims:    d,
		StrideX: d.D1 * d.D2,
		StrideY: d.D2,
		Buf:     buf,
	}
}

// Flat buffer index helper.
func (g Grid) idx(i, j, k int) int {
	return i*g.StrideX + j*g.StrideY + k
}

// ijk is the inverse of idx.
func (g Grid) ijk(n int) (i, j, k int) {
	i = n / g.StrideX
	n -= i * g.StrideX
	j = n / g.StrideY
	k = n - j*g.StrideY
	return
}

// At returns the value at voxel (i, j, k). It panics if the voxel is outside the grid.
func (g Grid) At(i, j, k int) Real {
	g.Dims.mustContain(i, j, k)
	return g.Buf[g.idx(i, j, k)]
}

func (g Grid) checkShape(d Dims) error {
	if g.Dims != d || len(g.Buf) != d.Voxels() {
		return fmt.Errorf("%w: grid %s (len %d), want %s", ErrShapeMismatch, g.Dims, len(g.Buf), d)
	}
	return nil
}
