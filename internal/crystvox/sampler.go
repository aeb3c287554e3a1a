package crystvox

import (
	"fmt"
	"math"
)

// (2/π)^(3/2), the gaussian prefactor.
var gaussNorm = math.Pow(2/math.Pi, 1.5)

// Sampler evaluates gaussian densities on a grid spanning one unit cell.
// Voxel (i, j, k) sits at fractional (i/D0, j/D1, k/D2): the lower corner of
// the voxel, not its center. Outputs depend on that convention.
type Sampler struct {
	lat  *Lattice
	dims Dims
	pos  []Point3 // Cartesian voxel positions, flat like Grid.Buf
}

// NewSampler precomputes the Cartesian position of every voxel.
func NewSampler(lat *Lattice, d Dims) (*Sampler, error) {
	if lat == nil {
		return nil, ErrNilLattice
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	s := &Sampler{
		lat:  lat,
		dims: d,
		pos:  make([]Point3, d.Voxels()),
	}
	n := 0
	for i := 0; i < d.D0; i++ {
		fa := Real(i) / Real(d.D0)
		for j := 0; j < d.D1; j++ {
			fb := Real(j) / Real(d.D1)
			for k := 0; k < d.D2; k++ {
				s.pos[n] = lat.FractionalToCartesian(fa, fb, Real(k)/Real(d.D2))
				n++
			}
		}
	}
	DebugLogOnce("Sampler last voxel %s at %+v", d, s.pos[len(s.pos)-1])
	return s, nil
}

// Dims returns the grid shape the sampler was built for.
func (s *Sampler) Dims() Dims { return s.dims }

// VoxelPosition returns the Cartesian position sampled for voxel (i, j, k).
// It panics if the voxel is outside the grid.
func (s *Sampler) VoxelPosition(i, j, k int) Point3 {
	s.dims.mustContain(i, j, k)
	return s.pos[(i*s.dims.D1+j)*s.dims.D2+k]
}

// validateSpread also rejects spreads whose square underflows to 0 or
// overflows, since the exponent divides by variance².
func validateSpread(variance Real) error {
	if !isFinite(variance) || variance <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidSpread, variance)
	}
	if v2 := variance * variance; v2 == 0 || !isFinite(v2) {
		return fmt.Errorf("%w: variance² of %g is not representable", ErrInvalidSpread, variance)
	}
	return nil
}

// Accumulate adds one gaussian centered at center onto every voxel of ch.
// Existing values are kept. ch must have the sampler's dims.
func (s *Sampler) Accumulate(ch Grid, center Point3, variance Real) (Grid, error) {
	if err := validateSpread(variance); err != nil {
		return ch, err
	}
	if err := ch.checkShape(s.dims); err != nil {
		return ch, err
	}
	s.accumulateRange(ch.Buf, 0, len(ch.Buf), center, variance)
	return ch, nil
}

// accumulateRange adds a gaussian onto buf[lo:hi]; buf is indexed like pos.
func (s *Sampler) accumulateRange(buf []Real, lo, hi int, center Point3, variance Real) {
	v2 := variance * variance
	pos := s.pos[lo:hi]
	dst := buf[lo:hi]
	for n := range dst {
		dst[n] += gaussDensity(pos[n].Dist2(center), v2)
	}
}

// gaussDensity is (2/π)^(3/2) * exp(-0.5 * r2 / variance²), with v2 = variance².
func gaussDensity(r2, v2 Real) Real {
	return gaussNorm * math.Exp(-0.5*r2/v2)
}

// accumulateAtomsRange adds every center, in order, onto buf[lo:hi].
// Each voxel sees the same sequence of additions as a serial build.
func (s *Sampler) accumulateAtomsRange(buf []Real, lo, hi int, centers []Point3, variance Real) {
	for _, c := range centers {
		s.accumulateRange(buf, lo, hi, c, variance)
	}
}

// AccumulateGaussian adds one gaussian density onto ch, mapping voxels
// through lat. It returns ch for chaining.
func AccumulateGaussian(ch Grid, lat *Lattice, center Point3, variance Real) (Grid, error) {
	if err := validateSpread(variance); err != nil {
		return ch, err
	}
	s, err := NewSampler(lat, ch.Dims)
	if err != nil {
		return ch, err
	}
	return s.Accumulate(ch, center, variance)
}
