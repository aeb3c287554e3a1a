package crystvox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// One oxygen in the middle of a 10 Å cube, 4³ grid, spread 2.
func TestSingleOxygenScenario(t *testing.T) {
	l := cubic(t, 10)
	st := mustStructure(t, l, Record{"O", 0.5, 0.5, 0.5})
	tn, err := BuildTensor(st, []string{"O"}, Dims{4, 4, 4}, 2.0)
	require.NoError(t, err)
	require.Equal(t, [4]int{1, 4, 4, 4}, tn.Shape())

	ch := tn.Channel(0)
	sum := tn.Summary()[0]
	require.Equal(t, [3]int{2, 2, 2}, sum.ArgMax)
	require.InDelta(t, gaussNorm, ch.At(2, 2, 2), 1e-12)

	s, err := NewSampler(l, tn.Dims)
	require.NoError(t, err)
	center := st.Atoms()[0].Position
	type sample struct{ d2, v Real }
	var samples []sample
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				samples = append(samples, sample{s.VoxelPosition(i, j, k).Dist2(center), ch.At(i, j, k)})
			}
		}
	}
	for _, a := range samples {
		for _, b := range samples {
			switch {
			case a.d2 < b.d2-1e-9:
				require.Greater(t, a.v, b.v, "closer voxel must be denser: %+v vs %+v", a, b)
			case math.Abs(a.d2-b.d2) <= 1e-9:
				require.InDelta(t, a.v, b.v, 1e-15)
			}
		}
	}
}

func TestVoxelsSampleLowerCorner(t *testing.T) {
	s, err := NewSampler(cubic(t, 8), Dims{4, 2, 8})
	require.NoError(t, err)
	require.Equal(t, Point3{}, s.VoxelPosition(0, 0, 0))
	p := s.VoxelPosition(1, 1, 1)
	require.InDelta(t, 2, p.X, 1e-12) // 1/4 of 8
	require.InDelta(t, 4, p.Y, 1e-12) // 1/2 of 8
	require.InDelta(t, 1, p.Z, 1e-12) // 1/8 of 8
	require.Equal(t, Dims{4, 2, 8}, s.Dims())
}

func TestAccumulateGaussianAddsOntoExisting(t *testing.T) {
	l := cubic(t, 4)
	g, err := NewGrid(Dims{3, 3, 3})
	require.NoError(t, err)
	for i := range g.Buf {
		g.Buf[i] = 1
	}
	center := l.FractionalToCartesian(0, 0, 0)
	out, err := AccumulateGaussian(g, l, center, 0.5)
	require.NoError(t, err)
	require.InDelta(t, 1+gaussNorm, out.At(0, 0, 0), 1e-12)
	// the returned grid is the same buffer
	require.Same(t, &g.Buf[0], &out.Buf[0])
	for _, v := range out.Buf {
		require.GreaterOrEqual(t, v, Real(1))
	}

	// second call accumulates
	_, err = AccumulateGaussian(g, l, center, 0.5)
	require.NoError(t, err)
	require.InDelta(t, 1+2*gaussNorm, g.At(0, 0, 0), 1e-12)
}

func TestAccumulateGaussianTriclinicDistance(t *testing.T) {
	l := triclinic(t)
	g, err := NewGrid(Dims{5, 5, 5})
	require.NoError(t, err)
	center := Point3{1, 1, 1}
	_, err = AccumulateGaussian(g, l, center, 0.7)
	require.NoError(t, err)
	// voxel (2, 3, 4) sits at fractional (0.4, 0.6, 0.8)
	p := l.FractionalToCartesian(0.4, 0.6, 0.8)
	r2 := p.Dist2(center)
	want := math.Pow(2/math.Pi, 1.5) * math.Exp(-0.5*r2/(0.7*0.7))
	require.InDelta(t, want, g.At(2, 3, 4), 1e-15)
}

func TestAccumulateGaussianInvalidSpread(t *testing.T) {
	l := cubic(t, 1)
	g, err := NewGrid(Dims{2, 2, 2})
	require.NoError(t, err)
	for _, v := range []Real{0, -0.5, math.NaN(), math.Inf(1), 1e-170, 5e-324, 1e200} {
		_, err := AccumulateGaussian(g, l, Point3{}, v)
		require.ErrorIs(t, err, ErrInvalidSpread, "variance=%v", v)
	}
	for _, v := range g.Buf {
		require.Zero(t, v)
	}
}

func TestSamplerShapeMismatch(t *testing.T) {
	s, err := NewSampler(cubic(t, 1), Dims{2, 2, 2})
	require.NoError(t, err)

	g, err := NewGrid(Dims{2, 2, 3})
	require.NoError(t, err)
	_, err = s.Accumulate(g, Point3{}, 0.5)
	require.ErrorIs(t, err, ErrShapeMismatch)

	short := Grid{Dims: Dims{2, 2, 2}, StrideX: 4, StrideY: 2, Buf: make([]Real, 7)}
	_, err = s.Accumulate(short, Point3{}, 0.5)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewSamplerErrors(t *testing.T) {
	_, err := NewSampler(nil, Dims{1, 1, 1})
	require.ErrorIs(t, err, ErrNilLattice)
	_, err = NewSampler(cubic(t, 1), Dims{0, 1, 1})
	require.ErrorIs(t, err, ErrInvalidDims)
	_, err = NewGrid(Dims{1, -1, 1})
	require.ErrorIs(t, err, ErrInvalidDims)
}

func TestTinySpreadStaysFinite(t *testing.T) {
	st := mustStructure(t, cubic(t, 10), Record{"O", 0.5, 0.5, 0.5})
	tn, err := BuildTensor(st, []string{"O"}, Dims{4, 4, 4}, 1e-150)
	require.NoError(t, err)
	for _, v := range tn.Buf {
		require.False(t, math.IsNaN(v))
		require.GreaterOrEqual(t, v, Real(0))
	}
	require.InDelta(t, gaussNorm, tn.At(0, 2, 2, 2), 1e-12)

	for _, v := range []Real{1e-170, 1e-300, 5e-324} {
		_, err := BuildTensor(st, []string{"O"}, Dims{4, 4, 4}, v)
		require.ErrorIs(t, err, ErrInvalidSpread, "spread=%g", v)
	}
}

func TestVoxelPositionOutOfRangePanics(t *testing.T) {
	s, err := NewSampler(cubic(t, 4), Dims{2, 3, 4})
	require.NoError(t, err)
	require.NotPanics(t, func() { s.VoxelPosition(1, 2, 3) })
	for _, ijk := range [][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}, {2, 0, 0}, {0, 3, 0}, {0, 0, 4}} {
		require.Panics(t, func() { s.VoxelPosition(ijk[0], ijk[1], ijk[2]) }, "voxel %v", ijk)
	}

	g, err := NewGrid(Dims{2, 3, 4})
	require.NoError(t, err)
	require.Panics(t, func() { g.At(0, 0, 4) })
	require.Panics(t, func() { g.At(-1, 0, 0) })
}

func TestSamplerSingleVoxelGrid(t *testing.T) {
	s, err := NewSampler(cubic(t, 4), Dims{1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, Point3{}, s.VoxelPosition(0, 0, 0))
}
