package crystvox

import (
	"fmt"
	"math"
)

// Lattice holds the six unit-cell parameters and the precomputed
// fractional→Cartesian map. Angles are in radians. A Lattice is immutable.
type Lattice struct {
	A, B, C            Real
	Alpha, Beta, Gamma Real

	// cached
	cosA, cosB, cosG Real
	sinA, sinB, sinG Real
	sigma            Real // sinG^2 - sinG^2*cosG^2 - (cosA - cosG*cosB)^2
	omega            Real // cell volume factor a*b*c*sqrt(sigma)
	m                Mat3 // rows: x, y, z coefficients of (fa, fb, fc)
	inv              Mat3
}

// NewLattice validates the cell parameters and precomputes the transform.
// It uses DegenerateEps as the degeneracy threshold.
func NewLattice(a, b, c, alpha, beta, gamma Real) (*Lattice, error) {
	return NewLatticeEps(a, b, c, alpha, beta, gamma, DegenerateEps)
}

// NewLatticeDegrees is NewLattice with the three angles given in degrees.
func NewLatticeDegrees(a, b, c, alphaDeg, betaDeg, gammaDeg Real) (*Lattice, error) {
	const k = math.Pi / 180
	return NewLattice(a, b, c, alphaDeg*k, betaDeg*k, gammaDeg*k)
}

// NewLatticeEps is NewLattice with an explicit degeneracy threshold.
// Both sin(gamma) and sigma must be strictly greater than eps.
func NewLatticeEps(a, b, c, alpha, beta, gamma, eps Real) (*Lattice, error) {
	if !isFinite(eps) || eps < 0 {
		return nil, fmt.Errorf("%w: eps=%g", ErrInvalidLattice, eps)
	}
	for _, v := range []Real{a, b, c} {
		if !isFinite(v) || v <= 0 {
			return nil, fmt.Errorf("%w: edges must be finite and > 0, got a=%g b=%g c=%g", ErrInvalidLattice, a, b, c)
		}
	}
	for _, v := range []Real{alpha, beta, gamma} {
		if !isFinite(v) {
			return nil, fmt.Errorf("%w: non-finite angle in (%g, %g, %g)", ErrInvalidLattice, alpha, beta, gamma)
		}
		if v <= 0 || v >= math.Pi {
			return nil, fmt.Errorf("%w: angles must be in (0, π), got (%g, %g, %g)", ErrDegenerateLattice, alpha, beta, gamma)
		}
	}

	l := &Lattice{
		A: a, B: b, C: c,
		Alpha: alpha, Beta: beta, Gamma: gamma,
		cosA: math.Cos(alpha), cosB: math.Cos(beta), cosG: math.Cos(gamma),
		sinA: math.Sin(alpha), sinB: math.Sin(beta), sinG: math.Sin(gamma),
	}
	if l.sinG <= eps {
		return nil, fmt.Errorf("%w: sin(gamma)=%g", ErrDegenerateLattice, l.sinG)
	}
	// Kept term for term, the sinG^2*cosG^2 term included.
	l.sigma = l.sinG*l.sinG - l.sinG*l.sinG*l.cosG*l.cosG - (l.cosA-l.cosG*l.cosB)*(l.cosA-l.cosG*l.cosB)
	if !isFinite(l.sigma) || l.sigma <= eps {
		return nil, fmt.Errorf("%w: sigma=%g", ErrDegenerateLattice, l.sigma)
	}
	l.omega = a * b * c * math.Sqrt(l.sigma)

	l.m = Mat3{M: [3][3]Real{
		{a, b * l.cosG, c * l.cosB},
		{0, b * l.sinG, c * ((l.cosA - l.cosB*l.cosG) / l.sinG)},
		{0, 0, l.omega / (a * b * l.sinG)},
	}}
	inv, err := l.m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateLattice, err)
	}
	l.inv = inv
	DebugLog("Created lattice a=%.4f b=%.4f c=%.4f alpha=%.4f beta=%.4f gamma=%.4f sigma=%.6g volume=%.4f", a, b, c, alpha, beta, gamma, l.sigma, l.omega)
	return l, nil
}

// FractionalToCartesian maps fractional coordinates to Cartesian ones.
// Any real input is accepted; the map is affine with no wrapping.
func (l *Lattice) FractionalToCartesian(fa, fb, fc Real) Point3 {
	return Point3(l.m.MulVec(Vec3{fa, fb, fc}))
}

// CartesianToFractional is the inverse of FractionalToCartesian.
func (l *Lattice) CartesianToFractional(p Point3) Vec3 {
	return l.inv.MulVec(p.Sub(Point3{}))
}

// Params returns the six cell parameters keyed a, b, c, alpha, beta, gamma.
func (l *Lattice) Params() map[string]Real {
	return map[string]Real{
		"a":     l.A,
		"b":     l.B,
		"c":     l.C,
		"alpha": l.Alpha,
		"beta":  l.Beta,
		"gamma": l.Gamma,
	}
}

// Volume returns a*b*c*sqrt(sigma).
func (l *Lattice) Volume() Real { return l.omega }

// Sigma returns the volume factor checked at construction.
func (l *Lattice) Sigma() Real { return l.sigma }

// Matrix returns the fractional→Cartesian map as a row-major matrix.
func (l *Lattice) Matrix() Mat3 { return l.m }
