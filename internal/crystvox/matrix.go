package crystvox

import "gonum.org/v1/gonum/mat"

// 3×3 matrix (row-major)
type Mat3 struct {
	M [3][3]Real
}

// dense copies A into a gonum matrix.
func (A Mat3) dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			d.Set(r, c, A.M[r][c])
		}
	}
	return d
}

// Inverse returns A^-1, or an error when A is singular.
func (A Mat3) Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(A.dense()); err != nil {
		return Mat3{}, err
	}
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = inv.At(r, c)
		}
	}
	return R, nil
}
