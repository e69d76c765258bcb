package array

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// matrix lets gonum read a rank-2 float64 Array without copying it.
type matrix struct {
	a *Array[float64]
}

var _ mat.Matrix = matrix{ }

// Matrix returns a gonum mat.Matrix view of a rank-2 Array. The view shares
// a's buffer. gonum panics on out-of-range access, as it does for its own
// types.
func Matrix(a *Array[float64]) (mat.Matrix, error) {
	if a.Rank() != 2 {
		return nil, fmt.Errorf("%w: Matrix needs a rank-2 array, got shape %v",
			ErrBadShape, a.shape)
	}
	return matrix{ a }, nil
}

func (m matrix) Dims() (r, c int) { return m.a.shape[0], m.a.shape[1] }

func (m matrix) At(i, j int) float64 {
	x, err := m.a.At(i, j)
	if err != nil { panic(mat.ErrIndexOutOfRange) }
	return x
}

func (m matrix) T() mat.Matrix { return mat.Transpose{ Matrix: m } }
