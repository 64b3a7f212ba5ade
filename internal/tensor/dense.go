package tensor

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/autodiff"
	"gonum.org/v1/gonum/mat"
)

// FromDense builds a matrix Array of fresh leaves from m.
func FromDense(m mat.Matrix) (*Array, error) {
	rows, cols := m.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, m.At(i, j))
		}
	}
	return FromSlice(values, Shape{rows, cols})
}

// Dense copies the values of a rank-1 or rank-2 Array into a gonum matrix.
// A vector becomes a single row.
func (a *Array) Dense() (*mat.Dense, error) {
	return a.dense("Dense", (*autodiff.Node).Value)
}

// GradDense copies the gradients of a rank-1 or rank-2 Array into a gonum
// matrix, laid out like Dense.
func (a *Array) GradDense() (*mat.Dense, error) {
	return a.dense("GradDense", (*autodiff.Node).Grad)
}

func (a *Array) dense(name string, read func(*autodiff.Node) float64) (*mat.Dense, error) {
	var rows, cols int
	switch a.Rank() {
	case 1:
		rows, cols = 1, a.shape[0]
	case 2:
		rows, cols = a.shape[0], a.shape[1]
	default:
		return nil, fmt.Errorf("%w: %s of rank %d", ErrUnsupportedRank, name, a.Rank())
	}

	data := make([]float64, len(a.nodes))
	for i, n := range a.nodes {
		data[i] = read(n)
	}
	return mat.NewDense(rows, cols, data), nil
}
