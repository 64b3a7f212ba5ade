package tensor

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/autodiff"
)

// Add returns the elementwise sum a + b.
//
// Both Arrays must have the same shape and rank 1 or 2; anything else fails
// with ErrShapeMismatch.
func (a *Array) Add(b *Array) (*Array, error) {
	if err := a.checkElementwise("add", b); err != nil {
		return nil, err
	}
	return a.zip(b, (*autodiff.Node).Add), nil
}

// Sub returns the elementwise difference a - b, built as a + b*(-1).
// Same shape rules as Add.
func (a *Array) Sub(b *Array) (*Array, error) {
	if err := a.checkElementwise("sub", b); err != nil {
		return nil, err
	}
	return a.zip(b, (*autodiff.Node).Sub), nil
}

func (a *Array) checkElementwise(op string, b *Array) error {
	if b == nil {
		return fmt.Errorf("%w: %s with nil Array", ErrTypeMismatch, op)
	}
	if !a.shape.Equal(b.shape) || a.Rank() > 2 || b.Rank() > 2 {
		return fmt.Errorf("%w: %s needs equal shapes of rank <= 2, got %v and %v",
			ErrShapeMismatch, op, a.shape, b.shape)
	}
	return nil
}

func (a *Array) zip(b *Array, f func(x, y *autodiff.Node) *autodiff.Node) *Array {
	nodes := make([]*autodiff.Node, len(a.nodes))
	for i := range a.nodes {
		nodes[i] = f(a.nodes[i], b.nodes[i])
	}
	return &Array{shape: a.shape.Clone(), nodes: nodes}
}

// Mul multiplies a by other.
//
// Dispatch by operand:
//
//	rank 1 × scalar  → elementwise scale, rank 1
//	rank 2 × scalar  → elementwise scale, rank 2
//	rank 1 × rank 1  → dot product, rank-1 single element (equal lengths)
//	rank 1 × rank 2  → row vector × matrix, length = columns (len == rows)
//	rank 2 × rank 2  → matrix product (cols == rows), leading 1-dims dropped
//
// A scalar is a number or *autodiff.Node; other types fail with
// ErrTypeMismatch. Other rank pairs fail with ErrUnsupportedRank and
// incompatible inner dimensions with ErrShapeMismatch.
func (a *Array) Mul(other any) (*Array, error) {
	if b, ok := other.(*Array); ok {
		return a.mulArray(b)
	}

	s, err := autodiff.Lift(other)
	if err != nil {
		return nil, fmt.Errorf("mul: %w", err)
	}
	return a.scale(s)
}

func (a *Array) scale(s *autodiff.Node) (*Array, error) {
	if a.Rank() > 2 {
		return nil, fmt.Errorf("%w: scalar multiplication of rank %d", ErrUnsupportedRank, a.Rank())
	}
	return a.Map(func(n *autodiff.Node) *autodiff.Node {
		return n.Mul(s)
	}), nil
}

func (a *Array) mulArray(b *Array) (*Array, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: mul with nil Array", ErrTypeMismatch)
	}
	switch {
	case a.Rank() == 1 && b.Rank() == 1:
		return a.dot(b)
	case a.Rank() == 1 && b.Rank() == 2:
		return a.vecMat(b)
	case a.Rank() == 2 && b.Rank() == 2:
		return a.matMat(b)
	default:
		return nil, fmt.Errorf("%w: multiplication of rank %d by rank %d", ErrUnsupportedRank, a.Rank(), b.Rank())
	}
}

// dot returns [Σ a[k]*b[k]].
func (a *Array) dot(b *Array) (*Array, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: dot product of lengths %d and %d", ErrShapeMismatch, a.Len(), b.Len())
	}
	sum := accumulate(a.Len(), func(k int) (x, y *autodiff.Node) {
		return a.nodes[k], b.nodes[k]
	})
	return &Array{shape: Shape{1}, nodes: []*autodiff.Node{sum}}, nil
}

// vecMat returns out[j] = Σ_k a[k]*b[k][j].
func (a *Array) vecMat(b *Array) (*Array, error) {
	rows, cols := b.shape[0], b.shape[1]
	if a.Len() != rows {
		return nil, fmt.Errorf("%w: vector of length %d times %dx%d matrix", ErrShapeMismatch, a.Len(), rows, cols)
	}

	nodes := make([]*autodiff.Node, cols)
	for j := 0; j < cols; j++ {
		nodes[j] = accumulate(rows, func(k int) (x, y *autodiff.Node) {
			return a.nodes[k], b.nodes[k*cols+j]
		})
	}
	return &Array{shape: Shape{cols}, nodes: nodes}, nil
}

// matMat returns out[i][j] = Σ_k a[i][k]*b[k][j] with leading 1-dims dropped,
// so a 1×n result is a length-n vector and 1×1 is a single-element vector.
func (a *Array) matMat(b *Array) (*Array, error) {
	rows, inner := a.shape[0], a.shape[1]
	if inner != b.shape[0] {
		return nil, fmt.Errorf("%w: %v times %v", ErrShapeMismatch, a.shape, b.shape)
	}
	cols := b.shape[1]

	nodes := make([]*autodiff.Node, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			nodes[i*cols+j] = accumulate(inner, func(k int) (x, y *autodiff.Node) {
				return a.nodes[i*inner+k], b.nodes[k*cols+j]
			})
		}
	}

	shape := Shape{rows, cols}
	for len(shape) > 1 && shape[0] == 1 {
		shape = shape[1:]
	}
	return &Array{shape: shape, nodes: nodes}, nil
}

// accumulate builds Σ_{k<n} x_k*y_k out of Node multiply and add, so the
// result keeps an edge to every contributing Node. n must be positive.
func accumulate(n int, pair func(k int) (x, y *autodiff.Node)) *autodiff.Node {
	x, y := pair(0)
	acc := x.Mul(y)
	for k := 1; k < n; k++ {
		x, y = pair(k)
		acc = acc.Add(x.Mul(y))
	}
	return acc
}

// Map applies f to every element and returns the results in an Array of the
// same shape. Works for any rank.
func (a *Array) Map(f func(*autodiff.Node) *autodiff.Node) *Array {
	nodes := make([]*autodiff.Node, len(a.nodes))
	for i, n := range a.nodes {
		nodes[i] = f(n)
	}
	return &Array{shape: a.shape.Clone(), nodes: nodes}
}

// Sum adds every element into a single Node.
func (a *Array) Sum() *autodiff.Node {
	acc := a.nodes[0]
	for _, n := range a.nodes[1:] {
		acc = acc.Add(n)
	}
	return acc
}
