package tensor

import (
	"fmt"
	"iter"
	"strings"

	"github.com/born-ml/minigrad/internal/autodiff"
)

// Transpose swaps rows and columns of a matrix.
//
// A rank-1 Array is its own transpose: a new Array over the same Nodes is
// returned. Rank 3 and 4 fail with ErrUnsupportedRank.
func (a *Array) Transpose() (*Array, error) {
	switch a.Rank() {
	case 1:
		return &Array{shape: a.shape.Clone(), nodes: a.Nodes()}, nil
	case 2:
		rows, cols := a.shape[0], a.shape[1]
		nodes := make([]*autodiff.Node, len(a.nodes))
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				nodes[j*rows+i] = a.nodes[i*cols+j]
			}
		}
		return &Array{shape: Shape{cols, rows}, nodes: nodes}, nil
	default:
		return nil, fmt.Errorf("%w: transpose of rank %d", ErrUnsupportedRank, a.Rank())
	}
}

// At returns the i-th child along the first dimension, one rank lower.
// For a rank-1 Array the child is a single-element rank-1 Array.
// The child shares Nodes with a.
func (a *Array) At(i int) (*Array, error) {
	if i < 0 || i >= a.shape[0] {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, a.shape[0])
	}
	return a.child(i), nil
}

func (a *Array) child(i int) *Array {
	if a.Rank() == 1 {
		return &Array{shape: Shape{1}, nodes: []*autodiff.Node{a.nodes[i]}}
	}

	stride := a.shape.ComputeStrides()[0]
	nodes := make([]*autodiff.Node, stride)
	copy(nodes, a.nodes[i*stride:(i+1)*stride])
	return &Array{shape: a.shape[1:].Clone(), nodes: nodes}
}

// All iterates over the first-dimension children in order (see At).
func (a *Array) All() iter.Seq[*Array] {
	return func(yield func(*Array) bool) {
		for i := 0; i < a.shape[0]; i++ {
			if !yield(a.child(i)) {
				return
			}
		}
	}
}

// Item returns the sole Node of a single-element rank-1 Array.
func (a *Array) Item() (*autodiff.Node, error) {
	if a.Rank() != 1 || len(a.nodes) != 1 {
		return nil, fmt.Errorf("%w: shape %v", ErrNotScalar, a.shape)
	}
	return a.nodes[0], nil
}

// ToList returns the elements as nested []any with *autodiff.Node leaves.
// The containers are new; the Nodes are shared. New(a.ToList()) rebuilds an
// equal Array.
func (a *Array) ToList() []any {
	return nest(a.shape, a.nodes).([]any)
}

func nest(shape Shape, nodes []*autodiff.Node) any {
	if len(shape) == 0 {
		return nodes[0]
	}
	stride := len(nodes) / shape[0]
	out := make([]any, shape[0])
	for i := range out {
		out[i] = nest(shape[1:], nodes[i*stride:(i+1)*stride])
	}
	return out
}

// Nodes returns the elements in row-major order. The slice is a copy; the
// Nodes are shared.
func (a *Array) Nodes() []*autodiff.Node {
	out := make([]*autodiff.Node, len(a.nodes))
	copy(out, a.nodes)
	return out
}

// Values returns element values in row-major order.
func (a *Array) Values() []float64 {
	out := make([]float64, len(a.nodes))
	for i, n := range a.nodes {
		out[i] = n.Value()
	}
	return out
}

// Grads returns element gradients in row-major order.
func (a *Array) Grads() []float64 {
	out := make([]float64, len(a.nodes))
	for i, n := range a.nodes {
		out[i] = n.Grad()
	}
	return out
}

// ZeroGrad resets the gradient of every element.
func (a *Array) ZeroGrad() {
	for _, n := range a.nodes {
		n.ZeroGrad()
	}
}

// String implements fmt.Stringer.
func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteString("Array(")
	writeNested(&sb, a.shape, a.nodes)
	sb.WriteString(")")
	return sb.String()
}

func writeNested(sb *strings.Builder, shape Shape, nodes []*autodiff.Node) {
	if len(shape) == 0 {
		fmt.Fprintf(sb, "%g", nodes[0].Value())
		return
	}
	stride := len(nodes) / shape[0]
	sb.WriteByte('[')
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeNested(sb, shape[1:], nodes[i*stride:(i+1)*stride])
	}
	sb.WriteByte(']')
}
