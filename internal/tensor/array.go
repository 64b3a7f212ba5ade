// Package tensor implements Array, a shape-checked N-dimensional container of
// autodiff Nodes.
//
// Every Array operation is built from Node operations, so the Nodes of a
// result already carry the graph edges needed for differentiation:
//
//	x, _ := tensor.New([]float64{1, 2})
//	w, _ := tensor.New([][]float64{{1, 2}, {3, 4}})
//	y, _ := x.Mul(w)        // row vector × matrix
//	loss := y.Sum()
//	loss.Backward()         // gradients land on the Nodes of x and w
//
// Arrays have rank 1..4 and are immutable once returned. Nodes may be shared
// between Arrays; a Node reused by two Arrays accumulates gradient from both.
package tensor

import (
	"fmt"
	"reflect"

	"github.com/born-ml/minigrad/internal/autodiff"
)

// Array is an N-dimensional (1..4) container of Nodes stored in row-major order.
type Array struct {
	shape Shape
	nodes []*autodiff.Node // len(nodes) == shape.NumElements()
}

// New builds an Array from nested data.
//
// data may be any nesting (up to MaxRank levels) of slices or Go arrays whose
// leaves are numbers or *autodiff.Node, e.g. []float64, [][]int, []any{1, n}.
// Numbers become fresh leaf Nodes; Nodes are kept by identity.
//
// The shape is measured along the first element of every level. Errors:
//   - ErrEmptyInput: some level is empty.
//   - ErrInvalidRank: a bare number/Node (rank 0) or more than MaxRank levels.
//   - ErrTypeMismatch: a leaf that is not a number or Node (bool included).
//   - ErrShapeMismatch: siblings of unequal length (ragged input).
func New(data any) (*Array, error) {
	b := &builder{}
	if err := b.walk(reflect.ValueOf(data), 0); err != nil {
		return nil, err
	}
	if len(b.shape) == 0 {
		return nil, fmt.Errorf("%w: got a bare value, need at least one dimension", ErrInvalidRank)
	}
	return &Array{shape: b.shape, nodes: b.nodes}, nil
}

// MustNew is like New but panics on error. Intended for literals in tests and examples.
func MustNew(data any) *Array {
	a, err := New(data)
	if err != nil {
		panic(err)
	}
	return a
}

// FromSlice builds an Array of fresh leaves from row-major values.
func FromSlice(values []float64, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(values), shape)
	}
	nodes := make([]*autodiff.Node, len(values))
	for i, v := range values {
		nodes[i] = autodiff.New(v)
	}
	return &Array{shape: shape.Clone(), nodes: nodes}, nil
}

// FromNodes builds an Array over existing Nodes in row-major order.
// The Nodes are shared, not copied.
func FromNodes(nodes []*autodiff.Node, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(nodes) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d nodes for shape %v", ErrShapeMismatch, len(nodes), shape)
	}
	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: nil node at %d", ErrTypeMismatch, i)
		}
	}
	out := make([]*autodiff.Node, len(nodes))
	copy(out, nodes)
	return &Array{shape: shape.Clone(), nodes: out}, nil
}

// Zeros builds an Array of fresh zero-valued leaves.
func Zeros(shape Shape) (*Array, error) {
	return FromSlice(make([]float64, shape.NumElements()), shape)
}

// builder walks nested input depth-first. The first path down fixes the
// shape; every later sibling is checked against it.
type builder struct {
	shape  Shape
	sealed bool // a leaf has been seen, so len(shape) is final
	nodes  []*autodiff.Node
}

func (b *builder) walk(v reflect.Value, depth int) error {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return fmt.Errorf("%w: nil element", ErrTypeMismatch)
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return b.leaf(v, depth)
	}

	n := v.Len()
	if n == 0 {
		return fmt.Errorf("%w: empty sequence at depth %d", ErrEmptyInput, depth)
	}

	switch {
	case depth < len(b.shape):
		if b.shape[depth] != n {
			return fmt.Errorf("%w: ragged input at depth %d (%d vs %d)", ErrShapeMismatch, depth, n, b.shape[depth])
		}
	case b.sealed:
		return fmt.Errorf("%w: ragged input, unexpected nesting at depth %d", ErrShapeMismatch, depth)
	case len(b.shape) == MaxRank:
		return fmt.Errorf("%w: more than %d dimensions", ErrInvalidRank, MaxRank)
	default:
		b.shape = append(b.shape, n)
	}

	for i := 0; i < n; i++ {
		if err := b.walk(v.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) leaf(v reflect.Value, depth int) error {
	node, err := autodiff.Lift(v.Interface())
	if err != nil {
		return err
	}
	if b.sealed && depth != len(b.shape) {
		return fmt.Errorf("%w: ragged input, value at depth %d", ErrShapeMismatch, depth)
	}
	b.sealed = true
	b.nodes = append(b.nodes, node)
	return nil
}

// Shape returns a copy of the shape.
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.shape)
}

// Len returns the size of the first dimension.
func (a *Array) Len() int {
	return a.shape[0]
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	return len(a.nodes)
}
