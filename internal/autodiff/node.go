// Package autodiff implements a scalar reverse-mode automatic differentiation engine.
//
// Every Node holds a value, an accumulated gradient, the operation that produced
// it and the operand Nodes it was computed from. Arithmetic on Nodes builds a
// directed acyclic graph; Backward walks that graph in reverse topological order
// and adds ∂root/∂node into each Node's gradient.
//
// Usage:
//
//	a := autodiff.New(3)
//	b := autodiff.New(4)
//	f := a.Mul(b).Add(b.PowScalar(2)) // f = a*b + b²
//	f.Backward()
//	fmt.Println(a.Grad(), b.Grad()) // 4 11
//
// Gradients accumulate across Backward calls. Callers zero them between
// training steps (see ZeroGrad).
//
// Nodes are not safe for concurrent mutation. Serialize graph construction
// and backward passes over a shared graph.
package autodiff

import (
	"fmt"
	"strconv"
)

// Node is a scalar value plus its place in a differentiable computation graph.
//
// The operand list and operation are fixed at construction. Only the gradient
// (and, for optimizers, the value of leaf Nodes) changes afterwards.
type Node struct {
	value    float64
	grad     float64
	operands []*Node
	op       Op
	label    string
}

// New creates a leaf Node holding value.
func New(value float64) *Node {
	return &Node{value: value}
}

// NewLabeled creates a leaf Node with a display label.
func NewLabeled(value float64, label string) *Node {
	return &Node{value: value, label: label}
}

// constant wraps a raw number the way operators do: a fresh leaf labelled
// with the number's decimal text.
func constant(value float64) *Node {
	return &Node{value: value, label: strconv.FormatFloat(value, 'g', -1, 64)}
}

// Lift wraps v into a Node.
//
// A *Node is returned unchanged. Go numeric kinds (all int/uint widths,
// float32, float64) become fresh leaves. Booleans and every other type
// fail with ErrTypeMismatch.
func Lift(v any) (*Node, error) {
	switch x := v.(type) {
	case *Node:
		if x == nil {
			return nil, fmt.Errorf("%w: nil *Node", ErrTypeMismatch)
		}
		return x, nil
	case float64:
		return constant(x), nil
	case float32:
		return constant(float64(x)), nil
	case int:
		return constant(float64(x)), nil
	case int8:
		return constant(float64(x)), nil
	case int16:
		return constant(float64(x)), nil
	case int32:
		return constant(float64(x)), nil
	case int64:
		return constant(float64(x)), nil
	case uint:
		return constant(float64(x)), nil
	case uint8:
		return constant(float64(x)), nil
	case uint16:
		return constant(float64(x)), nil
	case uint32:
		return constant(float64(x)), nil
	case uint64:
		return constant(float64(x)), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrTypeMismatch, v)
	}
}

// Value returns the node's value.
func (n *Node) Value() float64 {
	return n.value
}

// SetValue overwrites the node's value.
//
// Intended for optimizers updating leaf parameters between a completed
// backward pass and the next forward pass. Values of derived Nodes are not
// recomputed.
func (n *Node) SetValue(v float64) {
	n.value = v
}

// Grad returns the accumulated gradient.
func (n *Node) Grad() float64 {
	return n.grad
}

// ZeroGrad resets the accumulated gradient to 0.
func (n *Node) ZeroGrad() {
	n.grad = 0
}

// Op returns the operation that produced this node (OpNone for leaves).
func (n *Node) Op() Op {
	return n.op
}

// Operands returns a copy of the node's operand list.
func (n *Node) Operands() []*Node {
	if len(n.operands) == 0 {
		return nil
	}
	out := make([]*Node, len(n.operands))
	copy(out, n.operands)
	return out
}

// IsLeaf reports whether the node has no operands.
func (n *Node) IsLeaf() bool {
	return len(n.operands) == 0
}

// Label returns the display label.
func (n *Node) Label() string {
	return n.label
}

// SetLabel sets the display label. Labels carry no semantics.
func (n *Node) SetLabel(label string) {
	n.label = label
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("Node(value=%g, grad=%g)", n.value, n.grad)
}
