// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Every value is a Node that remembers the operands and operation that
// produced it. Calling Backward on a result fills the gradient of every Node
// that contributed to it.
//
// Example:
//
//	import "github.com/born-ml/minigrad/autodiff"
//
//	func main() {
//	    a := autodiff.NewLabeled(2, "a")
//	    b := autodiff.NewLabeled(3, "b")
//	    f := a.Mul(b).Add(b.PowScalar(2))
//	    f.Backward()
//	    fmt.Println(a.Grad(), b.Grad()) // 3 8
//	}
//
// Gradients accumulate across Backward calls; reset them with ZeroGrad or
// ZeroGrads before reusing a graph.
package autodiff

import (
	"github.com/born-ml/minigrad/internal/autodiff"
)

// Node is a scalar value in a computation graph.
type Node = autodiff.Node

// Op identifies the operation that produced a Node.
type Op = autodiff.Op

// Edge is an operand → result link reported by Trace.
type Edge = autodiff.Edge

// Operation kinds.
const (
	OpNone    = autodiff.OpNone
	OpAdd     = autodiff.OpAdd
	OpMul     = autodiff.OpMul
	OpPow     = autodiff.OpPow
	OpSigmoid = autodiff.OpSigmoid
	OpReLU    = autodiff.OpReLU
	OpLog     = autodiff.OpLog
)

// Errors.
var (
	ErrTypeMismatch = autodiff.ErrTypeMismatch
	ErrDomain       = autodiff.ErrDomain
)

// New creates a leaf Node.
func New(value float64) *Node {
	return autodiff.New(value)
}

// NewLabeled creates a leaf Node with a display label.
func NewLabeled(value float64, label string) *Node {
	return autodiff.NewLabeled(value, label)
}

// Lift wraps a number as a leaf Node, or returns v itself when it already is one.
func Lift(v any) (*Node, error) {
	return autodiff.Lift(v)
}

// Backward computes gradients of root with respect to every reachable Node.
func Backward(root *Node) {
	autodiff.Backward(root)
}

// ZeroGrads resets the gradient of every Node reachable from root.
func ZeroGrads(root *Node) {
	autodiff.ZeroGrads(root)
}

// TopoSort returns the Nodes reachable from root, operands before results.
func TopoSort(root *Node) []*Node {
	return autodiff.TopoSort(root)
}

// Trace returns every Node reachable from root and the operand edges between them.
func Trace(root *Node) ([]*Node, []Edge) {
	return autodiff.Trace(root)
}

// RSub returns c - n.
func RSub(c float64, n *Node) *Node {
	return autodiff.RSub(c, n)
}

// RDiv returns c / n.
func RDiv(c float64, n *Node) *Node {
	return autodiff.RDiv(c, n)
}

// RPow returns c ** n.
func RPow(c float64, n *Node) *Node {
	return autodiff.RPow(c, n)
}
