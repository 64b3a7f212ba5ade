// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Array is an N-dimensional container of autodiff Nodes.
type Array = tensor.Array

// Shape represents the dimensions of an Array.
type Shape = tensor.Shape

// MaxRank is the highest supported number of dimensions.
const MaxRank = tensor.MaxRank

// Errors.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrInvalidRank     = tensor.ErrInvalidRank
	ErrUnsupportedRank = tensor.ErrUnsupportedRank
	ErrEmptyInput      = tensor.ErrEmptyInput
	ErrNotScalar       = tensor.ErrNotScalar
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
	ErrTypeMismatch    = tensor.ErrTypeMismatch
)

// New builds an Array from nested slices of numbers or Nodes.
//
// Example:
//
//	a, err := tensor.New([][]float64{{1, 2}, {3, 4}})
func New(data any) (*Array, error) {
	return tensor.New(data)
}

// MustNew is like New but panics on error.
func MustNew(data any) *Array {
	return tensor.MustNew(data)
}

// FromSlice creates an Array of leaves from flat row-major values.
func FromSlice(values []float64, shape Shape) (*Array, error) {
	return tensor.FromSlice(values, shape)
}

// FromNodes creates an Array over existing Nodes without copying them.
func FromNodes(nodes []*autodiff.Node, shape Shape) (*Array, error) {
	return tensor.FromNodes(nodes, shape)
}

// FromDense creates a rank-2 Array of leaves from a gonum matrix.
func FromDense(m mat.Matrix) (*Array, error) {
	return tensor.FromDense(m)
}

// Zeros creates an Array of zero-valued leaves.
func Zeros(shape Shape) (*Array, error) {
	return tensor.Zeros(shape)
}
