// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides N-dimensional arrays of autodiff Nodes.
//
// # Overview
//
// An Array holds between one and four dimensions of Nodes in row-major
// order. Every operation is built from Node operations, so the Nodes of a
// result already carry the graph needed for Backward.
//
// # Basic Usage
//
//	import "github.com/born-ml/minigrad/tensor"
//
//	func main() {
//	    a := tensor.MustNew([][]float64{{1, 2, 3}, {4, 5, 6}})
//	    b := tensor.MustNew([][]float64{{7, 8}, {9, 10}, {11, 12}})
//
//	    c, err := a.Mul(b) // [[58 64] [139 154]]
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    c.Sum().Backward()
//	}
//
// # Multiplication
//
// Mul dispatches on the ranks of its operands:
//   - scalar: every element times the scalar
//   - vector · vector: dot product, a single-element vector
//   - vector · matrix: row vector times matrix
//   - matrix · matrix: matrix product, leading size-1 dimensions dropped
//
// Any other combination fails with ErrUnsupportedRank.
package tensor
