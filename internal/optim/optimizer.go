// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers hold the flat slice of learnable leaf Nodes and update their
// values in place from the gradients left by the last backward pass.
//
// Example usage:
//
//	optimizer := optim.NewAdam(nn.Learnable(model), optim.AdamConfig{
//	    LR: 0.01,
//	})
//
//	for epoch := range epochs {
//	    optimizer.ZeroGrad()
//	    pred, _ := model.Forward(x)
//	    loss, _ := bce.Forward(pred, y)
//	    loss.Backward()
//	    optimizer.Step()
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step updates every parameter value from its current gradient.
	//
	// It must run after a completed backward pass and before the next
	// forward pass reuses the same Nodes.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Gradients accumulate, so this should be called before each
	// backward pass.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// zeroGrads resets the gradient of every node.
func zeroGrads(params []*autodiff.Node) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// bufferArray wraps an optimizer buffer as a rank-1 Array for state dicts.
func bufferArray(buf []float64) *tensor.Array {
	a, err := tensor.FromSlice(buf, tensor.Shape{len(buf)})
	if err != nil {
		panic(err)
	}
	return a
}

// loadBuffer copies a saved buffer into dst after checking its shape.
func loadBuffer(name string, dst []float64, src *tensor.Array) error {
	if !src.Shape().Equal(tensor.Shape{len(dst)}) {
		return fmt.Errorf("%s: %w: expected [%d], got %v", name, tensor.ErrShapeMismatch, len(dst), src.Shape())
	}
	copy(dst, src.Values())
	return nil
}
