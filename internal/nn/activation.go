package nn

import (
	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// Example:
//
//	relu := nn.NewReLU()
//	output, _ := relu.Forward(input) // All negative values become 0
type ReLU struct {
	stateless
}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU to every element. Any rank is accepted.
func (r *ReLU) Forward(input *tensor.Array) (*tensor.Array, error) {
	return input.Map((*autodiff.Node).ReLU), nil
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Sigmoid squashes values to the range (0, 1), making it useful for
// binary classification.
type Sigmoid struct {
	stateless
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies the sigmoid to every element. Any rank is accepted.
func (s *Sigmoid) Forward(input *tensor.Array) (*tensor.Array, error) {
	return input.Map((*autodiff.Node).Sigmoid), nil
}
