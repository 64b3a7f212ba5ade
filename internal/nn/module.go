// Package nn implements neural network building blocks on top of tensor.Array.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named Array of learnable leaf Nodes
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid
//   - Sequential: Container for stacking layers
//   - Loss functions: BCE, MSE
//
// Parameter collection is explicit: every module lists its own parameters and
// those of the modules it contains.
package nn

import (
	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 4, true, rng),
//	    nn.NewSigmoid(),
//	    nn.NewLinear(4, 1, true, rng),
//	    nn.NewSigmoid(),
//	)
type Module interface {
	// Forward computes the output of the module given an input Array.
	Forward(input *tensor.Array) (*tensor.Array, error)

	// Parameters returns all trainable parameters of this module, including
	// those of nested modules, in a stable order. Modules without
	// trainable parameters return nil.
	Parameters() []*Parameter

	// StateDict returns parameter Arrays keyed by name.
	StateDict() map[string]*tensor.Array

	// LoadStateDict copies values from stateDict into the module's
	// parameters. Shapes must match.
	LoadStateDict(stateDict map[string]*tensor.Array) error
}

// Learnable returns every learnable leaf Node of m as one flat ordered slice.
// This is what optimizers consume.
func Learnable(m Module) []*autodiff.Node {
	var nodes []*autodiff.Node
	for _, p := range m.Parameters() {
		nodes = append(nodes, p.Nodes()...)
	}
	return nodes
}

// ZeroGrad resets the gradient of every parameter of m.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// stateless is embedded by modules without parameters.
type stateless struct{}

// Parameters returns nil.
func (stateless) Parameters() []*Parameter {
	return nil
}

// StateDict returns an empty map.
func (stateless) StateDict() map[string]*tensor.Array {
	return map[string]*tensor.Array{}
}

// LoadStateDict ignores its input.
func (stateless) LoadStateDict(map[string]*tensor.Array) error {
	return nil
}
