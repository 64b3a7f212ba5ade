package nn

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// It is a named Array whose elements are leaf Nodes. Optimizers update the
// Node values in place, so the Array keeps its identity across steps.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightArray)
//	nodes := weight.Nodes() // hand to an optimizer
type Parameter struct {
	name  string        // Parameter name (e.g., "weight", "bias")
	array *tensor.Array // The parameter values
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, a *tensor.Array) *Parameter {
	return &Parameter{
		name:  name,
		array: a,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Array returns the parameter Array.
func (p *Parameter) Array() *tensor.Array {
	return p.array
}

// Nodes returns the parameter's leaf Nodes in row-major order.
func (p *Parameter) Nodes() []*autodiff.Node {
	return p.array.Nodes()
}

// ZeroGrad clears the gradient of every element.
func (p *Parameter) ZeroGrad() {
	p.array.ZeroGrad()
}

// Load copies the values of src into this parameter's Nodes.
// Node identities are kept, so graphs built later see the new values.
func (p *Parameter) Load(src *tensor.Array) error {
	if !src.Shape().Equal(p.array.Shape()) {
		return fmt.Errorf("parameter %q: %w: have %v, got %v",
			p.name, tensor.ErrShapeMismatch, p.array.Shape(), src.Shape())
	}
	values := src.Values()
	for i, n := range p.array.Nodes() {
		n.SetValue(values[i])
	}
	return nil
}
