package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/minigrad/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x · Wᵀ + b
// where:
//   - x is a row vector with shape [in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is a vector with shape [out_features]
//
// Weights and biases are drawn from U(-sqrt(1/in), sqrt(1/in)).
//
// Example:
//
//	layer := nn.NewLinear(2, 3, true, nil)
//	x := tensor.MustNew([]float64{5, 6})
//	y, err := layer.Forward(x) // shape [3]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features], nil when disabled
}

// NewLinear creates a new Linear layer.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output features
//   - bias: Whether to learn an additive bias
//   - rng: Random source for initialization (nil for the global source)
func NewLinear(inFeatures, outFeatures int, bias bool, rng *rand.Rand) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("NewLinear: features must be positive, got %d→%d", inFeatures, outFeatures))
	}

	l := &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", LeCunUniform(inFeatures, tensor.Shape{outFeatures, inFeatures}, rng)),
	}
	if bias {
		l.bias = NewParameter("bias", LeCunUniform(inFeatures, tensor.Shape{outFeatures}, rng))
	}
	return l
}

// Forward computes y = x · Wᵀ + b for a row vector x of length in_features.
func (l *Linear) Forward(input *tensor.Array) (*tensor.Array, error) {
	if input.Rank() != 1 || input.Len() != l.inFeatures {
		return nil, fmt.Errorf("Linear.Forward: %w: expected input shape [%d], got %v",
			tensor.ErrShapeMismatch, l.inFeatures, input.Shape())
	}

	wT, err := l.weight.Array().Transpose() // [in_features, out_features]
	if err != nil {
		return nil, err
	}

	output, err := input.Mul(wT)
	if err != nil {
		return nil, fmt.Errorf("Linear.Forward: %w", err)
	}

	if l.bias != nil {
		output, err = output.Add(l.bias.Array())
		if err != nil {
			return nil, fmt.Errorf("Linear.Forward: %w", err)
		}
	}

	return output, nil
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear) Parameters() []*Parameter {
	if l.bias != nil {
		return []*Parameter{l.weight, l.bias}
	}
	return []*Parameter{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter, or nil when the layer has no bias.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns the layer's parameters keyed by "weight" and "bias".
func (l *Linear) StateDict() map[string]*tensor.Array {
	stateDict := make(map[string]*tensor.Array)
	for _, p := range l.Parameters() {
		stateDict[p.Name()] = p.Array()
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary.
func (l *Linear) LoadStateDict(stateDict map[string]*tensor.Array) error {
	for _, p := range l.Parameters() {
		src, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing parameter %q", p.Name())
		}
		if err := p.Load(src); err != nil {
			return err
		}
	}
	return nil
}
