package optim

import (
	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(nn.Learnable(model), optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*autodiff.Node
	lr         float64
	momentum   float64
	velocities []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over the given learnable Nodes.
func NewSGD(params []*autodiff.Node, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([]float64, len(params)),
	}
}

// Step performs a single optimization step.
//
// Every parameter is updated. A Node that did not take part in the last
// graph has a zero gradient, so only its velocity moves it.
func (s *SGD) Step() {
	for i, p := range s.params {
		g := p.Grad()
		if s.momentum == 0 {
			p.SetValue(p.Value() - s.lr*g)
			continue
		}
		s.velocities[i] = s.momentum*s.velocities[i] + g
		p.SetValue(p.Value() - s.lr*s.velocities[i])
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrads(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Name returns "SGD".
func (s *SGD) Name() string {
	return "SGD"
}

// Config returns the hyperparameters for checkpoint headers.
func (s *SGD) Config() map[string]float64 {
	return map[string]float64{"lr": s.lr, "momentum": s.momentum}
}

// StateDict returns the optimizer state for serialization.
//
// With momentum the velocity buffer is exported under "velocity".
// Without momentum, returns an empty map.
func (s *SGD) StateDict() map[string]*tensor.Array {
	stateDict := make(map[string]*tensor.Array)
	if s.momentum == 0 || len(s.params) == 0 {
		return stateDict
	}
	stateDict["velocity"] = bufferArray(s.velocities)
	return stateDict
}

// LoadStateDict restores the velocity buffer. A missing entry leaves the
// velocities at zero.
func (s *SGD) LoadStateDict(stateDict map[string]*tensor.Array) error {
	if s.momentum == 0 {
		return nil
	}
	if v, ok := stateDict["velocity"]; ok {
		return loadBuffer("velocity", s.velocities, v)
	}
	clear(s.velocities)
	return nil
}
