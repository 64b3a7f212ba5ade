package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/nn"
	"github.com/born-ml/minigrad/internal/optim"
	"github.com/born-ml/minigrad/internal/tensor"
)

// withGrad returns a leaf of value v whose gradient is g.
func withGrad(v, g float64) *autodiff.Node {
	n := autodiff.New(v)
	n.MulScalar(g).Backward()
	return n
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	x := withGrad(2.0, 1.0)
	optimizer := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1})

	optimizer.Step()
	assert.InDelta(t, 1.9, x.Value(), 1e-12)
	assert.InDelta(t, 0.1, optimizer.GetLR(), 1e-12)
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	x := withGrad(2.0, 1.0)
	optimizer := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// v1 = 1, x = 2 - 0.1
	optimizer.Step()
	assert.InDelta(t, 1.9, x.Value(), 1e-12)

	// v2 = 0.9 + 1 = 1.9, x = 1.9 - 0.19
	optimizer.Step()
	assert.InDelta(t, 1.71, x.Value(), 1e-12)
}

// TestSGD_Defaults tests default learning rate and SetLR.
func TestSGD_Defaults(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	assert.InDelta(t, 0.01, optimizer.GetLR(), 1e-12)

	optimizer.SetLR(0.5)
	assert.InDelta(t, 0.5, optimizer.GetLR(), 1e-12)
	assert.Equal(t, "SGD", optimizer.Name())
}

// TestSGD_ZeroGradientStillSteps tests that a node with zero gradient keeps its momentum.
func TestSGD_ZeroGradientStillSteps(t *testing.T) {
	x := withGrad(1.0, 1.0)
	optimizer := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 1, Momentum: 0.5})

	optimizer.Step() // v = 1, x = 0
	optimizer.ZeroGrad()
	assert.Zero(t, x.Grad())

	optimizer.Step() // v = 0.5, x = -0.5
	assert.InDelta(t, -0.5, x.Value(), 1e-12)
}

// TestAdam_FirstStep tests that the first Adam step moves by about lr.
func TestAdam_FirstStep(t *testing.T) {
	x := withGrad(1.0, 4.0)
	y := withGrad(1.0, -0.01)
	optimizer := optim.NewAdam([]*autodiff.Node{x, y}, optim.AdamConfig{LR: 0.1})

	optimizer.Step()
	assert.Equal(t, 1, optimizer.GetTimestep())

	// m_hat = g, v_hat = g², so the update is lr * sign(g).
	assert.InDelta(t, 0.9, x.Value(), 1e-6)
	assert.InDelta(t, 1.1, y.Value(), 1e-6)
}

// TestAdam_Defaults tests default hyperparameters.
func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	assert.InDelta(t, 0.001, optimizer.GetLR(), 1e-12)

	cfg := optimizer.Config()
	assert.InDelta(t, 0.9, cfg["beta1"], 1e-12)
	assert.InDelta(t, 0.999, cfg["beta2"], 1e-12)
	assert.InDelta(t, 1e-8, cfg["eps"], 1e-20)
	assert.Equal(t, "Adam", optimizer.Name())
}

// TestSGD_LinearRegression tests convergence on y = 2x + 1.
func TestSGD_LinearRegression(t *testing.T) {
	layer := nn.NewLinear(1, 1, true, nil)
	require.NoError(t, layer.LoadStateDict(map[string]*tensor.Array{
		"weight": tensor.MustNew([][]float64{{0}}),
		"bias":   tensor.MustNew([]float64{0}),
	}))

	optimizer := optim.NewSGD(nn.Learnable(layer), optim.SGDConfig{LR: 0.05, Momentum: 0.5})
	mse := nn.NewMSELoss()
	xs := []float64{-1, 0, 1, 2}

	for range 500 {
		for _, x := range xs {
			optimizer.ZeroGrad()
			pred, err := layer.Forward(tensor.MustNew([]float64{x}))
			require.NoError(t, err)
			loss, err := mse.Forward(pred, tensor.MustNew([]float64{2*x + 1}))
			require.NoError(t, err)
			loss.Backward()
			optimizer.Step()
		}
	}

	assert.InDelta(t, 2.0, layer.Weight().Array().Values()[0], 1e-3)
	assert.InDelta(t, 1.0, layer.Bias().Array().Values()[0], 1e-3)
}

// TestAdam_Quadratic tests Adam minimizing (x-3)².
func TestAdam_Quadratic(t *testing.T) {
	x := autodiff.New(0)
	optimizer := optim.NewAdam([]*autodiff.Node{x}, optim.AdamConfig{LR: 0.1})

	for range 1000 {
		optimizer.ZeroGrad()
		x.SubScalar(3).PowScalar(2).Backward()
		optimizer.Step()
	}

	assert.InDelta(t, 3.0, x.Value(), 1e-2)
}

// TestStateDict tests optimizer state export and restore.
func TestStateDict(t *testing.T) {
	x := withGrad(1.0, 2.0)
	sgd := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	sgd.Step()

	state := sgd.StateDict()
	require.Contains(t, state, "velocity")
	assert.Equal(t, []float64{2}, state["velocity"].Values())

	other := optim.NewSGD([]*autodiff.Node{autodiff.New(0)}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	require.NoError(t, other.LoadStateDict(state))
	assert.Equal(t, []float64{2}, other.StateDict()["velocity"].Values())

	bad := map[string]*tensor.Array{"velocity": tensor.MustNew([]float64{1, 2})}
	assert.ErrorIs(t, other.LoadStateDict(bad), tensor.ErrShapeMismatch)

	plain := optim.NewSGD([]*autodiff.Node{x}, optim.SGDConfig{LR: 0.1})
	assert.Empty(t, plain.StateDict())

	adam := optim.NewAdam([]*autodiff.Node{x}, optim.AdamConfig{})
	adam.Step()
	adam.Step()
	adamState := adam.StateDict()
	assert.Equal(t, []float64{2}, adamState["step"].Values())

	restored := optim.NewAdam([]*autodiff.Node{autodiff.New(0)}, optim.AdamConfig{})
	require.NoError(t, restored.LoadStateDict(adamState))
	assert.Equal(t, 2, restored.GetTimestep())

	delete(adamState, "v")
	assert.Error(t, restored.LoadStateDict(adamState))
}

// TestOptimizerInterface tests that both optimizers satisfy the interfaces they are used through.
func TestOptimizerInterface(t *testing.T) {
	var opts []optim.Optimizer
	opts = append(opts, optim.NewSGD(nil, optim.SGDConfig{}), optim.NewAdam(nil, optim.AdamConfig{}))
	for _, o := range opts {
		_, ok := o.(nn.OptimizerState)
		assert.True(t, ok)
		assert.False(t, math.IsNaN(o.GetLR()))
	}
}
