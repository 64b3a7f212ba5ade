// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/nn"
	"github.com/born-ml/minigrad/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and Array.
func NewParameter(name string, a *tensor.Array) *Parameter {
	return nn.NewParameter(name, a)
}

// Learnable returns every learnable leaf Node of m in a stable order.
func Learnable(m Module) []*autodiff.Node {
	return nn.Learnable(m)
}

// ZeroGrad resets the gradient of every parameter of m.
func ZeroGrad(m Module) {
	nn.ZeroGrad(m)
}

// Predict runs m.Forward on every input and returns outputs in input order.
func Predict(m Module, inputs []*tensor.Array) ([]*tensor.Array, error) {
	return nn.Predict(m, inputs)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with weights in ±sqrt(1/in).
//
// Example:
//
//	layer := nn.NewLinear(2, 4, true, rand.New(rand.NewSource(1)))
func NewLinear(inFeatures, outFeatures int, bias bool, rng *rand.Rand) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, bias, rng)
}

// Activations

// ReLU represents the Rectified Linear Unit activation.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Sigmoid represents the sigmoid activation.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Containers

// Sequential chains modules in order.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Loss functions

// BCELoss is binary cross entropy on a single probability.
type BCELoss = nn.BCELoss

// NewBCELoss creates a new binary cross entropy loss.
func NewBCELoss() *BCELoss {
	return nn.NewBCELoss()
}

// MSELoss is mean squared error.
type MSELoss = nn.MSELoss

// NewMSELoss creates a new MSE loss.
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// Checkpoints

// Checkpoint is a training state snapshot.
type Checkpoint = nn.Checkpoint

// OptimizerState is an optimizer whose state can be checkpointed.
type OptimizerState = nn.OptimizerState

// LoadCheckpoint restores model and optimizer state from a .mgrd file.
func LoadCheckpoint(path string, model Module, optimizer OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, model, optimizer)
}

// Initialization

// Uniform creates an Array of leaves drawn from U(-bound, bound).
func Uniform(shape tensor.Shape, bound float64, rng *rand.Rand) *tensor.Array {
	return nn.Uniform(shape, bound, rng)
}

// Xavier creates an Array with Glorot uniform initialization.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Array {
	return nn.Xavier(fanIn, fanOut, shape, rng)
}

// Zeros creates an Array of zero-valued leaves.
func Zeros(shape tensor.Shape) *tensor.Array {
	return nn.Zeros(shape)
}
