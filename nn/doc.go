// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear
//   - Activations: ReLU, Sigmoid
//   - Loss functions: BCELoss, MSELoss
//   - Utilities: Sequential, Module interface, Parameter, Checkpoint
//   - Initialization: Uniform, Xavier, Zeros
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minigrad/nn"
//	    "github.com/born-ml/minigrad/optim"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewSource(1))
//	    model := nn.NewSequential(
//	        nn.NewLinear(2, 4, true, rng),
//	        nn.NewSigmoid(),
//	        nn.NewLinear(4, 1, true, rng),
//	        nn.NewSigmoid(),
//	    )
//	    optimizer := optim.NewAdam(nn.Learnable(model), optim.AdamConfig{LR: 0.05})
//	    // forward, loss.Backward(), optimizer.Step()
//	}
//
// Parameters are ordinary leaf Nodes. Optimizers change their values in
// place, so a model can be trained without rebuilding it.
package nn
