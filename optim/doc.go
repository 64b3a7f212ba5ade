// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minigrad/nn"
//	    "github.com/born-ml/minigrad/optim"
//	)
//
//	func main() {
//	    model := nn.NewLinear(2, 1, true, nil)
//	    optimizer := optim.NewSGD(nn.Learnable(model), optim.SGDConfig{LR: 0.1})
//
//	    for range epochs {
//	        optimizer.ZeroGrad()
//	        pred, _ := model.Forward(x)
//	        loss, _ := nn.NewMSELoss().Forward(pred, y)
//	        loss.Backward()
//	        optimizer.Step()
//	    }
//	}
//
// Step must run after a completed backward pass and before the next forward
// pass reuses the same Nodes.
package optim
