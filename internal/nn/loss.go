package nn

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/tensor"
)

// BCELoss computes the binary cross entropy between a predicted probability
// and a label:
//
//	BCE(y, p) = -[y·log(p) + (1-y)·log(1-p)]
//
// Both inputs must be single-element vectors. A prediction outside (0, 1)
// makes one of the logarithms undefined and fails with autodiff.ErrDomain.
//
// Example:
//
//	var bce nn.BCELoss
//	loss, err := bce.Forward(tensor.MustNew([]float64{0.5}), tensor.MustNew([]float64{1}))
//	loss.Backward()
type BCELoss struct{}

// NewBCELoss creates a new binary cross entropy loss.
func NewBCELoss() *BCELoss {
	return &BCELoss{}
}

// Forward computes the loss as a single Node.
func (BCELoss) Forward(pred, label *tensor.Array) (*autodiff.Node, error) {
	p, err := pred.Item()
	if err != nil {
		return nil, fmt.Errorf("BCELoss: prediction: %w", err)
	}
	y, err := label.Item()
	if err != nil {
		return nil, fmt.Errorf("BCELoss: label: %w", err)
	}

	logP, err := p.Log()
	if err != nil {
		return nil, fmt.Errorf("BCELoss: %w", err)
	}
	logNotP, err := autodiff.RSub(1, p).Log()
	if err != nil {
		return nil, fmt.Errorf("BCELoss: %w", err)
	}

	return y.Mul(logP).Add(autodiff.RSub(1, y).Mul(logNotP)).Neg(), nil
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Predictions and targets must have the same shape (any rank).
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the loss as a single Node.
func (MSELoss) Forward(predictions, targets *tensor.Array) (*autodiff.Node, error) {
	if !predictions.Shape().Equal(targets.Shape()) {
		return nil, fmt.Errorf("MSELoss: %w: predictions %v, targets %v",
			tensor.ErrShapeMismatch, predictions.Shape(), targets.Shape())
	}

	p, t := predictions.Nodes(), targets.Nodes()
	var sum *autodiff.Node
	for i := range p {
		diff := p[i].Sub(t[i])
		sq := diff.Mul(diff)
		if sum == nil {
			sum = sq
		} else {
			sum = sum.Add(sq)
		}
	}

	return sum.DivScalar(float64(len(p))), nil
}
