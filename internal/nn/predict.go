package nn

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/tensor"
)

// Predict runs m.Forward on every input and returns the outputs in input
// order. The first failing sample aborts the batch.
func Predict(m Module, inputs []*tensor.Array) ([]*tensor.Array, error) {
	outs := make([]*tensor.Array, len(inputs))
	for i, in := range inputs {
		out, err := m.Forward(in)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		outs[i] = out
	}
	return outs, nil
}
