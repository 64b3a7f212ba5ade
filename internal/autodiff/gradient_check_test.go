package autodiff_test

import (
	"testing"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// build evaluates an expression over fresh leaves and returns the root and leaves.
type build func(x []*autodiff.Node) *autodiff.Node

func leaves(values []float64) []*autodiff.Node {
	out := make([]*autodiff.Node, len(values))
	for i, v := range values {
		out[i] = autodiff.New(v)
	}
	return out
}

// checkGradient compares Backward against central finite differences.
func checkGradient(t *testing.T, f build, at []float64) {
	t.Helper()

	xs := leaves(at)
	f(xs).Backward()

	numeric := fd.Gradient(nil, func(v []float64) float64 {
		return f(leaves(v)).Value()
	}, at, &fd.Settings{Formula: fd.Central, Step: 1e-6})

	require.Len(t, numeric, len(xs))
	for i, x := range xs {
		assert.InDelta(t, numeric[i], x.Grad(), 1e-5, "d/dx%d", i)
	}
}

// TestGradientCheck tests analytic gradients against finite differences.
func TestGradientCheck(t *testing.T) {
	mustLog := func(n *autodiff.Node) *autodiff.Node {
		l, err := n.Log()
		require.NoError(t, err)
		return l
	}

	tests := []struct {
		name string
		f    build
		at   []float64
	}{
		{"polynomial", func(x []*autodiff.Node) *autodiff.Node {
			return x[0].Mul(x[1]).Add(x[1].PowScalar(2))
		}, []float64{3, 4}},
		{"quotient", func(x []*autodiff.Node) *autodiff.Node {
			return x[0].Sub(x[1]).Div(x[0].Add(x[1]))
		}, []float64{1.5, -0.25}},
		{"sigmoid chain", func(x []*autodiff.Node) *autodiff.Node {
			return x[0].MulScalar(2).Add(x[1]).Sigmoid().Mul(x[0])
		}, []float64{0.3, -1.2}},
		{"log", func(x []*autodiff.Node) *autodiff.Node {
			return mustLog(x[0].Mul(x[0]).Add(x[1]))
		}, []float64{0.7, 2}},
		{"relu", func(x []*autodiff.Node) *autodiff.Node {
			return x[0].Sub(x[1]).ReLU().Mul(x[1])
		}, []float64{2, 0.5}},
		{"bce", func(x []*autodiff.Node) *autodiff.Node {
			p := x[0].Sigmoid()
			y := 0.8
			return mustLog(p).MulScalar(y).Add(mustLog(autodiff.RSub(1, p)).MulScalar(1 - y)).Neg()
		}, []float64{0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, tt.f, tt.at)
		})
	}
}
