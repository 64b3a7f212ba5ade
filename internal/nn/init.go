package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/minigrad/internal/tensor"
)

// Uniform creates an Array of leaves drawn from U(-bound, bound).
//
// rng may be nil, in which case the global math/rand source is used.
func Uniform(shape tensor.Shape, bound float64, rng *rand.Rand) *tensor.Array {
	values := make([]float64, shape.NumElements())
	for i := range values {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		values[i] = (float64FromRand(rng)*2.0 - 1.0) * bound
	}

	a, err := tensor.FromSlice(values, shape)
	if err != nil {
		panic(err)
	}
	return a
}

func float64FromRand(rng *rand.Rand) float64 {
	if rng == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		return rand.Float64()
	}
	return rng.Float64()
}

// LeCunUniform initializes weights from U(-sqrt(1/fan_in), sqrt(1/fan_in)),
// the default for Linear layers.
func LeCunUniform(fanIn int, shape tensor.Shape, rng *rand.Rand) *tensor.Array {
	return Uniform(shape, math.Sqrt(1.0/float64(fanIn)), rng)
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Array {
	return Uniform(shape, math.Sqrt(6.0/float64(fanIn+fanOut)), rng)
}

// Zeros creates an Array of zero-valued leaves.
func Zeros(shape tensor.Shape) *tensor.Array {
	a, err := tensor.Zeros(shape)
	if err != nil {
		panic(err)
	}
	return a
}
