package nn

import (
	"fmt"
	"math"
)

// DefaultActivation is used when a Topology leaves Activation empty.
const DefaultActivation = "tanh"

// ActivationFunc squashes a neuron's weighted sum into its output.
type ActivationFunc func(x float64) float64

// Activations maps activation names to functions so that configs and
// serialized networks can refer to them by name.
var Activations = map[string]ActivationFunc{
	"tanh":     math.Tanh,
	"sigmoid":  Sigmoid,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"sine":     math.Sin,
	"hat":      Hat,
	"softsign": Softsign,
}

// GetActivation retrieves an activation function by name.
// An empty name resolves to DefaultActivation.
func GetActivation(name string) (ActivationFunc, error) {
	if name == "" {
		name = DefaultActivation
	}
	if fn, ok := Activations[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped limits x to [-1, 1].
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Hat is a triangular pulse centered at 0.
func Hat(x float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}

// Softsign maps x to x / (1 + |x|).
func Softsign(x float64) float64 {
	return x / (1.0 + math.Abs(x))
}
