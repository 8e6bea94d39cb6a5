package nn

import "math/rand"

// Neuron is a single weighted unit.
//
// Weights has len(inputs)+2 entries: Weights[0] scales the bias,
// Weights[1] scales the neuron's previous Output (times the network's
// memory rate) and Weights[2:] scale the inputs.
type Neuron struct {
	Bias    float64
	Weights []float64
	// Output is the last value produced by Predict. It is the recurrent
	// state and is never serialized.
	Output float64
}

func newNeuron(inputCount int, rng *rand.Rand) *Neuron {
	n := &Neuron{
		Bias:    uniform(rng),
		Weights: make([]float64, inputCount+2),
	}
	for i := range n.Weights {
		n.Weights[i] = uniform(rng)
	}
	return n
}

// InputCount is the input width this neuron was built for.
func (n *Neuron) InputCount() int {
	return len(n.Weights) - 2
}

// Predict computes and stores the neuron's new output. The caller
// guarantees len(inputs) == n.InputCount().
func (n *Neuron) Predict(inputs []float64, memoryRate float64, f ActivationFunc) float64 {
	sum := n.Bias*n.Weights[0] + n.Output*n.Weights[1]*memoryRate
	for i, x := range inputs {
		sum += x * n.Weights[i+2]
	}
	n.Output = f(sum)
	return n.Output
}

// uniform draws from U(-1, 1).
func uniform(rng *rand.Rand) float64 {
	return -1 + rng.Float64()*2
}
