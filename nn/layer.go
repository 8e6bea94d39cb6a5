package nn

import (
	"errors"
	"fmt"
	"math/rand"
)

// Layer is an ordered set of neurons reading the same input vector.
type Layer struct {
	Neurons []*Neuron
}

func newLayer(inputCount, neuronCount int, rng *rand.Rand) *Layer {
	l := &Layer{Neurons: make([]*Neuron, neuronCount)}
	for i := range l.Neurons {
		l.Neurons[i] = newNeuron(inputCount, rng)
	}
	return l
}

// Width is the number of outputs the layer produces.
func (l *Layer) Width() int {
	return len(l.Neurons)
}

// Predict runs every neuron on inputs and returns their outputs in order.
func (l *Layer) Predict(inputs []float64, memoryRate float64, f ActivationFunc) []float64 {
	out := make([]float64, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.Predict(inputs, memoryRate, f)
	}
	return out
}

// checkShape verifies the layer has width neurons, each reading inputCount values.
func (l *Layer) checkShape(inputCount, width int) error {
	if l == nil {
		return errors.New("missing layer")
	}
	if len(l.Neurons) != width {
		return fmt.Errorf("expected %d neurons, got %d", width, len(l.Neurons))
	}
	for i, n := range l.Neurons {
		if n == nil {
			return fmt.Errorf("neuron %d is missing", i)
		}
		if len(n.Weights) != inputCount+2 {
			return fmt.Errorf("neuron %d: expected %d weights, got %d", i, inputCount+2, len(n.Weights))
		}
	}
	return nil
}

func mergeLayer(a, b *Layer, rng *rand.Rand, rate float64) *Layer {
	child := &Layer{Neurons: make([]*Neuron, len(a.Neurons))}
	for i, na := range a.Neurons {
		nb := b.Neurons[i]
		nc := &Neuron{
			Bias:    pick(na.Bias, nb.Bias, rng, rate),
			Weights: make([]float64, len(na.Weights)),
		}
		for w := range na.Weights {
			nc.Weights[w] = pick(na.Weights[w], nb.Weights[w], rng, rate)
		}
		child.Neurons[i] = nc
	}
	return child
}

func mutateLayer(l *Layer, rng *rand.Rand, rate, biasRate float64) {
	for _, n := range l.Neurons {
		n.Bias = perturb(n.Bias, rng, biasRate)
		for w := range n.Weights {
			n.Weights[w] = perturb(n.Weights[w], rng, rate)
		}
	}
}

// pick takes b with probability rate, otherwise a.
func pick(a, b float64, rng *rand.Rand, rate float64) float64 {
	if rng.Float64() < rate {
		return b
	}
	return a
}

// perturb adds U(-1, 1) to x with probability rate.
func perturb(x float64, rng *rand.Rand, rate float64) float64 {
	if rng.Float64() < rate {
		return x + uniform(rng)
	}
	return x
}
