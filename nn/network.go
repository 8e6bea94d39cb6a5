package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// Topology holds the hyperparameters fixed when a Network is created.
type Topology struct {
	InputCount        int
	HiddenLayerCount  int
	HiddenNeuronCount int
	OutputCount       int
	// MemoryRate scales each neuron's previous output fed back into it.
	// Zero gives a pure feed-forward network.
	MemoryRate float64
	// Activation names an entry of Activations; empty means DefaultActivation.
	Activation string
}

// Validate reports whether t describes a buildable network.
func (t Topology) Validate() error {
	switch {
	case t.InputCount <= 0:
		return fmt.Errorf("%w: input count must be positive, got %d", ErrInvalidTopology, t.InputCount)
	case t.OutputCount <= 0:
		return fmt.Errorf("%w: output count must be positive, got %d", ErrInvalidTopology, t.OutputCount)
	case t.HiddenLayerCount < 0:
		return fmt.Errorf("%w: hidden layer count cannot be negative, got %d", ErrInvalidTopology, t.HiddenLayerCount)
	case t.HiddenLayerCount > 0 && t.HiddenNeuronCount <= 0:
		return fmt.Errorf("%w: hidden neuron count must be positive when hidden layers are present, got %d", ErrInvalidTopology, t.HiddenNeuronCount)
	case t.MemoryRate < 0 || math.IsNaN(t.MemoryRate) || math.IsInf(t.MemoryRate, 0):
		return fmt.Errorf("%w: memory rate must be a finite non-negative number, got %v", ErrInvalidTopology, t.MemoryRate)
	}
	if _, err := GetActivation(t.Activation); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTopology, err)
	}
	return nil
}

// normalized fills in defaults so that equivalent topologies compare equal.
func (t Topology) normalized() Topology {
	if t.Activation == "" {
		t.Activation = DefaultActivation
	}
	if t.HiddenLayerCount == 0 {
		t.HiddenNeuronCount = 0
	}
	return t
}

// Equal reports whether t and o build the same network shape and
// behavior once defaults are filled in.
func (t Topology) Equal(o Topology) bool {
	return t.normalized() == o.normalized()
}

// hiddenInputCount is the input width of hidden layer i.
func (t Topology) hiddenInputCount(i int) int {
	if i == 0 {
		return t.InputCount
	}
	return t.HiddenNeuronCount
}

// outputInputCount is the input width of the output layer.
func (t Topology) outputInputCount() int {
	if t.HiddenLayerCount == 0 {
		return t.InputCount
	}
	return t.HiddenNeuronCount
}

// Network is a stack of hidden layers followed by an output layer.
// Its topology never changes; only weights and biases do.
type Network struct {
	Hidden []*Layer
	Output *Layer

	topology Topology
	activate ActivationFunc
}

// New creates a network with biases and weights drawn from U(-1, 1).
func New(t Topology, rng *rand.Rand) (*Network, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t = t.normalized()
	act, _ := GetActivation(t.Activation)

	n := &Network{
		Hidden:   make([]*Layer, t.HiddenLayerCount),
		topology: t,
		activate: act,
	}
	for i := range n.Hidden {
		n.Hidden[i] = newLayer(t.hiddenInputCount(i), t.HiddenNeuronCount, rng)
	}
	n.Output = newLayer(t.outputInputCount(), t.OutputCount, rng)
	return n, nil
}

// Topology returns the hyperparameters the network was built with.
func (n *Network) Topology() Topology {
	return n.topology
}

// Predict feeds inputs through the hidden layers in order and then the
// output layer. Every neuron's recurrent output is updated as a side effect.
func (n *Network) Predict(inputs []float64) ([]float64, error) {
	if len(inputs) != n.topology.InputCount {
		return nil, fmt.Errorf("%w: network expects %d inputs, got %d", ErrDimensionMismatch, n.topology.InputCount, len(inputs))
	}
	data := inputs
	for _, l := range n.Hidden {
		data = l.Predict(data, n.topology.MemoryRate, n.activate)
	}
	return n.Output.Predict(data, n.topology.MemoryRate, n.activate), nil
}

// Merge returns a new network whose every bias and weight is taken from
// other with probability rate and from n otherwise. Both parents are left
// untouched and the child starts with zero recurrent state.
func (n *Network) Merge(other *Network, rng *rand.Rand, rate float64) (*Network, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: cannot merge with a nil network", ErrTopologyMismatch)
	}
	if !n.topology.Equal(other.topology) {
		return nil, fmt.Errorf("%w: %+v vs %+v", ErrTopologyMismatch, n.topology, other.topology)
	}
	if err := n.checkShape(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopologyMismatch, err)
	}
	if err := other.checkShape(); err != nil {
		return nil, fmt.Errorf("%w: other: %w", ErrTopologyMismatch, err)
	}

	child := &Network{
		Hidden:   make([]*Layer, len(n.Hidden)),
		topology: n.topology,
		activate: n.activate,
	}
	for i := range n.Hidden {
		child.Hidden[i] = mergeLayer(n.Hidden[i], other.Hidden[i], rng, rate)
	}
	child.Output = mergeLayer(n.Output, other.Output, rng, rate)
	return child, nil
}

// Mutate perturbs the network in place. Each weight receives U(-1, 1)
// with probability rate and each bias with probability biasRate.
func (n *Network) Mutate(rng *rand.Rand, rate, biasRate float64) {
	for _, l := range n.Hidden {
		mutateLayer(l, rng, rate, biasRate)
	}
	mutateLayer(n.Output, rng, rate, biasRate)
}

// Reset zeroes the recurrent output of every neuron.
func (n *Network) Reset() {
	for _, l := range n.layers() {
		for _, nr := range l.Neurons {
			nr.Output = 0
		}
	}
}

// ParameterCount is the number of mutable genes (biases and weights).
func (n *Network) ParameterCount() int {
	count := 0
	for _, l := range n.layers() {
		for _, nr := range l.Neurons {
			count += 1 + len(nr.Weights)
		}
	}
	return count
}

func (n *Network) layers() []*Layer {
	out := make([]*Layer, 0, len(n.Hidden)+1)
	out = append(out, n.Hidden...)
	return append(out, n.Output)
}

// checkShape verifies the exported layer fields still match the topology.
func (n *Network) checkShape() error {
	t := n.topology
	if len(n.Hidden) != t.HiddenLayerCount {
		return fmt.Errorf("expected %d hidden layers, got %d", t.HiddenLayerCount, len(n.Hidden))
	}
	for i, l := range n.Hidden {
		if err := l.checkShape(t.hiddenInputCount(i), t.HiddenNeuronCount); err != nil {
			return fmt.Errorf("hidden layer %d: %w", i, err)
		}
	}
	if err := n.Output.checkShape(t.outputInputCount(), t.OutputCount); err != nil {
		return fmt.Errorf("output layer: %w", err)
	}
	return nil
}
