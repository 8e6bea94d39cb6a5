package nn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the text encoding used by Encode and Decode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name; empty means FormatJSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown network format: %q", name)
	}
}

// Snapshot is the persisted form of a Network: hyperparameters plus every
// bias and weight, in layer order. Recurrent outputs are not part of it.
type Snapshot struct {
	InputCount        int             `json:"inputCount" yaml:"inputCount"`
	HiddenLayerCount  int             `json:"hiddenLayerCount" yaml:"hiddenLayerCount"`
	HiddenNeuronCount int             `json:"hiddenNeuronCount" yaml:"hiddenNeuronCount"`
	OutputCount       int             `json:"outputCount" yaml:"outputCount"`
	MemoryRate        float64         `json:"memoryRate" yaml:"memoryRate"`
	Activation        string          `json:"activation" yaml:"activation"`
	HiddenLayers      []LayerSnapshot `json:"hiddenLayers" yaml:"hiddenLayers"`
	OutputLayer       LayerSnapshot   `json:"outputLayer" yaml:"outputLayer"`
}

// LayerSnapshot holds one layer's neurons.
type LayerSnapshot struct {
	Neurons []NeuronSnapshot `json:"neurons" yaml:"neurons"`
}

// NeuronSnapshot holds one neuron's genes.
type NeuronSnapshot struct {
	Bias    float64   `json:"bias" yaml:"bias"`
	Weights []float64 `json:"weights" yaml:"weights"`
}

// Topology extracts the hyperparameters recorded in s.
func (s Snapshot) Topology() Topology {
	return Topology{
		InputCount:        s.InputCount,
		HiddenLayerCount:  s.HiddenLayerCount,
		HiddenNeuronCount: s.HiddenNeuronCount,
		OutputCount:       s.OutputCount,
		MemoryRate:        s.MemoryRate,
		Activation:        s.Activation,
	}
}

// Snapshot copies the network's genes into a Snapshot.
func (n *Network) Snapshot() Snapshot {
	t := n.topology
	s := Snapshot{
		InputCount:        t.InputCount,
		HiddenLayerCount:  t.HiddenLayerCount,
		HiddenNeuronCount: t.HiddenNeuronCount,
		OutputCount:       t.OutputCount,
		MemoryRate:        t.MemoryRate,
		Activation:        t.Activation,
		HiddenLayers:      make([]LayerSnapshot, len(n.Hidden)),
		OutputLayer:       snapshotLayer(n.Output),
	}
	for i, l := range n.Hidden {
		s.HiddenLayers[i] = snapshotLayer(l)
	}
	return s
}

func snapshotLayer(l *Layer) LayerSnapshot {
	ls := LayerSnapshot{Neurons: make([]NeuronSnapshot, len(l.Neurons))}
	for i, n := range l.Neurons {
		ls.Neurons[i] = NeuronSnapshot{
			Bias:    n.Bias,
			Weights: append([]float64(nil), n.Weights...),
		}
	}
	return ls
}

// FromSnapshot rebuilds a network from s. Every neuron starts with zero
// output. Any disagreement between the hyperparameters and the arrays is
// reported as ErrFormat.
func FromSnapshot(s Snapshot) (*Network, error) {
	t := s.Topology()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	t = t.normalized()
	act, _ := GetActivation(t.Activation)

	n := &Network{
		Hidden:   make([]*Layer, len(s.HiddenLayers)),
		Output:   restoreLayer(s.OutputLayer),
		topology: t,
		activate: act,
	}
	for i, ls := range s.HiddenLayers {
		n.Hidden[i] = restoreLayer(ls)
	}
	if err := n.checkShape(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return n, nil
}

func restoreLayer(ls LayerSnapshot) *Layer {
	l := &Layer{Neurons: make([]*Neuron, len(ls.Neurons))}
	for i, ns := range ls.Neurons {
		l.Neurons[i] = &Neuron{
			Bias:    ns.Bias,
			Weights: append([]float64(nil), ns.Weights...),
		}
	}
	return l
}

// Encode serializes n in the given format.
func Encode(n *Network, format Format) ([]byte, error) {
	s := n.Snapshot()
	switch format {
	case FormatJSON, "":
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode network as json: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode network as yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown network format: %q", format)
	}
}

// Decode parses data produced by Encode. Unknown fields, truncated input,
// trailing data after the network and shape mismatches are all reported
// as ErrFormat.
func Decode(data []byte, format Format) (*Network, error) {
	var s Snapshot
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: json: %w", ErrFormat, err)
		}
		if err := expectEOF(dec.Decode(&struct{}{})); err != nil {
			return nil, fmt.Errorf("%w: json: %w", ErrFormat, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrFormat, err)
		}
		var rest yaml.Node
		if err := expectEOF(dec.Decode(&rest)); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrFormat, err)
		}
	default:
		return nil, fmt.Errorf("unknown network format: %q", format)
	}
	return FromSnapshot(s)
}

// expectEOF turns the result of reading past the first document into an
// error unless the input had ended.
func expectEOF(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return fmt.Errorf("after network: %w", err)
	default:
		return errors.New("unexpected data after network")
	}
}
