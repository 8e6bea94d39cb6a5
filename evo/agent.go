package evo

import (
	"fmt"
	"math/rand"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// FitnessFunc scores an agent. It must be pure: the population calls it
// repeatedly and expects the same answer for the same agent state.
type FitnessFunc[T any] func(a *Agent[T]) float64

// Payload is what the environment attaches to each agent.
type Payload[T any] struct {
	Data    T
	Fitness FitnessFunc[T]
	// Parser, when set, overrides the configured output parser.
	Parser *OutputParser
}

// PayloadFactory produces a fresh payload for every new agent.
type PayloadFactory[T any] func() Payload[T]

// AgentConfig holds the settings shared by every agent of a population.
type AgentConfig struct {
	Topology         nn.Topology
	Parser           *OutputParser
	BiasMutationRate float64
}

// Agent pairs a network with an environment payload.
type Agent[T any] struct {
	ID       int
	Data     T
	IsParent bool // carried over as an elite

	network *nn.Network
	fitness FitnessFunc[T]
	parser  *OutputParser
	factory PayloadFactory[T]
	config  AgentConfig
	rng     *rand.Rand
	alive   bool
}

// NewAgent creates a living agent with a freshly initialized network.
func NewAgent[T any](cfg AgentConfig, factory PayloadFactory[T], rng *rand.Rand) (*Agent[T], error) {
	network, err := nn.New(cfg.Topology, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent network: %w", err)
	}
	return newAgent(cfg, factory, rng, network, cfg.Parser)
}

// newAgent wraps network with a new payload. parser is used unless the
// payload brings its own.
func newAgent[T any](cfg AgentConfig, factory PayloadFactory[T], rng *rand.Rand, network *nn.Network, parser *OutputParser) (*Agent[T], error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: factory is nil", ErrMissingFitness)
	}
	payload := factory()
	if payload.Fitness == nil {
		return nil, ErrMissingFitness
	}
	if payload.Parser != nil {
		parser = payload.Parser
	}
	if parser != nil && parser.Width() != network.Topology().OutputCount {
		return nil, fmt.Errorf("%w: parser expects %d outputs but network has %d", ErrInvalidConfig, parser.Width(), network.Topology().OutputCount)
	}
	return &Agent[T]{
		Data:    payload.Data,
		network: network,
		fitness: payload.Fitness,
		parser:  parser,
		factory: factory,
		config:  cfg,
		rng:     rng,
		alive:   true,
	}, nil
}

// Network returns the agent's network.
func (a *Agent[T]) Network() *nn.Network {
	return a.network
}

// Parser returns the parser applied by Predict, or nil.
func (a *Agent[T]) Parser() *OutputParser {
	return a.parser
}

// Predict runs the network and applies the parser if one is configured.
func (a *Agent[T]) Predict(inputs []float64) (Output, error) {
	raw, err := a.network.Predict(inputs)
	if err != nil {
		return Output{}, fmt.Errorf("agent %d: %w", a.ID, err)
	}
	if a.parser == nil {
		return Output{raw: raw}, nil
	}
	return a.parser.Parse(raw)
}

// Merge creates a child with a fresh payload whose network is a crossover
// of both parents. The child's ID is left for the caller to assign.
func (a *Agent[T]) Merge(other *Agent[T], rate float64) (*Agent[T], error) {
	if other == nil {
		return nil, fmt.Errorf("agent %d: cannot merge with a nil agent", a.ID)
	}
	network, err := a.network.Merge(other.network, a.rng, rate)
	if err != nil {
		return nil, fmt.Errorf("merge agents %d and %d: %w", a.ID, other.ID, err)
	}
	return newAgent(a.config, a.factory, a.rng, network, a.parser)
}

// Mutate perturbs the agent's weights with probability rate and its biases
// with the configured bias mutation rate.
func (a *Agent[T]) Mutate(rate float64) {
	a.network.Mutate(a.rng, rate, a.config.BiasMutationRate)
}

// Fitness evaluates the payload's fitness function now.
func (a *Agent[T]) Fitness() float64 {
	return a.fitness(a)
}

// Alive reports whether Dead has not been called.
func (a *Agent[T]) Alive() bool {
	return a.alive
}

// Dead marks the agent dead. Calling it again has no effect.
func (a *Agent[T]) Dead() {
	a.alive = false
}
