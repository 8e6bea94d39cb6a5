package evo

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jdeal-mediamath/clockwork"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// TickFunc advances one living agent by one environment step. It may
// change the agent's payload and call Dead. A returned error aborts the
// current Update and is passed back to its caller.
type TickFunc[T any] func(a *Agent[T]) error

// Champion describes a new all-time best agent.
type Champion struct {
	AgentID    int
	Generation int
	Fitness    float64
	Network    []byte
	Format     nn.Format
}

// ChampionObserver is notified whenever the all-time high score improves.
type ChampionObserver func(Champion) error

// Population holds the state of the evolutionary process.
//
// It is driven by the environment: Update once per tick, then
// AutoPopulate, which replaces the generation once every agent is dead.
// A Population is not safe for concurrent use.
type Population[T any] struct {
	Config *Config
	// Rand is the single random source for initialization, crossover,
	// mutation and parent selection. Agents keep the source they were
	// created with, so set it through WithRand rather than assigning it.
	Rand   *rand.Rand
	Logger *slog.Logger
	Clock  clockwork.Clock
	// OnChampion is optional.
	OnChampion ChampionObserver

	factory     PayloadFactory[T]
	agentConfig AgentConfig
	format      nn.Format

	agents          []*Agent[T]
	generation      int
	highScore       float64
	lastImprovement int
	generationBest  float64
	nextID          int
	generationStart time.Time
	stats           GenerationStats
}

// Option customizes a Population when it is created or restored.
type Option func(*populationOptions)

type populationOptions struct {
	rand *rand.Rand
}

// WithRand makes rng the population's random source in place of one
// seeded from the config.
func WithRand(rng *rand.Rand) Option {
	return func(o *populationOptions) {
		o.rand = rng
	}
}

// NewPopulation validates config and factory and returns an empty
// population. Call Populate to seed the first generation.
func NewPopulation[T any](config *Config, factory PayloadFactory[T], opts ...Option) (*Population[T], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if factory == nil || factory().Fitness == nil {
		return nil, ErrMissingFitness
	}
	agentConfig, err := config.AgentConfig()
	if err != nil {
		return nil, err
	}
	format, err := nn.ParseFormat(config.Population.SnapshotFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var o populationOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		seed := config.Population.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rand = rand.New(rand.NewSource(seed))
	}

	return &Population[T]{
		Config:      config,
		Rand:        o.rand,
		Logger:      slog.New(slog.DiscardHandler),
		Clock:       clockwork.NewRealClock(),
		factory:     factory,
		agentConfig: agentConfig,
		format:      format,
	}, nil
}

// Agents returns the current generation. The slice is owned by the
// population and replaced wholesale by Populate.
func (p *Population[T]) Agents() []*Agent[T] {
	return p.agents
}

// Generation is the number of Populate calls so far.
func (p *Population[T]) Generation() int {
	return p.generation
}

// HighScore is the best fitness ever ranked by Populate. It never decreases.
func (p *Population[T]) HighScore() float64 {
	return p.highScore
}

// GenerationBest is the best fitness seen by Update in the current generation.
func (p *Population[T]) GenerationBest() float64 {
	return p.generationBest
}

// Stats describes the most recently replaced generation.
func (p *Population[T]) Stats() GenerationStats {
	return p.stats
}

// Populate seeds the first generation when the population is empty and
// otherwise breeds the next one from the current agents.
func (p *Population[T]) Populate() error {
	if len(p.agents) == 0 {
		return p.seed()
	}
	return p.reproduce()
}

func (p *Population[T]) seed() error {
	size := p.Config.Population.PopulationSize
	agents := make([]*Agent[T], 0, size)
	for i := 0; i < size; i++ {
		a, err := NewAgent(p.agentConfig, p.factory, p.Rand)
		if err != nil {
			return fmt.Errorf("failed to seed agent %d: %w", i, err)
		}
		a.ID = p.nextAgentID()
		agents = append(agents, a)
	}
	p.startGeneration(agents)
	p.Logger.Info("population seeded", "generation", p.generation, "agents", len(agents))
	return nil
}

// Update evaluates every agent's fitness for the generation record, then
// ticks each living agent in order.
func (p *Population[T]) Update(tick TickFunc[T]) error {
	for _, a := range p.agents {
		if f := a.Fitness(); f > p.generationBest {
			p.generationBest = f
		}
		if !a.Alive() {
			continue
		}
		if err := tick(a); err != nil {
			return fmt.Errorf("tick agent %d: %w", a.ID, err)
		}
	}
	return nil
}

// AliveCount returns the number of living agents.
func (p *Population[T]) AliveCount() int {
	count := 0
	for _, a := range p.agents {
		if a.Alive() {
			count++
		}
	}
	return count
}

// AutoPopulate starts a new generation when every agent is dead and
// reports whether it did.
func (p *Population[T]) AutoPopulate() (bool, error) {
	if p.AliveCount() != 0 {
		return false, nil
	}
	if err := p.Populate(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Population[T]) startGeneration(agents []*Agent[T]) {
	p.agents = agents
	p.generation++
	p.generationBest = 0
	p.generationStart = p.Clock.Now()
}

func (p *Population[T]) nextAgentID() int {
	id := p.nextID
	p.nextID++
	return id
}
