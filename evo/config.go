package evo

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// Config stores the parameters of an evolutionary run.
type Config struct {
	Population PopulationConfig
	Network    NetworkConfig
	Output     OutputConfig
}

// PopulationConfig holds the generational algorithm's parameters.
type PopulationConfig struct {
	PopulationSize int     `ini:"population_size"` // offspring per generation, and the size of generation 1
	ParentAmount   int     `ini:"parent_amount"`   // elites carried over and the pool parents are drawn from
	MutationRate   float64 `ini:"mutation_rate"`   // per-weight perturbation probability
	// BiasMutationRate is the per-bias perturbation probability. LoadConfig
	// requires it to be set explicitly.
	BiasMutationRate float64 `ini:"bias_mutation_rate"`
	Seed             int64   `ini:"seed"` // 0 seeds from the clock
	// CarryEliteMemory keeps the recurrent state of elite networks across
	// generations. When false, elites start each generation with zero state.
	CarryEliteMemory bool   `ini:"carry_elite_memory"`
	SnapshotFormat   string `ini:"snapshot_format"` // json or yaml, used for champion reports
}

// NetworkConfig holds the topology every agent's network is built with.
type NetworkConfig struct {
	InputCount        int     `ini:"input_count"`
	HiddenLayerCount  int     `ini:"hidden_layer_count"`
	HiddenNeuronCount int     `ini:"hidden_neuron_count"`
	OutputCount       int     `ini:"output_count"`
	MemoryRate        float64 `ini:"memory_rate"`
	Activation        string  `ini:"activation"`
}

// OutputConfig describes how raw network outputs are labelled.
type OutputConfig struct {
	// Fields is a space separated list of label:width pairs, e.g. "rotate:2 forward:1".
	// Empty disables parsing and agents return raw vectors.
	Fields string `ini:"fields"`
}

// Topology converts the section into an nn.Topology.
func (c NetworkConfig) Topology() nn.Topology {
	return nn.Topology{
		InputCount:        c.InputCount,
		HiddenLayerCount:  c.HiddenLayerCount,
		HiddenNeuronCount: c.HiddenNeuronCount,
		OutputCount:       c.OutputCount,
		MemoryRate:        c.MemoryRate,
		Activation:        c.Activation,
	}
}

// LoadConfig loads configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment: true, // "a = 1 ; note" strips the note, "a=x;y" keeps the value
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := &Config{}
	if err := cfg.Section("Population").MapTo(&config.Population); err != nil {
		return nil, fmt.Errorf("failed to map [Population] section: %w", err)
	}
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("Output").MapTo(&config.Output); err != nil {
		return nil, fmt.Errorf("failed to map [Output] section: %w", err)
	}

	// bias_mutation_rate has no default.
	if !cfg.Section("Population").HasKey("bias_mutation_rate") {
		return nil, fmt.Errorf("%w: bias_mutation_rate must be set in [Population]", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and cross-section consistency.
func (c *Config) Validate() error {
	pc := c.Population
	switch {
	case pc.PopulationSize <= 0:
		return fmt.Errorf("%w: population_size must be positive", ErrInvalidConfig)
	case pc.ParentAmount <= 0:
		return fmt.Errorf("%w: parent_amount must be positive", ErrInvalidConfig)
	case pc.ParentAmount > pc.PopulationSize:
		return fmt.Errorf("%w: parent_amount (%d) cannot exceed population_size (%d)", ErrInvalidConfig, pc.ParentAmount, pc.PopulationSize)
	case pc.MutationRate < 0 || pc.MutationRate > 1:
		return fmt.Errorf("%w: mutation_rate must be between 0 and 1", ErrInvalidConfig)
	case pc.BiasMutationRate < 0 || pc.BiasMutationRate > 1:
		return fmt.Errorf("%w: bias_mutation_rate must be between 0 and 1", ErrInvalidConfig)
	}
	if _, err := nn.ParseFormat(pc.SnapshotFormat); err != nil {
		return fmt.Errorf("%w: snapshot_format: %w", ErrInvalidConfig, err)
	}
	if err := c.Network.Topology().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.OutputParser(); err != nil {
		return err
	}
	return nil
}

// OutputParser builds the parser described by [Output], or nil when no
// fields are configured.
func (c *Config) OutputParser() (*OutputParser, error) {
	if c.Output.Fields == "" {
		return nil, nil
	}
	parser, err := ParseOutputSpec(c.Output.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: fields: %w", ErrInvalidConfig, err)
	}
	if parser.Width() != c.Network.OutputCount {
		return nil, fmt.Errorf("%w: output fields cover %d values but output_count is %d", ErrInvalidConfig, parser.Width(), c.Network.OutputCount)
	}
	return parser, nil
}

// AgentConfig derives the per-agent settings.
func (c *Config) AgentConfig() (AgentConfig, error) {
	parser, err := c.OutputParser()
	if err != nil {
		return AgentConfig{}, err
	}
	return AgentConfig{
		Topology:         c.Network.Topology(),
		Parser:           parser,
		BiasMutationRate: c.Population.BiasMutationRate,
	}, nil
}
