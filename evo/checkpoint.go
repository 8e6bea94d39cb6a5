package evo

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// checkpointData holds the parts of a Population needed to resume a run.
// Payloads are environment state and are rebuilt from the factory on load;
// recurrent outputs are not saved either.
type checkpointData struct {
	Generation      int
	HighScore       float64
	LastImprovement int
	GenerationBest  float64
	NextID          int
	Stats           GenerationStats
	Agents          []agentRecord
}

type agentRecord struct {
	ID       int
	IsParent bool
	Alive    bool
	Network  nn.Snapshot
}

// SaveCheckpoint writes the population's networks and counters to a
// gzip-compressed gob file.
func (p *Population[T]) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)

	data := checkpointData{
		Generation:      p.generation,
		HighScore:       p.highScore,
		LastImprovement: p.lastImprovement,
		GenerationBest:  p.generationBest,
		NextID:          p.nextID,
		Stats:           p.stats,
		Agents:          make([]agentRecord, len(p.agents)),
	}
	for i, a := range p.agents {
		data.Agents[i] = agentRecord{
			ID:       a.ID,
			IsParent: a.IsParent,
			Alive:    a.Alive(),
			Network:  a.network.Snapshot(),
		}
	}

	if err := gob.NewEncoder(gzWriter).Encode(data); err != nil {
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}

	p.Logger.Debug("checkpoint saved", "path", filePath, "generation", p.generation)
	return nil
}

// LoadCheckpoint restores a population saved by SaveCheckpoint. The config
// must describe the same network topology the checkpoint was taken with,
// down to the memory rate and activation. Every agent gets a fresh payload
// from factory. Pass WithRand to choose the random source the restored
// agents use.
func LoadCheckpoint[T any](checkpointPath string, config *Config, factory PayloadFactory[T], opts ...Option) (*Population[T], error) {
	p, err := NewPopulation(config, factory, opts...)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var data checkpointData
	if err := gob.NewDecoder(gzReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}

	want := p.agentConfig.Topology
	agents := make([]*Agent[T], 0, len(data.Agents))
	for _, rec := range data.Agents {
		network, err := nn.FromSnapshot(rec.Network)
		if err != nil {
			return nil, fmt.Errorf("checkpoint agent %d: %w", rec.ID, err)
		}
		if got := network.Topology(); !got.Equal(want) {
			return nil, fmt.Errorf("checkpoint agent %d: %w: checkpoint has %+v, config has %+v",
				rec.ID, nn.ErrTopologyMismatch, got, want)
		}
		a, err := newAgent(p.agentConfig, factory, p.Rand, network, p.agentConfig.Parser)
		if err != nil {
			return nil, fmt.Errorf("checkpoint agent %d: %w", rec.ID, err)
		}
		a.ID = rec.ID
		a.IsParent = rec.IsParent
		a.alive = rec.Alive
		agents = append(agents, a)
	}

	p.agents = agents
	p.generation = data.Generation
	p.highScore = data.HighScore
	p.lastImprovement = data.LastImprovement
	p.generationBest = data.GenerationBest
	p.nextID = data.NextID
	p.stats = data.Stats
	p.generationStart = p.Clock.Now()

	p.Logger.Debug("checkpoint loaded", "path", checkpointPath, "generation", p.generation)
	return p, nil
}
