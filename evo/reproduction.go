package evo

import (
	"fmt"
	"sort"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// crossoverRate is the share of genes a child takes from its second parent.
const crossoverRate = 0.5

type rankedAgent[T any] struct {
	agent   *Agent[T]
	fitness float64
}

// rank sorts agents by descending fitness. Each fitness is evaluated once
// so the comparison stays consistent; equal fitnesses keep list order.
func rank[T any](agents []*Agent[T]) []rankedAgent[T] {
	ranked := make([]rankedAgent[T], len(agents))
	for i, a := range agents {
		ranked[i] = rankedAgent[T]{agent: a, fitness: a.Fitness()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].fitness > ranked[j].fitness
	})
	return ranked
}

// reproduce replaces the current generation with the top parents' networks
// followed by PopulationSize mutated crossovers of those parents.
func (p *Population[T]) reproduce() error {
	ranked := rank(p.agents)
	fitnesses := make([]float64, len(ranked))
	for i, r := range ranked {
		fitnesses[i] = r.fitness
	}
	stats := summarize(p.generation, fitnesses, p.Clock.Now().Sub(p.generationStart))

	var champion *Champion
	if best := ranked[0]; best.fitness > p.highScore {
		data, err := nn.Encode(best.agent.network, p.format)
		if err != nil {
			return fmt.Errorf("failed to encode champion %d: %w", best.agent.ID, err)
		}
		champion = &Champion{
			AgentID:    best.agent.ID,
			Generation: p.generation,
			Fitness:    best.fitness,
			Network:    data,
			Format:     p.format,
		}
		p.Logger.Info("new high score", "agent", best.agent.ID, "fitness", best.fitness, "generation", p.generation)
		p.lastImprovement = p.generation
	}
	stats.Stagnant = p.generation - p.lastImprovement

	parentAmount := min(p.Config.Population.ParentAmount, len(ranked))
	parents := make([]*Agent[T], parentAmount)
	for i := range parents {
		parents[i] = ranked[i].agent
	}

	next := make([]*Agent[T], 0, parentAmount+p.Config.Population.PopulationSize)
	elites, err := p.carryElites(parents)
	if err != nil {
		return err
	}
	next = append(next, elites...)

	offspring, err := p.breed(parents)
	if err != nil {
		return err
	}
	next = append(next, offspring...)

	p.stats = stats
	p.startGeneration(next)
	if champion != nil {
		p.highScore = champion.Fitness
	}
	p.Logger.Info("generation complete",
		"generation", stats.Generation,
		"agents", stats.Agents,
		"best", stats.Best,
		"mean", stats.Mean,
		"median", stats.Median,
		"stdev", stats.Stdev,
		"elapsed", stats.Elapsed,
		"stagnant", stats.Stagnant,
		"high_score", p.highScore,
	)

	// Notify once the new generation is in place so a failing observer
	// cannot leave the population half replaced.
	if champion != nil && p.OnChampion != nil {
		if err := p.OnChampion(*champion); err != nil {
			return fmt.Errorf("champion observer for agent %d: %w", champion.AgentID, err)
		}
	}
	return nil
}

// carryElites wraps each parent's network, by reference, in a new agent.
func (p *Population[T]) carryElites(parents []*Agent[T]) ([]*Agent[T], error) {
	elites := make([]*Agent[T], 0, len(parents))
	for _, parent := range parents {
		if !p.Config.Population.CarryEliteMemory {
			parent.network.Reset()
		}
		a, err := newAgent(p.agentConfig, p.factory, p.Rand, parent.network, p.agentConfig.Parser)
		if err != nil {
			return nil, fmt.Errorf("failed to carry elite %d: %w", parent.ID, err)
		}
		a.IsParent = true
		a.ID = p.nextAgentID()
		elites = append(elites, a)
	}
	return elites, nil
}

// breed draws both parents uniformly, with replacement, for every child.
func (p *Population[T]) breed(parents []*Agent[T]) ([]*Agent[T], error) {
	size := p.Config.Population.PopulationSize
	offspring := make([]*Agent[T], 0, size)
	for i := 0; i < size; i++ {
		mom := parents[p.Rand.Intn(len(parents))]
		dad := parents[p.Rand.Intn(len(parents))]
		child, err := mom.Merge(dad, crossoverRate)
		if err != nil {
			return nil, fmt.Errorf("failed to breed child %d: %w", i, err)
		}
		child.Mutate(p.Config.Population.MutationRate)
		child.ID = p.nextAgentID()
		offspring = append(offspring, child)
	}
	return offspring, nil
}
