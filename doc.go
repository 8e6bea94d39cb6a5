// Package neuroevo is the root of a neuroevolution engine for small fixed
// topology networks.
//
// A population of agents, each carrying a feed-forward network with an
// optional one-step recurrent memory, is evolved by ranking agents on a
// fitness function, carrying the best networks over as elites and filling
// the rest of the next generation with mutated crossovers of them. The
// environment stays in charge of time: it ticks every living agent, kills
// agents when they fail, and asks the population to breed once all are dead.
//
// The engine lives in two packages:
//
//   - nn holds the networks, their activation functions and the JSON and
//     YAML snapshot codec.
//   - evo holds the agents, the population, INI configuration, output
//     parsing, statistics and checkpoints. Its archive subpackage stores
//     champions in memory or in SQLite.
//
// Basic usage:
//
//	// Load configuration
//	config, err := evo.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Every agent gets its own payload
//	pop, err := evo.NewPopulation(config, func() evo.Payload[Bird] {
//		return evo.Payload[Bird]{
//			Data:    Bird{Y: 300},
//			Fitness: func(a *evo.Agent[Bird]) float64 { return a.Data.Points },
//		}
//	})
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//	if err := pop.Populate(); err != nil {
//		log.Fatalf("Error seeding population: %v", err)
//	}
//
//	// Drive it from the environment loop
//	for {
//		if err := pop.Update(world.Tick); err != nil {
//			log.Fatalf("Error updating agents: %v", err)
//		}
//		if _, err := pop.AutoPopulate(); err != nil {
//			log.Fatalf("Error breeding generation: %v", err)
//		}
//	}
package neuroevo
