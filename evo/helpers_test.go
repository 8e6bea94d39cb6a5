package evo

type testBody struct {
	Score float64
	Ticks int
}

func scoreFactory() PayloadFactory[testBody] {
	return func() Payload[testBody] {
		return Payload[testBody]{
			Fitness: func(a *Agent[testBody]) float64 { return a.Data.Score },
		}
	}
}

func testConfig() *Config {
	return &Config{
		Population: PopulationConfig{
			PopulationSize:   100,
			ParentAmount:     5,
			MutationRate:     0.1,
			BiasMutationRate: 0.1,
			Seed:             1,
		},
		Network: NetworkConfig{
			InputCount:        2,
			HiddenLayerCount:  2,
			HiddenNeuronCount: 4,
			OutputCount:       1,
			MemoryRate:        0.1,
		},
	}
}
