package evo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neuroevo-go/nn"
)

func testAgentConfig(t *testing.T) AgentConfig {
	t.Helper()
	cfg, err := testConfig().AgentConfig()
	require.NoError(t, err)
	return cfg
}

func TestNewAgentRequiresFitness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	factory := func() Payload[testBody] { return Payload[testBody]{} }

	_, err := NewAgent(testAgentConfig(t), factory, rng)
	require.ErrorIs(t, err, ErrMissingFitness)

	_, err = NewAgent[testBody](testAgentConfig(t), nil, rng)
	require.ErrorIs(t, err, ErrMissingFitness)
}

func TestAgentPredictRawWithoutParser(t *testing.T) {
	a, err := NewAgent(testAgentConfig(t), scoreFactory(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	out, err := a.Predict([]float64{0.5, -0.5})
	require.NoError(t, err)
	assert.False(t, out.Parsed())
	assert.Len(t, out.Raw(), 1)

	_, err = a.Predict([]float64{1})
	require.ErrorIs(t, err, nn.ErrDimensionMismatch)
}

func TestAgentPredictAppliesParser(t *testing.T) {
	cfg := testAgentConfig(t)
	cfg.Topology.OutputCount = 3
	parser, err := ParseOutputSpec("rotate:2 jump:1")
	require.NoError(t, err)
	cfg.Parser = parser

	a, err := NewAgent(cfg, scoreFactory(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	out, err := a.Predict([]float64{0.5, -0.5})
	require.NoError(t, err)
	rotate, ok := out.Vector("rotate")
	require.True(t, ok)
	jump, ok := out.Scalar("jump")
	require.True(t, ok)
	assert.Equal(t, out.Raw()[:2], rotate)
	assert.Equal(t, out.Raw()[2], jump)
}

func TestPayloadParserOverridesConfig(t *testing.T) {
	cfg := testAgentConfig(t)
	cfg.Topology.OutputCount = 2
	configured, err := ParseOutputSpec("a:1 b:1")
	require.NoError(t, err)
	own, err := ParseOutputSpec("steer:2")
	require.NoError(t, err)
	cfg.Parser = configured

	factory := func() Payload[testBody] {
		return Payload[testBody]{
			Fitness: func(a *Agent[testBody]) float64 { return 0 },
			Parser:  own,
		}
	}
	a, err := NewAgent(cfg, factory, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Same(t, own, a.Parser())
}

func TestAgentParserWidthMustMatchNetwork(t *testing.T) {
	cfg := testAgentConfig(t)
	parser, err := ParseOutputSpec("steer:2")
	require.NoError(t, err)
	cfg.Parser = parser

	_, err = NewAgent(cfg, scoreFactory(), rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAgentMergeUsesFreshPayload(t *testing.T) {
	created := 0
	factory := func() Payload[testBody] {
		created++
		return Payload[testBody]{
			Data:    testBody{Ticks: created},
			Fitness: func(a *Agent[testBody]) float64 { return a.Data.Score },
		}
	}
	rng := rand.New(rand.NewSource(3))
	mom, err := NewAgent(testAgentConfig(t), factory, rng)
	require.NoError(t, err)
	dad, err := NewAgent(testAgentConfig(t), factory, rng)
	require.NoError(t, err)
	mom.Data.Score = 12

	child, err := mom.Merge(dad, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, created)
	assert.Equal(t, testBody{Ticks: 3}, child.Data)
	assert.True(t, child.Alive())
	assert.False(t, child.IsParent)
	assert.NotSame(t, mom.Network(), child.Network())
	assert.Equal(t, mom.Network().Snapshot(), child.Network().Snapshot())

	fromDad, err := mom.Merge(dad, 1)
	require.NoError(t, err)
	assert.Equal(t, dad.Network().Snapshot(), fromDad.Network().Snapshot())
}

func TestAgentMergeRejectsMismatchedTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a, err := NewAgent(testAgentConfig(t), scoreFactory(), rng)
	require.NoError(t, err)
	other := testAgentConfig(t)
	other.Topology.HiddenLayerCount = 1
	b, err := NewAgent(other, scoreFactory(), rng)
	require.NoError(t, err)

	_, err = a.Merge(b, 0.5)
	require.ErrorIs(t, err, nn.ErrTopologyMismatch)
}

func TestAgentMutateUsesConfiguredBiasRate(t *testing.T) {
	cfg := testAgentConfig(t)
	cfg.BiasMutationRate = 0
	a, err := NewAgent(cfg, scoreFactory(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	before := a.Network().Snapshot()

	a.Mutate(1)
	after := a.Network().Snapshot()
	for i, ns := range after.OutputLayer.Neurons {
		assert.Equal(t, before.OutputLayer.Neurons[i].Bias, ns.Bias)
		assert.NotEqual(t, before.OutputLayer.Neurons[i].Weights, ns.Weights)
	}
}

func TestAgentDeadIsIdempotent(t *testing.T) {
	a, err := NewAgent(testAgentConfig(t), scoreFactory(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.True(t, a.Alive())

	a.Dead()
	a.Dead()
	assert.False(t, a.Alive())
}

func TestAgentFitnessIsNotCached(t *testing.T) {
	a, err := NewAgent(testAgentConfig(t), scoreFactory(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	a.Data.Score = 3
	assert.Equal(t, 3.0, a.Fitness())
	a.Data.Score = 8
	assert.Equal(t, 8.0, a.Fitness())
}
