package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTopology() Topology {
	return Topology{
		InputCount:        3,
		HiddenLayerCount:  2,
		HiddenNeuronCount: 4,
		OutputCount:       2,
		MemoryRate:        0.1,
	}
}

func mustNew(t *testing.T, topo Topology, seed int64) *Network {
	t.Helper()
	n, err := New(topo, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return n
}

func TestNewBuildsDeclaredShape(t *testing.T) {
	n := mustNew(t, testTopology(), 1)

	require.Len(t, n.Hidden, 2)
	for i, l := range n.Hidden {
		require.Equal(t, 4, l.Width(), "hidden layer %d", i)
		for _, nr := range l.Neurons {
			want := 4
			if i == 0 {
				want = 3
			}
			assert.Equal(t, want, nr.InputCount())
			assert.Len(t, nr.Weights, want+2)
			assert.GreaterOrEqual(t, nr.Bias, -1.0)
			assert.Less(t, nr.Bias, 1.0)
			assert.Zero(t, nr.Output)
		}
	}
	require.Equal(t, 2, n.Output.Width())
	for _, nr := range n.Output.Neurons {
		assert.Len(t, nr.Weights, 6)
	}
	assert.Equal(t, "tanh", n.Topology().Activation)
	assert.Equal(t, 4*(1+5)+4*(1+6)+2*(1+6), n.ParameterCount())
}

func TestNewWithoutHiddenLayers(t *testing.T) {
	n := mustNew(t, Topology{InputCount: 2, OutputCount: 1}, 1)

	assert.Empty(t, n.Hidden)
	require.Len(t, n.Output.Neurons, 1)
	assert.Len(t, n.Output.Neurons[0].Weights, 4)

	out, err := n.Predict([]float64{0.5, -0.5})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestNewRejectsInvalidTopology(t *testing.T) {
	tests := []struct {
		name string
		topo Topology
	}{
		{"no inputs", Topology{InputCount: 0, OutputCount: 1}},
		{"no outputs", Topology{InputCount: 1, OutputCount: 0}},
		{"negative hidden layers", Topology{InputCount: 1, OutputCount: 1, HiddenLayerCount: -1}},
		{"empty hidden layers", Topology{InputCount: 1, OutputCount: 1, HiddenLayerCount: 2}},
		{"negative memory", Topology{InputCount: 1, OutputCount: 1, MemoryRate: -0.1}},
		{"unknown activation", Topology{InputCount: 1, OutputCount: 1, Activation: "swish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.topo, rand.New(rand.NewSource(1)))
			require.ErrorIs(t, err, ErrInvalidTopology)
		})
	}
}

func TestNeuronPredictFormula(t *testing.T) {
	n := &Neuron{Bias: 0.5, Weights: []float64{2, 3, 1, -1}, Output: 0.2}

	got := n.Predict([]float64{0.3, 0.1}, 0.5, Identity)

	// 0.5*2 + 0.2*3*0.5 + 0.3*1 + 0.1*-1
	assert.InDelta(t, 1.5, got, 1e-12)
	assert.InDelta(t, 1.5, n.Output, 1e-12)
}

func TestNeuronZeroMemoryIgnoresPriorOutput(t *testing.T) {
	a := &Neuron{Bias: 0.1, Weights: []float64{1, 5, 2}, Output: 0.9}
	b := &Neuron{Bias: 0.1, Weights: []float64{1, 5, 2}, Output: -0.4}

	assert.Equal(t, a.Predict([]float64{0.3}, 0, Identity), b.Predict([]float64{0.3}, 0, Identity))
}

func TestPredictIsDeterministicWithoutMemory(t *testing.T) {
	topo := testTopology()
	topo.MemoryRate = 0
	n := mustNew(t, topo, 7)
	x := []float64{0.2, -0.4, 0.9}

	first, err := n.Predict(x)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := n.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResetRestoresFirstCallOutput(t *testing.T) {
	n := mustNew(t, testTopology(), 3)
	x := []float64{1, 0.5, -1}

	first, err := n.Predict(x)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = n.Predict(x)
		require.NoError(t, err)
	}
	n.Reset()
	again, err := n.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestPredictDimensionMismatch(t *testing.T) {
	n := mustNew(t, testTopology(), 1)

	_, err := n.Predict([]float64{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMergeRateBoundaries(t *testing.T) {
	a := mustNew(t, testTopology(), 1)
	b := mustNew(t, testTopology(), 2)
	rng := rand.New(rand.NewSource(99))

	fromA, err := a.Merge(b, rng, 0)
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot(), fromA.Snapshot())

	fromB, err := a.Merge(b, rng, 1)
	require.NoError(t, err)
	assert.Equal(t, b.Snapshot(), fromB.Snapshot())

	assert.NotSame(t, a.Output, fromA.Output)
	assert.NotSame(t, &a.Output.Neurons[0].Weights[0], &fromA.Output.Neurons[0].Weights[0])
}

func TestMergeTakesEachGeneFromAParent(t *testing.T) {
	a := mustNew(t, testTopology(), 1)
	b := mustNew(t, testTopology(), 2)

	child, err := a.Merge(b, rand.New(rand.NewSource(5)), 0.5)
	require.NoError(t, err)

	sa, sb, sc := a.Snapshot(), b.Snapshot(), child.Snapshot()
	fromA, fromB := 0, 0
	check := func(x, y, z float64) {
		switch z {
		case x:
			fromA++
		case y:
			fromB++
		default:
			t.Fatalf("gene %v came from neither parent (%v, %v)", z, x, y)
		}
	}
	layers := func(s Snapshot) []LayerSnapshot { return append(s.HiddenLayers, s.OutputLayer) }
	la, lb, lc := layers(sa), layers(sb), layers(sc)
	for i := range lc {
		for j := range lc[i].Neurons {
			check(la[i].Neurons[j].Bias, lb[i].Neurons[j].Bias, lc[i].Neurons[j].Bias)
			for w := range lc[i].Neurons[j].Weights {
				check(la[i].Neurons[j].Weights[w], lb[i].Neurons[j].Weights[w], lc[i].Neurons[j].Weights[w])
			}
		}
	}
	assert.Positive(t, fromA)
	assert.Positive(t, fromB)
}

func TestMergeRejectsTopologyMismatch(t *testing.T) {
	a := mustNew(t, testTopology(), 1)
	other := testTopology()
	other.HiddenNeuronCount = 5
	b := mustNew(t, other, 2)

	_, err := a.Merge(b, rand.New(rand.NewSource(1)), 0.5)
	require.ErrorIs(t, err, ErrTopologyMismatch)

	memory := testTopology()
	memory.MemoryRate = 0.2
	c := mustNew(t, memory, 3)
	_, err = a.Merge(c, rand.New(rand.NewSource(1)), 0.5)
	require.ErrorIs(t, err, ErrTopologyMismatch)

	_, err = a.Merge(nil, rand.New(rand.NewSource(1)), 0.5)
	require.ErrorIs(t, err, ErrTopologyMismatch)
}

func TestMergeRejectsCorruptedLayers(t *testing.T) {
	a := mustNew(t, testTopology(), 1)
	b := mustNew(t, testTopology(), 2)
	b.Output.Neurons[0].Weights = b.Output.Neurons[0].Weights[:3]

	_, err := a.Merge(b, rand.New(rand.NewSource(1)), 0.5)
	require.ErrorIs(t, err, ErrTopologyMismatch)
}

func TestMutateRates(t *testing.T) {
	n := mustNew(t, testTopology(), 1)
	before := n.Snapshot()

	n.Mutate(rand.New(rand.NewSource(2)), 0, 0)
	assert.Equal(t, before, n.Snapshot())

	n.Mutate(rand.New(rand.NewSource(2)), 1, 0)
	after := n.Snapshot()
	assert.Equal(t, before.OutputLayer.Neurons[0].Bias, after.OutputLayer.Neurons[0].Bias)
	for i, ns := range after.OutputLayer.Neurons {
		for w, v := range ns.Weights {
			old := before.OutputLayer.Neurons[i].Weights[w]
			assert.NotEqual(t, old, v)
			assert.InDelta(t, old, v, 1.0)
		}
	}
}

func TestMutateBiasRateIsIndependent(t *testing.T) {
	n := mustNew(t, testTopology(), 1)
	before := n.Snapshot()

	n.Mutate(rand.New(rand.NewSource(4)), 0, 1)
	after := n.Snapshot()
	for i, l := range after.HiddenLayers {
		for j, ns := range l.Neurons {
			assert.NotEqual(t, before.HiddenLayers[i].Neurons[j].Bias, ns.Bias)
			assert.Equal(t, before.HiddenLayers[i].Neurons[j].Weights, ns.Weights)
		}
	}
}

func TestTopologyEqual(t *testing.T) {
	base := testTopology()
	base.Activation = ""

	explicit := base
	explicit.Activation = DefaultActivation
	assert.True(t, base.Equal(explicit), "empty activation means the default")

	flat := Topology{InputCount: 2, OutputCount: 1, HiddenNeuronCount: 7}
	assert.True(t, flat.Equal(Topology{InputCount: 2, OutputCount: 1}), "neuron count is ignored without hidden layers")

	other := base
	other.MemoryRate += 0.1
	assert.False(t, base.Equal(other))

	other = base
	other.Activation = "relu"
	assert.False(t, base.Equal(other))
}
