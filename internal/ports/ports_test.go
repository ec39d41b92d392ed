package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdlgraph/internal/catalog"
	"github.com/vk/mdlgraph/internal/model"
)

func TestSynthesize(t *testing.T) {
	cat := catalog.Default()

	testCases := []struct {
		name    string
		kind    model.BlockKind
		params  map[string]string
		inputs  int
		outputs int
	}{
		{
			name:    "gain from catalog",
			kind:    model.KindGain,
			inputs:  1,
			outputs: 1,
		},
		{
			name:    "sum sized by sign characters",
			kind:    model.KindSum,
			params:  map[string]string{"Signs": "+-+"},
			inputs:  3,
			outputs: 1,
		},
		{
			name:    "sum sized by numeric count",
			kind:    model.KindSum,
			params:  map[string]string{"Signs": "4"},
			inputs:  4,
			outputs: 1,
		},
		{
			name:    "sum default fan-in",
			kind:    model.KindSum,
			inputs:  2,
			outputs: 1,
		},
		{
			name:    "product sized by Inputs",
			kind:    model.KindProduct,
			params:  map[string]string{"Inputs": "3"},
			inputs:  3,
			outputs: 1,
		},
		{
			name:    "demux fan-out",
			kind:    model.KindDemux,
			params:  map[string]string{"Outputs": "4"},
			inputs:  1,
			outputs: 4,
		},
		{
			name:    "composite from declared port vector",
			kind:    model.KindSubsystem,
			params:  map[string]string{"Ports": "[2, 3]"},
			inputs:  2,
			outputs: 3,
		},
		{
			name:    "composite without declaration uses first guess",
			kind:    model.KindSubsystem,
			inputs:  1,
			outputs: 1,
		},
		{
			name:    "unknown kind falls back to one in one out",
			kind:    model.BlockKind("mystery"),
			inputs:  1,
			outputs: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ins, outs := Synthesize(cat, tc.kind, "blk", tc.params)
			assert.Len(t, ins, tc.inputs)
			assert.Len(t, outs, tc.outputs)
		})
	}
}

func TestSynthesize_DeterministicIDs(t *testing.T) {
	cat := catalog.Default()
	ins, outs := Synthesize(cat, model.KindSum, "abc", map[string]string{"Signs": "+-"})

	require.Len(t, ins, 2)
	assert.Equal(t, "abc/in/0", ins[0].ID)
	assert.Equal(t, "abc/in/1", ins[1].ID)
	require.Len(t, outs, 1)
	assert.Equal(t, "abc/out/0", outs[0].ID)

	again, _ := Synthesize(cat, model.KindSum, "abc", map[string]string{"Signs": "+-"})
	assert.Equal(t, ins[0].ID, again[0].ID)
}

func TestSynthesize_MuxWidensOutput(t *testing.T) {
	cat := catalog.Default()
	ins, outs := Synthesize(cat, model.KindMux, "m", map[string]string{"Inputs": "3"})

	assert.Len(t, ins, 3)
	require.Len(t, outs, 1)
	assert.Equal(t, model.VectorDims(3), outs[0].Shape)
}

func TestSynthesize_DemuxWidensInput(t *testing.T) {
	cat := catalog.Default()
	ins, outs := Synthesize(cat, model.KindDemux, "d", map[string]string{"Outputs": "2"})

	require.Len(t, ins, 1)
	assert.Equal(t, model.VectorDims(2), ins[0].Shape)
	assert.Len(t, outs, 2)
}

func TestSynthesize_CatalogShapesAreIndependent(t *testing.T) {
	cat := catalog.Default()
	first, _ := Synthesize(cat, model.KindGain, "g1", nil)
	second, _ := Synthesize(cat, model.KindGain, "g2", nil)

	// Mutating one block's shape must not leak into the catalog template.
	first[0].Shape[0] = 7
	assert.True(t, second[0].Shape.Inherited())

	third, _ := Synthesize(cat, model.KindGain, "g3", nil)
	assert.True(t, third[0].Shape.Inherited())
}

func TestSignCount(t *testing.T) {
	assert.Equal(t, 2, signCount(""))
	assert.Equal(t, 3, signCount("++-"))
	assert.Equal(t, 5, signCount("5"))
	assert.Equal(t, 2, signCount("||"))
}
