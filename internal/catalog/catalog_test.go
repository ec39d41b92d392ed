package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdlgraph/internal/model"
)

func TestDefault(t *testing.T) {
	c := Default()

	testCases := []struct {
		name    string
		kind    model.BlockKind
		inputs  int
		outputs int
	}{
		{name: "gain passes through", kind: model.KindGain, inputs: 1, outputs: 1},
		{name: "constant is source only", kind: model.KindConstant, inputs: 0, outputs: 1},
		{name: "sum starts with two inputs", kind: model.KindSum, inputs: 2, outputs: 1},
		{name: "switch has data cond data", kind: model.KindSwitch, inputs: 3, outputs: 1},
		{name: "scope is sink only", kind: model.KindScope, inputs: 1, outputs: 0},
		{name: "inport exposes one output", kind: model.KindInport, inputs: 0, outputs: 1},
		{name: "outport exposes one input", kind: model.KindOutport, inputs: 1, outputs: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			schema, ok := c.Lookup(tc.kind)
			require.True(t, ok)
			assert.Len(t, schema.Inputs, tc.inputs)
			assert.Len(t, schema.Outputs, tc.outputs)
		})
	}
}

func TestDefault_ShapeSentinels(t *testing.T) {
	c := Default()

	gain, ok := c.Lookup(model.KindGain)
	require.True(t, ok)
	assert.True(t, gain.Inputs[0].Dims.Inherited())
	assert.True(t, gain.Outputs[0].Dims.Inherited())

	step, ok := c.Lookup(model.KindStep)
	require.True(t, ok)
	assert.True(t, step.Outputs[0].Dims.Equal(model.ScalarDims()))
}

func TestLookup_UnknownKind(t *testing.T) {
	_, ok := Default().Lookup(model.BlockKind("nope"))
	assert.False(t, ok)
}

func TestLoadBytes(t *testing.T) {
	manifest := `
blocktype "pid" {
  input "e" {
    type = "double"
  }
  output "u" {
    dims = [3]
  }
  param "Kp" {
    default = 1.5
  }
  param "Limits" {
    default = [-10, 10]
  }
}
`
	c := New()
	err := c.LoadBytes(context.Background(), []byte(manifest), "pid.hcl")
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	schema, ok := c.Lookup(model.BlockKind("pid"))
	require.True(t, ok)

	require.Len(t, schema.Inputs, 1)
	assert.Equal(t, "e", schema.Inputs[0].Name)
	assert.Equal(t, "double", schema.Inputs[0].Type)
	assert.True(t, schema.Inputs[0].Dims.Inherited())

	require.Len(t, schema.Outputs, 1)
	assert.Equal(t, model.Dims([]int{3}), schema.Outputs[0].Dims)

	require.Len(t, schema.Params, 2)
	assert.Equal(t, "Kp", schema.Params[0].Name)
	assert.Equal(t, "1.5", schema.Params[0].Default)
	assert.Equal(t, "Limits", schema.Params[1].Name)
	assert.Equal(t, "[-10, 10]", schema.Params[1].Default)
}

func TestLoadBytes_OverridesBuiltin(t *testing.T) {
	manifest := `
blocktype "gain" {
  input "u" {}
  input "scale" {}
  output "y" {}
}
`
	c := Default()
	before := c.Len()
	err := c.LoadBytes(context.Background(), []byte(manifest), "override.hcl")
	require.NoError(t, err)
	assert.Equal(t, before, c.Len())

	schema, ok := c.Lookup(model.KindGain)
	require.True(t, ok)
	assert.Len(t, schema.Inputs, 2)
}

func TestLoadBytes_ParseError(t *testing.T) {
	err := New().LoadBytes(context.Background(), []byte(`blocktype "x" {`), "broken.hcl")
	assert.Error(t, err)
}
