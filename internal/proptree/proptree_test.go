package proptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdlgraph/internal/token"
)

func parseText(t *testing.T, text string) *Node {
	t.Helper()
	node, _ := Parse(token.Scan(text), 0)
	require.NotNil(t, node)
	return node
}

func TestParse_BucketPromotion(t *testing.T) {
	root := parseText(t, `
		Model {
			Block { Name "a" }
			Block { Name "b" }
			Line { SrcBlock "a" }
		}
	`)

	model := root.Child("Model")
	require.NotNil(t, model)

	blocks := model.Bucket(BlocksKey)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].Str("Name", ""))
	assert.Equal(t, "b", blocks[1].Str("Name", ""))

	lines := model.Bucket(LinesKey)
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].Str("SrcBlock", ""))
}

func TestParse_SingleElementStillPromoted(t *testing.T) {
	root := parseText(t, `System { Block { Name "only" } }`)
	systems := root.Bucket(SystemsKey)
	require.Len(t, systems, 1)
	require.Len(t, systems[0].Bucket(BlocksKey), 1)
}

func TestParse_ScalarPortStaysScalar(t *testing.T) {
	root := parseText(t, `Block { Port "1" }`)
	blk := root.Bucket(BlocksKey)[0]
	assert.Equal(t, "1", blk.Str("Port", ""))
	assert.Empty(t, blk.Bucket(PortsKey))
}

func TestParse_DiscardedKeys(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "reserved marker scalar",
			input: `Model { $ObjectID "42" Name "m" }`,
		},
		{
			name:  "reserved marker body",
			input: `Model { $Statistics { Count "3" } Name "m" }`,
		},
		{
			name:  "config-only body",
			input: `Model { Simulink.ConfigSet { Prop "x" } Name "m" }`,
		},
		{
			name:  "config-set suffix match",
			input: `Model { Custom.ConfigSet.Ref { Prop "x" } Name "m" }`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := parseText(t, tc.input)
			model := root.Child("Model")
			require.NotNil(t, model)

			// The surviving sibling proves token alignment held.
			assert.Equal(t, "m", model.Str("Name", ""))
			for key := range model.Scalars {
				assert.NotContains(t, key, "$")
				assert.NotContains(t, key, "ConfigSet")
			}
			for key := range model.Children {
				assert.NotContains(t, key, "$")
				assert.NotContains(t, key, "ConfigSet")
			}
		})
	}
}

func TestParse_DiagramMerge(t *testing.T) {
	root := parseText(t, `
		System {
			Name "top"
			Diagram {
				Block { Name "inner" }
				Line { SrcBlock "inner" }
			}
		}
	`)
	sys := root.Bucket(SystemsKey)[0]

	assert.Nil(t, sys.Child("Diagram"))
	require.Len(t, sys.Bucket(BlocksKey), 1)
	assert.Equal(t, "inner", sys.Bucket(BlocksKey)[0].Str("Name", ""))
	require.Len(t, sys.Bucket(LinesKey), 1)
}

func TestParse_KeylessPropertyBeforeBrace(t *testing.T) {
	root := parseText(t, `Block { Orphan }`)
	blk := root.Bucket(BlocksKey)[0]
	assert.True(t, blk.Has("Orphan"))
	assert.Equal(t, "", blk.Str("Orphan", ""))
}

func TestParse_ScalarValues(t *testing.T) {
	root := parseText(t, `
		Block {
			Name "quoted \"x\""
			Gain 2.5
			Position [10, 20, 30]
			Mixed [1, a, 3]
		}
	`)
	blk := root.Bucket(BlocksKey)[0]

	assert.Equal(t, `quoted "x"`, blk.Str("Name", ""))
	assert.Equal(t, "2.5", blk.Str("Gain", ""))

	pos := blk.Scalars["Position"]
	assert.Equal(t, []float64{10, 20, 30}, pos.Nums)

	// An array with a non-numeric element keeps its text but has no Nums.
	mixed := blk.Scalars["Mixed"]
	assert.Nil(t, mixed.Nums)
	assert.Equal(t, "1, a, 3", mixed.Text)
}

func TestParse_TruncatedInput(t *testing.T) {
	// A missing closing brace must not panic and keeps what was read.
	root := parseText(t, `Model { Name "m"`)
	model := root.Child("Model")
	require.NotNil(t, model)
	assert.Equal(t, "m", model.Str("Name", ""))
}

func TestParseNumberList(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []float64
	}{
		{name: "spaces", input: "1 2 3", expected: []float64{1, 2, 3}},
		{name: "commas", input: "1,2,3", expected: []float64{1, 2, 3}},
		{name: "semicolons", input: "1;2;3", expected: []float64{1, 2, 3}},
		{name: "mixed separators", input: "1, 2; 3", expected: []float64{1, 2, 3}},
		{name: "negative and float", input: "-1.5 2e3", expected: []float64{-1.5, 2000}},
		{name: "non-numeric element", input: "1 x 3", expected: nil},
		{name: "empty", input: "", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseNumberList(tc.input))
		})
	}
}
