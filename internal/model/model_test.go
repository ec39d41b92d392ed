package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDims(t *testing.T) {
	assert.True(t, InheritDims().Inherited())
	assert.False(t, ScalarDims().Inherited())
	assert.True(t, ScalarDims().Equal(VectorDims(1)))
	assert.False(t, VectorDims(2).Equal(VectorDims(3)))
	assert.False(t, VectorDims(2).Equal(Dims{2, 2}))

	orig := VectorDims(4)
	clone := orig.Clone()
	clone[0] = 9
	assert.Equal(t, 4, orig[0])
}

func TestPortID(t *testing.T) {
	assert.Equal(t, "b1/in/0", PortID("b1", In, 0))
	assert.Equal(t, "b1/out/2", PortID("b1", Out, 2))
}

func TestBlock_Markers(t *testing.T) {
	sub := &Block{
		ID:   "sub",
		Kind: KindSubsystem,
		Children: []*Block{
			{ID: "o2", Kind: KindOutport, Name: "second", Params: map[string]string{"Port": "2"}},
			{ID: "g", Kind: KindGain, Name: "g"},
			{ID: "o1", Kind: KindOutport, Name: "first", Params: map[string]string{"Port": "1"}},
			{ID: "i1", Kind: KindInport, Name: "in", Params: map[string]string{"Port": "1"}},
		},
	}

	outs := sub.Markers(KindOutport)
	require.Len(t, outs, 2)
	assert.Equal(t, "first", outs[0].Name)
	assert.Equal(t, "second", outs[1].Name)

	ins := sub.Markers(KindInport)
	require.Len(t, ins, 1)
	assert.Equal(t, "in", ins[0].Name)
}

func TestBlock_MarkersDocumentOrderBreaksTies(t *testing.T) {
	sub := &Block{
		ID:   "sub",
		Kind: KindSubsystem,
		Children: []*Block{
			{ID: "a", Kind: KindInport, Name: "a"},
			{ID: "b", Kind: KindInport, Name: "b", Params: map[string]string{"Port": "bad"}},
		},
	}

	// Both markers default to port 1; document order decides.
	ins := sub.Markers(KindInport)
	require.Len(t, ins, 2)
	assert.Equal(t, "a", ins[0].Name)
	assert.Equal(t, "b", ins[1].Name)
}

func TestBlock_Accessors(t *testing.T) {
	b := &Block{
		ID:     "x",
		Params: map[string]string{"Value": "3"},
		Inputs: []*Port{{ID: "x/in/0"}},
	}

	assert.Equal(t, "3", b.Param("Value", "1"))
	assert.Equal(t, "1", b.Param("Gain", "1"))
	assert.NotNil(t, b.Input(0))
	assert.Nil(t, b.Input(1))
	assert.Nil(t, b.Output(0))
	assert.Nil(t, b.Child("nope"))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindSubsystem.IsComposite())
	assert.True(t, KindReference.IsComposite())
	assert.True(t, KindPlaceholder.IsComposite())
	assert.False(t, KindGain.IsComposite())

	assert.True(t, KindInport.IsInterfaceMarker())
	assert.True(t, KindOutport.IsInterfaceMarker())
	assert.False(t, KindSubsystem.IsInterfaceMarker())
}
