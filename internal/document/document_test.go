package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/proptree"
)

func TestParse_NoContainer(t *testing.T) {
	_, err := Parse(context.Background(), `Block { Name "stray" }`)
	require.Error(t, err)

	var structural *model.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Reason, "no Model or Library")
}

func TestParse_ModelMetadata(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Model {
			Name "demo"
			StartTime "0.0"
			StopTime "10.5"
			Solver "ode45"
			FixedStep "0.01"
			System {
				Name "demo"
			}
		}
	`)
	require.NoError(t, err)

	assert.False(t, doc.IsLibrary)
	assert.Equal(t, "demo", doc.Meta.Name)
	assert.Equal(t, "ode45", doc.Meta.Solver)
	assert.True(t, doc.Meta.HasStart)
	assert.Equal(t, 0.0, doc.Meta.StartTime)
	assert.True(t, doc.Meta.HasStop)
	assert.Equal(t, 10.5, doc.Meta.StopTime)
	assert.True(t, doc.Meta.HasStep)
	assert.Equal(t, 0.01, doc.Meta.FixedStep)
}

func TestParse_MetadataDefaults(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Model {
			Name "bare"
			System { Name "bare" }
		}
	`)
	require.NoError(t, err)

	assert.False(t, doc.Meta.HasStart)
	assert.False(t, doc.Meta.HasStop)
	assert.False(t, doc.Meta.HasStep)
	assert.Equal(t, "", doc.Meta.Solver)
}

func TestParse_LibraryContainer(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Library {
			Name "mylib"
			System { Name "mylib" }
		}
	`)
	require.NoError(t, err)
	assert.True(t, doc.IsLibrary)
	assert.Equal(t, "mylib", doc.Meta.Name)
}

func TestParse_PrimaryIsFirstSystem(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Model {
			Name "m"
			System { Name "first" }
			System { Name "second" }
		}
	`)
	require.NoError(t, err)
	require.NotNil(t, doc.Primary)
	assert.Equal(t, "first", doc.Primary.Str("Name", ""))
}

func TestParse_PrimaryFallsBackToRootBlocks(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Library {
			Name "flatlib"
			Block { Name "a" BlockType Gain }
			Block { Name "b" BlockType Gain }
		}
	`)
	require.NoError(t, err)
	require.NotNil(t, doc.Primary)
	assert.Len(t, doc.Primary.Bucket(proptree.BlocksKey), 2)
}

func TestParse_SystemIndexUsesPathNames(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Model {
			Name "demo"
			System {
				Name "demo"
				Block { BlockType SubSystem Name "Sub" }
			}
			System {
				Name "demo/Sub"
				Block { BlockType Gain Name "g" }
			}
		}
	`)
	require.NoError(t, err)

	require.NotNil(t, doc.System("demo"))
	sub := doc.System("demo/Sub")
	require.NotNil(t, sub)
	assert.Len(t, sub.Bucket(proptree.BlocksKey), 1)
	assert.Nil(t, doc.System("demo/Other"))
}

func TestParse_IndexFindsNestedSystems(t *testing.T) {
	doc, err := Parse(context.Background(), `
		Model {
			Name "demo"
			System {
				Name "demo"
				Block {
					BlockType SubSystem
					Name "Sub"
					System { Name "demo/Sub" }
				}
			}
		}
	`)
	require.NoError(t, err)
	assert.NotNil(t, doc.System("demo/Sub"))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "demo", JoinPath("", "demo"))
	assert.Equal(t, "demo/Sub", JoinPath("demo", "Sub"))
	assert.Equal(t, "demo/Sub/Inner", JoinPath("demo/Sub", "Inner"))
}
