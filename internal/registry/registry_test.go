package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mdlgraph/internal/document"
	"github.com/vk/mdlgraph/internal/model"
)

func defsFor(names ...string) []*model.LibraryDefinition {
	var defs []*model.LibraryDefinition
	for _, name := range names {
		defs = append(defs, &model.LibraryDefinition{
			Name:           name,
			Implementation: &model.Block{ID: "impl-" + name, Kind: model.KindSubsystem, Name: name},
		})
	}
	return defs
}

func TestNormalizeLibrary(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "underscore v suffix", input: "mylib_v2", expected: "mylib"},
		{name: "dash dotted version", input: "mylib-1.0", expected: "mylib"},
		{name: "plain numeric suffix", input: "mylib_3", expected: "mylib"},
		{name: "capital V", input: "mylib_V10", expected: "mylib"},
		{name: "no suffix", input: "mylib", expected: "mylib"},
		{name: "digits inside name", input: "lib2go", expected: "lib2go"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeLibrary(tc.input))
		})
	}
}

func TestSplitPath(t *testing.T) {
	lib, block, ok := SplitPath("mylib/Part")
	require.True(t, ok)
	assert.Equal(t, "mylib", lib)
	assert.Equal(t, "Part", block)

	// The block component may itself contain separators.
	lib, block, ok = SplitPath("mylib/Sub/Part")
	require.True(t, ok)
	assert.Equal(t, "mylib", lib)
	assert.Equal(t, "Sub/Part", block)

	_, _, ok = SplitPath("noseparator")
	assert.False(t, ok)
	_, _, ok = SplitPath("/leading")
	assert.False(t, ok)
	_, _, ok = SplitPath("trailing/")
	assert.False(t, ok)
}

func TestStore_RegisterAndResolve(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Register(ctx, "mylib_v2", defsFor("Part"))

	// Literal and normalized keys both resolve.
	impl, ok := s.Resolve("mylib_v2/Part")
	require.True(t, ok)
	assert.Equal(t, "impl-Part", impl.ID)

	impl, ok = s.Resolve("mylib/Part")
	require.True(t, ok)
	assert.Equal(t, "impl-Part", impl.ID)

	// A differently versioned reference normalizes onto the same entry.
	_, ok = s.Resolve("mylib_v3/Part")
	assert.True(t, ok)

	_, ok = s.Resolve("mylib/Other")
	assert.False(t, ok)
}

func TestStore_LookupIsLiteral(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Register(ctx, "mylib_v2", defsFor("Part"))

	_, ok := s.Lookup("mylib_v2/Part")
	assert.True(t, ok)
	_, ok = s.Lookup("mylib_v3/Part")
	assert.False(t, ok)
}

func TestStore_Unregister(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Register(ctx, "mylib_v2", defsFor("Part", "Other"))
	s.Register(ctx, "keep", defsFor("Part"))

	s.Unregister("mylib_v2")

	assert.False(t, s.HasLibrary("mylib_v2"))
	assert.False(t, s.HasLibrary("mylib"))
	assert.True(t, s.HasLibrary("keep"))
	assert.Equal(t, 1, s.Len())
}

func TestStore_Libraries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Register(ctx, "zeta", defsFor("A"))
	s.Register(ctx, "alpha_v2", defsFor("B"))

	assert.Equal(t, []string{"alpha", "alpha_v2", "zeta"}, s.Libraries())
}

func TestStore_SkipsInvalidDefinitions(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Register(ctx, "mylib", []*model.LibraryDefinition{
		{Name: "", Implementation: &model.Block{ID: "x"}},
		{Name: "NilImpl"},
	})
	assert.Equal(t, 0, s.Len())
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	doc, err := document.Parse(ctx, `
		Model {
			Name "m"
			System {
				Name "m"
				Block { BlockType Reference Name "r1" SourceBlock "have/Part" }
				Block { BlockType Reference Name "r2" SourceBlock "have/Missing" }
				Block { BlockType Reference Name "r3" SourceBlock "gone/Part" }
				Block { BlockType Gain Name "g" }
			}
		}
	`)
	require.NoError(t, err)

	s := NewStore()
	s.Register(ctx, "have", defsFor("Part"))

	a := Analyze(ctx, doc, s)
	assert.Equal(t, []string{"have/Part"}, a.Resolvable)
	assert.Equal(t, []string{"gone/Part", "have/Missing"}, a.Unresolvable)
	assert.Empty(t, a.AvailableLibraries)
	assert.Equal(t, []string{"gone"}, a.MissingLibraries)
}

func TestAnalyze_AllResolved(t *testing.T) {
	ctx := context.Background()
	doc, err := document.Parse(ctx, `
		Model {
			Name "m"
			System {
				Name "m"
				Block { BlockType Reference Name "r1" SourceBlock "have/Part" }
			}
		}
	`)
	require.NoError(t, err)

	s := NewStore()
	s.Register(ctx, "have", defsFor("Part"))

	a := Analyze(ctx, doc, s)
	assert.Equal(t, []string{"have"}, a.AvailableLibraries)
	assert.Empty(t, a.MissingLibraries)
	assert.Empty(t, a.Unresolvable)
}

func TestAnalyze_FindsNestedReferences(t *testing.T) {
	ctx := context.Background()
	doc, err := document.Parse(ctx, `
		Model {
			Name "m"
			System {
				Name "m"
				Block {
					BlockType SubSystem
					Name "Sub"
					System {
						Name "m/Sub"
						Block { BlockType Reference Name "r" SourceBlock "deep/Part" }
					}
				}
			}
		}
	`)
	require.NoError(t, err)

	a := Analyze(ctx, doc, NewStore())
	assert.Equal(t, []string{"deep/Part"}, a.Unresolvable)
}
