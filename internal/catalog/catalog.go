// Package catalog holds the static block-type catalog: the read-only lookup
// from internal kind tag to port/parameter schema consulted by port
// synthesis.
//
// The built-in table covers the core kinds. Hosts can extend or override it
// with HCL manifest files (see manifest.go), the same way module manifests
// declare their inputs and outputs elsewhere in this codebase's lineage.
package catalog

import (
	"github.com/vk/mdlgraph/internal/model"
)

// PortTemplate is one schema entry for an input or output port.
type PortTemplate struct {
	Name string
	Type string
	Dims model.Dims
}

// ParamTemplate declares a parameter a block kind understands, with its
// documented default.
type ParamTemplate struct {
	Name    string
	Default string
}

// Schema is the per-kind port/parameter contract.
type Schema struct {
	Kind    model.BlockKind
	Inputs  []PortTemplate
	Outputs []PortTemplate
	Params  []ParamTemplate
}

// Catalog is the keyed schema store. It is read-only from the pipeline's
// point of view; mutation happens only while the host assembles it.
type Catalog struct {
	schemas map[model.BlockKind]*Schema
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{schemas: make(map[model.BlockKind]*Schema)}
}

// Put installs or replaces the schema for a kind.
func (c *Catalog) Put(s *Schema) {
	c.schemas[s.Kind] = s
}

// Lookup returns the schema registered for a kind.
func (c *Catalog) Lookup(kind model.BlockKind) (*Schema, bool) {
	s, ok := c.schemas[kind]
	return s, ok
}

// Len returns the number of registered schemas.
func (c *Catalog) Len() int {
	return len(c.schemas)
}

// in and out build the common single-port templates.
func in(name string, dims model.Dims) PortTemplate {
	return PortTemplate{Name: name, Type: "double", Dims: dims}
}

func out(name string, dims model.Dims) PortTemplate {
	return PortTemplate{Name: name, Type: "double", Dims: dims}
}

// Default returns the built-in catalog covering the core block kinds.
// Shape-adapting kinds start with the inherit sentinel and are resolved by
// dimension propagation; plain sources start scalar.
func Default() *Catalog {
	c := New()

	passThrough := []model.BlockKind{
		model.KindGain, model.KindIntegrator, model.KindDerivative,
		model.KindSaturation, model.KindSign, model.KindAbs,
		model.KindMemory, model.KindDelay, model.KindTrig, model.KindMath,
		model.KindSqrt, model.KindDataTypeConv, model.KindReshape,
	}
	for _, kind := range passThrough {
		c.Put(&Schema{
			Kind:    kind,
			Inputs:  []PortTemplate{in("u", model.InheritDims())},
			Outputs: []PortTemplate{out("y", model.InheritDims())},
		})
	}

	c.Put(&Schema{
		Kind:    model.KindConstant,
		Outputs: []PortTemplate{out("y", model.InheritDims())},
		Params:  []ParamTemplate{{Name: "Value", Default: "1"}},
	})
	c.Put(&Schema{
		Kind:    model.KindSum,
		Inputs:  []PortTemplate{in("a", model.InheritDims()), in("b", model.InheritDims())},
		Outputs: []PortTemplate{out("y", model.InheritDims())},
		Params:  []ParamTemplate{{Name: "Signs", Default: "++"}},
	})
	c.Put(&Schema{
		Kind:    model.KindProduct,
		Inputs:  []PortTemplate{in("a", model.InheritDims()), in("b", model.InheritDims())},
		Outputs: []PortTemplate{out("y", model.InheritDims())},
	})
	c.Put(&Schema{
		Kind: model.KindRelational,
		Inputs: []PortTemplate{
			in("a", model.InheritDims()), in("b", model.InheritDims()),
		},
		Outputs: []PortTemplate{{Name: "y", Type: "bool", Dims: model.InheritDims()}},
	})
	c.Put(&Schema{
		Kind: model.KindLogic,
		Inputs: []PortTemplate{
			{Name: "a", Type: "bool", Dims: model.InheritDims()},
			{Name: "b", Type: "bool", Dims: model.InheritDims()},
		},
		Outputs: []PortTemplate{{Name: "y", Type: "bool", Dims: model.InheritDims()}},
	})
	c.Put(&Schema{
		Kind: model.KindSwitch,
		Inputs: []PortTemplate{
			in("u1", model.InheritDims()),
			in("cond", model.InheritDims()),
			in("u2", model.InheritDims()),
		},
		Outputs: []PortTemplate{out("y", model.InheritDims())},
		Params:  []ParamTemplate{{Name: "Threshold", Default: "0"}},
	})
	c.Put(&Schema{
		Kind:    model.KindMux,
		Inputs:  []PortTemplate{in("u0", model.InheritDims())},
		Outputs: []PortTemplate{out("y", model.InheritDims())},
	})
	c.Put(&Schema{
		Kind:    model.KindDemux,
		Inputs:  []PortTemplate{in("u", model.InheritDims())},
		Outputs: []PortTemplate{out("y0", model.InheritDims())},
	})

	sinks := []model.BlockKind{model.KindScope, model.KindDisplay, model.KindTerminator}
	for _, kind := range sinks {
		c.Put(&Schema{
			Kind:   kind,
			Inputs: []PortTemplate{in("u", model.InheritDims())},
		})
	}

	sources := []model.BlockKind{model.KindStep, model.KindRamp, model.KindSine, model.KindGround}
	for _, kind := range sources {
		c.Put(&Schema{
			Kind:    kind,
			Outputs: []PortTemplate{out("y", model.ScalarDims())},
		})
	}

	c.Put(&Schema{
		Kind:    model.KindInport,
		Outputs: []PortTemplate{out("y", model.InheritDims())},
		Params:  []ParamTemplate{{Name: "Port", Default: "1"}},
	})
	c.Put(&Schema{
		Kind:   model.KindOutport,
		Inputs: []PortTemplate{in("u", model.InheritDims())},
		Params: []ParamTemplate{{Name: "Port", Default: "1"}},
	})

	return c
}
