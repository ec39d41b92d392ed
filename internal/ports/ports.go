// Package ports synthesizes the ordered input/output port lists of a block
// from its internal kind and resolved parameters.
//
// Kinds present in the catalog are seeded from their schema and then
// adjusted for parameter-driven port counts (fan-in combinators, fan-out
// splitters). Kinds absent from the catalog fall back to a hand-specified
// shape table, and finally to one input and one output.
package ports

import (
	"fmt"
	"strings"

	"github.com/vk/mdlgraph/internal/catalog"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/typemap"
)

// shape is a hand-specified default port count pair.
type shape struct {
	ins  int
	outs int
}

// fallbackShapes covers kinds the catalog does not describe: composite
// placeholders and pass-through kinds a host catalog may omit. Composite
// counts here are only a first guess; the graph builder overrides them from
// the interface markers it finds inside.
var fallbackShapes = map[model.BlockKind]shape{
	model.KindSubsystem:   {ins: 1, outs: 1},
	model.KindPlaceholder: {ins: 1, outs: 1},
	model.KindReference:   {ins: 1, outs: 1},
	model.KindGain:        {ins: 1, outs: 1},
	model.KindMath:        {ins: 1, outs: 1},
	model.KindLogic:       {ins: 2, outs: 1},
}

// Synthesize returns the ordered port lists for a block of the given kind.
// Identifiers are deterministic, derived from the block ID, direction, and
// index.
func Synthesize(cat *catalog.Catalog, kind model.BlockKind, blockID string, params map[string]string) (inputs, outputs []*model.Port) {
	if schema, ok := cat.Lookup(kind); ok {
		inputs = fromTemplates(blockID, model.In, schema.Inputs)
		outputs = fromTemplates(blockID, model.Out, schema.Outputs)
		inputs, outputs = applyDynamicCounts(kind, blockID, params, inputs, outputs)
		return inputs, outputs
	}

	sh, ok := fallbackShapes[kind]
	if !ok {
		sh = shape{ins: 1, outs: 1}
	}
	if kind.IsComposite() {
		if ins, outs, declared := declaredPortCounts(params); declared {
			sh = shape{ins: ins, outs: outs}
		}
	}
	return defaultPorts(blockID, model.In, sh.ins, "u"), defaultPorts(blockID, model.Out, sh.outs, "y")
}

// fromTemplates instantiates catalog templates into ports.
func fromTemplates(blockID string, dir model.PortDirection, templates []catalog.PortTemplate) []*model.Port {
	out := make([]*model.Port, 0, len(templates))
	for i, tpl := range templates {
		out = append(out, &model.Port{
			ID:    model.PortID(blockID, dir, i),
			Name:  tpl.Name,
			Type:  tpl.Type,
			Shape: tpl.Dims.Clone(),
		})
	}
	return out
}

// defaultPorts builds n sequentially named ports with inherited shapes.
func defaultPorts(blockID string, dir model.PortDirection, n int, prefix string) []*model.Port {
	out := make([]*model.Port, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Port{
			ID:    model.PortID(blockID, dir, i),
			Name:  fmt.Sprintf("%s%d", prefix, i),
			Type:  "double",
			Shape: model.InheritDims(),
		})
	}
	return out
}

// applyDynamicCounts overrides catalog-seeded port lists for kinds whose
// port count is parameter-driven.
func applyDynamicCounts(kind model.BlockKind, blockID string, params map[string]string, inputs, outputs []*model.Port) ([]*model.Port, []*model.Port) {
	switch kind {
	case model.KindSum:
		n := signCount(params["Signs"])
		inputs = defaultPorts(blockID, model.In, n, "u")

	case model.KindProduct, model.KindLogic:
		n := typemap.Count(params["Inputs"])
		if n > 1 {
			inputs = defaultPorts(blockID, model.In, n, "u")
		}

	case model.KindMux:
		// Fan-in combinator: the output vector is as wide as the fan-in.
		n := typemap.Count(params["Inputs"])
		inputs = defaultPorts(blockID, model.In, n, "u")
		if len(outputs) == 1 {
			outputs[0].Shape = model.VectorDims(n)
		}

	case model.KindDemux:
		// Fan-out splitter: the single input is as wide as the fan-out.
		n := typemap.Count(params["Outputs"])
		outputs = defaultPorts(blockID, model.Out, n, "y")
		if len(inputs) == 1 {
			inputs[0].Shape = model.VectorDims(n)
		}

	case model.KindSubsystem, model.KindPlaceholder, model.KindReference:
		if ins, outs, declared := declaredPortCounts(params); declared {
			inputs = defaultPorts(blockID, model.In, ins, "u")
			outputs = defaultPorts(blockID, model.Out, outs, "y")
		}
	}
	return inputs, outputs
}

// signCount sizes a sum block's fan-in: either a plain count or one input
// per +/- sign character.
func signCount(signs string) int {
	if signs == "" {
		return 2
	}
	if nums := typemap.Numbers(signs); len(nums) == 1 && nums[0] >= 1 {
		return int(nums[0])
	}
	n := strings.Count(signs, "+") + strings.Count(signs, "-")
	if n < 1 {
		n = 2
	}
	return n
}

// declaredPortCounts reads a composite block's declared [in, out] port
// vector.
func declaredPortCounts(params map[string]string) (ins, outs int, declared bool) {
	raw, ok := params["Ports"]
	if !ok || raw == "" {
		return 0, 0, false
	}
	nums := typemap.Numbers(raw)
	if len(nums) == 0 {
		return 0, 0, false
	}
	ins = int(nums[0])
	if len(nums) > 1 {
		outs = int(nums[1])
	}
	if ins < 0 {
		ins = 0
	}
	if outs < 0 {
		outs = 0
	}
	return ins, outs, true
}
