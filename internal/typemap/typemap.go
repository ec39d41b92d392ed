// Package typemap converts the foreign block/solver vocabulary into the
// internal type system and extracts per-block parameters.
//
// Both mappings are static tables. A foreign block type missing from the
// table resolves to the generic composite placeholder (never a hard
// failure); an unknown solver resolves to the default integration method.
// Callers report either case as a mapping warning.
package typemap

import (
	"strings"

	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/proptree"
)

// blockKinds maps foreign block-type names onto internal kind tags.
var blockKinds = map[string]model.BlockKind{
	"Constant":           model.KindConstant,
	"Gain":               model.KindGain,
	"Sum":                model.KindSum,
	"Product":            model.KindProduct,
	"Integrator":         model.KindIntegrator,
	"Derivative":         model.KindDerivative,
	"Saturate":           model.KindSaturation,
	"Signum":             model.KindSign,
	"Abs":                model.KindAbs,
	"Memory":             model.KindMemory,
	"UnitDelay":          model.KindDelay,
	"Trigonometry":       model.KindTrig,
	"Math":               model.KindMath,
	"Sqrt":               model.KindSqrt,
	"RelationalOperator": model.KindRelational,
	"Logic":              model.KindLogic,
	"Switch":             model.KindSwitch,
	"Mux":                model.KindMux,
	"Demux":              model.KindDemux,
	"Scope":              model.KindScope,
	"Display":            model.KindDisplay,
	"Step":               model.KindStep,
	"Ramp":               model.KindRamp,
	"Sin":                model.KindSine,
	"Inport":             model.KindInport,
	"Outport":            model.KindOutport,
	"SubSystem":          model.KindSubsystem,
	"Reference":          model.KindReference,
	"DataTypeConversion": model.KindDataTypeConv,
	"Reshape":            model.KindReshape,
	"Terminator":         model.KindTerminator,
	"Ground":             model.KindGround,
}

// ResolveKind maps a foreign block-type name to an internal kind. The second
// return value is false when the name was not in the table and the generic
// placeholder was substituted.
func ResolveKind(foreign string) (model.BlockKind, bool) {
	if kind, ok := blockKinds[foreign]; ok {
		return kind, true
	}
	return model.KindPlaceholder, false
}

// Integration is the internal integration-method tag.
type Integration string

const (
	IntegrationEuler Integration = "euler"
	IntegrationRK4   Integration = "rk4"
	IntegrationAdams Integration = "adams"
)

// DefaultIntegration applies when the document declares no solver.
const DefaultIntegration = IntegrationRK4

// solvers maps foreign solver identifiers onto integration methods.
var solvers = map[string]Integration{
	"ode1":   IntegrationEuler,
	"ode2":   IntegrationRK4,
	"ode3":   IntegrationRK4,
	"ode4":   IntegrationRK4,
	"ode23":  IntegrationRK4,
	"ode45":  IntegrationRK4,
	"ode113": IntegrationAdams,
}

// ResolveSolver maps a foreign solver identifier to an integration method.
// The second return value is false when the identifier was present but
// unrecognized, in which case the default is substituted.
func ResolveSolver(foreign string) (Integration, bool) {
	if foreign == "" {
		return DefaultIntegration, true
	}
	if m, ok := solvers[foreign]; ok {
		return m, true
	}
	return DefaultIntegration, false
}

// rule describes how one internal parameter is read from a block entry:
// candidate foreign property names tried in priority order, then a default.
type rule struct {
	key        string
	candidates []string
	fallback   string
}

// paramRules holds the per-kind extraction rules. Kinds absent from the map
// carry no parameters beyond what the builder extracts structurally.
var paramRules = map[model.BlockKind][]rule{
	model.KindConstant: {
		{key: "Value", candidates: []string{"Value", "ConstValue"}, fallback: "1"},
	},
	model.KindGain: {
		{key: "Gain", candidates: []string{"Gain", "K"}, fallback: "1"},
	},
	model.KindSum: {
		{key: "Signs", candidates: []string{"Inputs", "Signs"}, fallback: "++"},
	},
	model.KindProduct: {
		{key: "Inputs", candidates: []string{"Inputs"}, fallback: "2"},
	},
	model.KindIntegrator: {
		{key: "InitialCondition", candidates: []string{"InitialCondition", "X0"}, fallback: "0"},
	},
	model.KindSaturation: {
		{key: "UpperLimit", candidates: []string{"UpperLimit"}, fallback: "1"},
		{key: "LowerLimit", candidates: []string{"LowerLimit"}, fallback: "-1"},
	},
	model.KindMemory: {
		{key: "InitialCondition", candidates: []string{"InitialCondition", "X0"}, fallback: "0"},
	},
	model.KindDelay: {
		{key: "InitialCondition", candidates: []string{"InitialCondition", "X0"}, fallback: "0"},
		{key: "SampleTime", candidates: []string{"SampleTime"}, fallback: "-1"},
	},
	model.KindTrig: {
		{key: "Operator", candidates: []string{"Operator", "Function"}, fallback: "sin"},
	},
	model.KindMath: {
		{key: "Operator", candidates: []string{"Operator", "Function"}, fallback: "exp"},
	},
	model.KindRelational: {
		{key: "Operator", candidates: []string{"Operator"}, fallback: ">="},
	},
	model.KindLogic: {
		{key: "Operator", candidates: []string{"Operator"}, fallback: "AND"},
		{key: "Inputs", candidates: []string{"Inputs"}, fallback: "2"},
	},
	model.KindSwitch: {
		{key: "Threshold", candidates: []string{"Threshold"}, fallback: "0"},
	},
	model.KindMux: {
		{key: "Inputs", candidates: []string{"Inputs", "Ports"}, fallback: "1"},
	},
	model.KindDemux: {
		{key: "Outputs", candidates: []string{"Outputs", "Ports"}, fallback: "1"},
	},
	model.KindStep: {
		{key: "Time", candidates: []string{"Time"}, fallback: "1"},
		{key: "Before", candidates: []string{"Before"}, fallback: "0"},
		{key: "After", candidates: []string{"After"}, fallback: "1"},
	},
	model.KindRamp: {
		{key: "Slope", candidates: []string{"Slope", "slope"}, fallback: "1"},
		{key: "Start", candidates: []string{"Start", "start"}, fallback: "0"},
	},
	model.KindSine: {
		{key: "Amplitude", candidates: []string{"Amplitude"}, fallback: "1"},
		{key: "Frequency", candidates: []string{"Frequency"}, fallback: "1"},
		{key: "Phase", candidates: []string{"Phase"}, fallback: "0"},
	},
	model.KindInport: {
		{key: "Port", candidates: []string{"Port", "PortNumber"}, fallback: "1"},
	},
	model.KindOutport: {
		{key: "Port", candidates: []string{"Port", "PortNumber"}, fallback: "1"},
	},
	model.KindReference: {
		{key: "SourceBlock", candidates: []string{"SourceBlock", "SourceType"}, fallback: ""},
		{key: "Ports", candidates: []string{"Ports"}, fallback: ""},
	},
	model.KindSubsystem: {
		{key: "Ports", candidates: []string{"Ports"}, fallback: ""},
	},
	model.KindPlaceholder: {
		{key: "Ports", candidates: []string{"Ports"}, fallback: ""},
	},
	model.KindDataTypeConv: {
		{key: "OutDataType", candidates: []string{"OutDataTypeStr", "OutDataType"}, fallback: "double"},
	},
	model.KindReshape: {
		{key: "OutputDimensions", candidates: []string{"OutputDimensions"}, fallback: "[1]"},
	},
}

// Params extracts the internal parameter set for a block entry of the given
// kind, applying the per-kind rules. Unmatched candidates fall back to the
// documented defaults.
func Params(kind model.BlockKind, entry *proptree.Node) map[string]string {
	params := make(map[string]string)
	for _, r := range paramRules[kind] {
		value := r.fallback
		for _, cand := range r.candidates {
			if entry.Has(cand) {
				value = entry.Str(cand, r.fallback)
				break
			}
		}
		if value != "" {
			params[r.key] = value
		}
	}
	return params
}

// Numbers parses an array-valued or delimiter-separated scalar property into
// a numeric sequence, accepting whitespace, commas, and semicolons as
// equivalent separators and tolerating surrounding brackets.
func Numbers(text string) []float64 {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	return proptree.ParseNumberList(trimmed)
}

// Count interprets a parameter as a positive element count, used to size
// dynamic port sets. Non-numeric or non-positive values count as 1.
func Count(text string) int {
	nums := Numbers(text)
	if len(nums) == 1 && nums[0] >= 1 {
		return int(nums[0])
	}
	return 1
}
