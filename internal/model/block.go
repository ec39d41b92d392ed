// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"sort"
	"strconv"
)

// BlockKind is the internal type tag of a block. Foreign block-type names are
// mapped onto this closed vocabulary; anything unrecognized becomes
// KindPlaceholder so that an import never loses a block.
type BlockKind string

const (
	KindConstant     BlockKind = "constant"
	KindGain         BlockKind = "gain"
	KindSum          BlockKind = "sum"
	KindProduct      BlockKind = "product"
	KindIntegrator   BlockKind = "integrator"
	KindDerivative   BlockKind = "derivative"
	KindSaturation   BlockKind = "saturation"
	KindSign         BlockKind = "sign"
	KindAbs          BlockKind = "abs"
	KindMemory       BlockKind = "memory"
	KindDelay        BlockKind = "delay"
	KindTrig         BlockKind = "trig"
	KindMath         BlockKind = "math"
	KindSqrt         BlockKind = "sqrt"
	KindRelational   BlockKind = "relational"
	KindLogic        BlockKind = "logic"
	KindSwitch       BlockKind = "switch"
	KindMux          BlockKind = "mux"
	KindDemux        BlockKind = "demux"
	KindScope        BlockKind = "scope"
	KindDisplay      BlockKind = "display"
	KindStep         BlockKind = "step"
	KindRamp         BlockKind = "ramp"
	KindSine         BlockKind = "sine"
	KindInport       BlockKind = "inport"
	KindOutport      BlockKind = "outport"
	KindSubsystem    BlockKind = "subsystem"
	KindReference    BlockKind = "reference"
	KindDataTypeConv BlockKind = "datatypeconv"
	KindReshape      BlockKind = "reshape"
	KindTerminator   BlockKind = "terminator"
	KindGround       BlockKind = "ground"
	KindPlaceholder  BlockKind = "placeholder"
)

// IsComposite reports whether blocks of this kind own a child subgraph.
func (k BlockKind) IsComposite() bool {
	return k == KindSubsystem || k == KindPlaceholder || k == KindReference
}

// IsInterfaceMarker reports whether blocks of this kind stand for one
// external terminal of an enclosing composite block. Markers carry exactly
// one port total: an outport marker has one input, an inport marker one
// output.
func (k BlockKind) IsInterfaceMarker() bool {
	return k == KindInport || k == KindOutport
}

// Position is the 2-D placement of a block on the diagram canvas.
type Position struct {
	X float64
	Y float64
}

// Block is a single vertex of the signal-flow graph.
type Block struct {
	// ID is unique within the enclosing scope (top level or one subsystem
	// body). It is never reused across scopes after a reference deep copy.
	ID string
	// Kind is the internal type tag resolved from the foreign block type.
	Kind BlockKind
	// Name is the human-readable display name from the source document.
	Name string
	// Pos is the top-left corner of the block on the canvas.
	Pos Position
	// Params holds the extracted parameter set. Keys are unique; insertion
	// order carries no meaning.
	Params map[string]string
	// Inputs and Outputs are the ordered port lists.
	Inputs  []*Port
	Outputs []*Port

	// Children and Links form the owned subgraph of a composite block. A
	// block appears in at most one parent; both are nil for leaf kinds.
	Children []*Block
	Links    []*Connection
}

// Param returns the named parameter value, or the given fallback when the
// parameter is absent.
func (b *Block) Param(key, fallback string) string {
	if v, ok := b.Params[key]; ok {
		return v
	}
	return fallback
}

// Input returns the input port at idx, or nil when out of range.
func (b *Block) Input(idx int) *Port {
	if idx < 0 || idx >= len(b.Inputs) {
		return nil
	}
	return b.Inputs[idx]
}

// Output returns the output port at idx, or nil when out of range.
func (b *Block) Output(idx int) *Port {
	if idx < 0 || idx >= len(b.Outputs) {
		return nil
	}
	return b.Outputs[idx]
}

// Child returns the child block with the given display name, or nil.
func (b *Block) Child(name string) *Block {
	for _, c := range b.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Markers returns the interface-marker children of the given kind sorted by
// their declared port number, with document order breaking ties. This is the
// canonical external port order of a composite block.
func (b *Block) Markers(kind BlockKind) []*Block {
	var markers []*Block
	for _, c := range b.Children {
		if c.Kind == kind {
			markers = append(markers, c)
		}
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markerNumber(markers[i]) < markerNumber(markers[j])
	})
	return markers
}

// markerNumber reads a marker's declared 1-based port number.
func markerNumber(b *Block) int {
	n, err := strconv.Atoi(b.Param("Port", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
