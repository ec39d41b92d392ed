// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// DimInherit is the sentinel dimension marking a shape that has not been
// resolved yet and should be inherited from the connected peer.
const DimInherit = -1

// Dims is an ordered tensor shape. A fully resolved shape contains only
// positive entries; the single-element shape {DimInherit} marks "inherit".
// Partially defined shapes never occur.
type Dims []int

// InheritDims returns the canonical unresolved shape.
func InheritDims() Dims { return Dims{DimInherit} }

// ScalarDims returns the shape of a plain scalar signal.
func ScalarDims() Dims { return Dims{1} }

// VectorDims returns a one-dimensional shape of length n.
func VectorDims(n int) Dims { return Dims{n} }

// Inherited reports whether the shape still carries the inherit sentinel.
func (d Dims) Inherited() bool {
	return len(d) == 1 && d[0] == DimInherit
}

// Equal reports element-wise equality of two shapes.
func (d Dims) Equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (d Dims) Clone() Dims {
	out := make(Dims, len(d))
	copy(out, d)
	return out
}

// PortDirection distinguishes input from output ports.
type PortDirection int

const (
	In PortDirection = iota
	Out
)

// String returns the identifier segment used for this direction.
func (d PortDirection) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// Port is one input or output terminal of a block.
type Port struct {
	// ID is derived deterministically from the owning block's ID, the port
	// direction, and the port index, so two synthesis runs over the same
	// block agree on identifiers.
	ID string
	// Name is the template name from the catalog schema (e.g. "u", "y").
	Name string
	// Type is the element type tag ("double", "bool", ...).
	Type string
	// Shape is the tensor shape carried by the signal at this port.
	Shape Dims
}

// PortID builds the deterministic identifier for a port of the given block.
func PortID(blockID string, dir PortDirection, idx int) string {
	return fmt.Sprintf("%s/%s/%d", blockID, dir, idx)
}
