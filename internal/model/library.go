// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// PortBinding correlates one external port of a library block with the
// interface-marker child that terminates it inside the implementation.
type PortBinding struct {
	// External is the ID of the port on the library block's boundary.
	External string
	// MarkerBlockID is the ID of the inport/outport child representing that
	// terminal inside the implementation subgraph.
	MarkerBlockID string
	// Direction tells which side of the boundary the binding describes.
	Direction PortDirection
}

// LibraryDefinition is the reusable contract of a composite block: its
// external ports and parameters plus an owned copy of its implementation
// subgraph. Consumers never mutate a stored definition; reference resolution
// installs deep copies with fresh identifiers instead.
type LibraryDefinition struct {
	// Name is the block-name component of the definition's path key.
	Name string
	// Implementation is the composite block backing this definition,
	// including its child blocks and connections.
	Implementation *Block
	// Bindings maps every external port to its internal terminal.
	Bindings []PortBinding
}
