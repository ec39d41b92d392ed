// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Endpoint names one side of a connection: a block and one of its ports.
type Endpoint struct {
	BlockID string
	PortID  string
}

// Connection is a directed point-to-point signal wire between two ports in
// the same graph scope. Fan-out in the source document is flattened into one
// Connection per leaf destination before it reaches the model.
type Connection struct {
	ID     string
	Source Endpoint
	Target Endpoint
}
