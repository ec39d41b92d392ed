// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// StructuralError is the only fatal import condition: the document has no
// recognizable top-level container. Everything else degrades into Report
// entries.
type StructuralError struct {
	Reason string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s", e.Reason)
}

// MappingWarning records a foreign block or solver type that has no entry in
// the static mapping tables. The affected entity is kept with a documented
// default, never dropped.
type MappingWarning struct {
	// Subject is "block" or "solver".
	Subject string
	// Foreign is the unrecognized foreign vocabulary string.
	Foreign string
	// BlockName names the affected block, empty for solver warnings.
	BlockName string
}

func (w MappingWarning) String() string {
	if w.BlockName != "" {
		return fmt.Sprintf("unknown %s type %q on block %q", w.Subject, w.Foreign, w.BlockName)
	}
	return fmt.Sprintf("unknown %s type %q", w.Subject, w.Foreign)
}

// WiringWarning records a line or branch destination that could not be
// resolved to an existing block/port. Only the single affected connection is
// dropped.
type WiringWarning struct {
	Source string
	Target string
	Reason string
}

func (w WiringWarning) String() string {
	return fmt.Sprintf("dropped connection %s -> %s: %s", w.Source, w.Target, w.Reason)
}

// Report collects every non-fatal finding of one import run.
type Report struct {
	Mapping []MappingWarning
	Wiring  []WiringWarning
}

// AddMapping appends a mapping warning.
func (r *Report) AddMapping(w MappingWarning) {
	r.Mapping = append(r.Mapping, w)
}

// AddWiring appends a wiring warning.
func (r *Report) AddWiring(w WiringWarning) {
	r.Wiring = append(r.Wiring, w)
}

// Empty reports whether the import produced no warnings at all.
func (r *Report) Empty() bool {
	return len(r.Mapping) == 0 && len(r.Wiring) == 0
}
