// Package dims resolves unset tensor shapes over an assembled graph by
// fixed-point relaxation.
//
// Each pass seeds constant outputs from their value literals, pulls
// inherited shapes backwards through pass-through blocks and composite
// boundaries, and lifts resolved interface-terminal shapes onto the owning
// composite's external ports. Passes repeat until nothing changes; a hard
// pass cap guards against malformed cyclic wiring, and non-convergence is
// accepted silently. Every trace carries a visited set over (block, port)
// pairs so it stays finite on cycles.
package dims

import (
	"context"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/typemap"
)

// maxPasses bounds the relaxation loop on graphs whose shapes never settle.
const maxPasses = 10

// passThrough lists the kinds whose output shape equals their single
// input's shape, making them transparent to backward traces.
var passThrough = map[model.BlockKind]bool{
	model.KindGain:         true,
	model.KindSign:         true,
	model.KindAbs:          true,
	model.KindSaturation:   true,
	model.KindMemory:       true,
	model.KindDelay:        true,
	model.KindIntegrator:   true,
	model.KindDerivative:   true,
	model.KindTrig:         true,
	model.KindMath:         true,
	model.KindSqrt:         true,
	model.KindDataTypeConv: true,
	model.KindReshape:      true,
}

// scope is one graph level with the lookup tables a pass needs.
type scope struct {
	blocks []*model.Block
	// incoming maps an input port ID to the connection feeding it.
	incoming map[string]*model.Connection
	byID     map[string]*model.Block
}

func newScope(blocks []*model.Block, conns []*model.Connection) *scope {
	s := &scope{
		blocks:   blocks,
		incoming: make(map[string]*model.Connection, len(conns)),
		byID:     make(map[string]*model.Block, len(blocks)),
	}
	for _, b := range blocks {
		s.byID[b.ID] = b
	}
	for _, c := range conns {
		s.incoming[c.Target.PortID] = c
	}
	return s
}

// Propagate resolves shapes on the given graph level and every nested level,
// children before parents so composite boundaries can be crossed.
func Propagate(ctx context.Context, blocks []*model.Block, conns []*model.Connection) {
	for _, b := range blocks {
		if len(b.Children) > 0 {
			Propagate(ctx, b.Children, b.Links)
		}
	}

	s := newScope(blocks, conns)
	passes := 0
	for ; passes < maxPasses; passes++ {
		if !s.pass() {
			break
		}
	}
	if passes == maxPasses {
		ctxlog.FromContext(ctx).Debug("dimension propagation did not converge", "passes", passes)
	}
}

// pass runs one relaxation sweep and reports whether any shape changed.
func (s *scope) pass() bool {
	changed := false

	for _, b := range s.blocks {
		switch {
		case b.Kind == model.KindConstant:
			if out := b.Output(0); out != nil && out.Shape.Inherited() {
				out.Shape = constantShape(b)
				changed = true
			}

		case passThrough[b.Kind]:
			if out := b.Output(0); out != nil && out.Shape.Inherited() {
				if d := s.sourceShape(b, 0, newVisited()); d != nil {
					out.Shape = d.Clone()
					changed = true
				}
			}
			if in := b.Input(0); in != nil && in.Shape.Inherited() {
				if d := s.sourceShape(b, 0, newVisited()); d != nil {
					in.Shape = d.Clone()
					changed = true
				}
			}

		case b.Kind == model.KindOutport:
			if in := b.Input(0); in != nil && in.Shape.Inherited() {
				if d := s.sourceShape(b, 0, newVisited()); d != nil {
					in.Shape = d.Clone()
					changed = true
				}
			}

		case len(b.Children) > 0:
			if s.liftTerminalShapes(b) {
				changed = true
			}
		}
	}
	return changed
}

// liftTerminalShapes copies resolved interface-output-terminal shapes onto
// the composite's matching external output ports.
func (s *scope) liftTerminalShapes(b *model.Block) bool {
	markers := b.Markers(model.KindOutport)
	changed := false
	for i, out := range b.Outputs {
		if !out.Shape.Inherited() || i >= len(markers) {
			continue
		}
		if in := markers[i].Input(0); in != nil && !in.Shape.Inherited() {
			out.Shape = in.Shape.Clone()
			changed = true
		}
	}
	return changed
}

// sourceShape resolves the shape arriving at a block's input by tracing the
// incoming connection back to its immediate source output.
func (s *scope) sourceShape(b *model.Block, inIdx int, visited map[string]bool) model.Dims {
	in := b.Input(inIdx)
	if in == nil {
		return nil
	}
	conn, ok := s.incoming[in.ID]
	if !ok {
		return nil
	}
	src := s.byID[conn.Source.BlockID]
	if src == nil {
		return nil
	}
	outIdx := outputIndex(src, conn.Source.PortID)
	if outIdx < 0 {
		return nil
	}
	return s.outputShape(src, outIdx, visited)
}

// outputShape resolves a block's output shape, following the pass-through
// allowlist and, for composites, tracing into the interface-output
// terminal's internal wiring.
func (s *scope) outputShape(b *model.Block, outIdx int, visited map[string]bool) model.Dims {
	out := b.Output(outIdx)
	if out == nil {
		return nil
	}
	if !out.Shape.Inherited() {
		return out.Shape
	}

	key := b.ID + "|" + out.ID
	if visited[key] {
		return nil
	}
	visited[key] = true

	switch {
	case b.Kind == model.KindConstant:
		return constantShape(b)

	case passThrough[b.Kind]:
		return s.sourceShape(b, 0, visited)

	case len(b.Children) > 0:
		markers := b.Markers(model.KindOutport)
		if outIdx >= len(markers) {
			return nil
		}
		marker := markers[outIdx]
		if in := marker.Input(0); in != nil && !in.Shape.Inherited() {
			return in.Shape
		}
		child := newScope(b.Children, b.Links)
		return child.sourceShape(marker, 0, visited)
	}
	return nil
}

// constantShape derives a constant's output shape from the literal form of
// its value parameter: a delimited list becomes a one-dimensional shape
// sized to the element count, anything else is scalar.
func constantShape(b *model.Block) model.Dims {
	nums := typemap.Numbers(b.Param("Value", "1"))
	if len(nums) > 1 {
		return model.VectorDims(len(nums))
	}
	return model.ScalarDims()
}

func outputIndex(b *model.Block, portID string) int {
	for i, p := range b.Outputs {
		if p.ID == portID {
			return i
		}
	}
	return -1
}

func newVisited() map[string]bool {
	return make(map[string]bool)
}
