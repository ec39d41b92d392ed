// Package library turns composite blocks into reusable definitions and
// resolves reference placeholders against them.
//
// Resolution installs deep copies only: every block and connection of a
// referenced implementation receives a fresh identifier through a two-pass
// remap (assign new IDs first, then rewrite all endpoint references), so
// each instantiation is fully disjoint from the registered original and
// from every other instantiation. Cyclic references are cut by an
// in-progress set and reported as unresolved instead of copied forever.
package library

import (
	"context"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/model"
)

// Extract selects every top-level composite block with a non-empty child
// list as a reusable library definition. External ports and the
// port-mapping table are rebuilt from the interface-marker children in
// declared port order.
func Extract(ctx context.Context, blocks []*model.Block) []*model.LibraryDefinition {
	logger := ctxlog.FromContext(ctx)

	var defs []*model.LibraryDefinition
	for _, b := range blocks {
		if !b.Kind.IsComposite() || len(b.Children) == 0 {
			continue
		}
		defs = append(defs, &model.LibraryDefinition{
			Name:           b.Name,
			Implementation: b,
			Bindings:       bindings(b),
		})
	}

	if len(defs) > 0 {
		logger.Debug("library definitions extracted", "count", len(defs))
	}
	return defs
}

// bindings correlates each external port with the interface marker that
// terminates it.
func bindings(b *model.Block) []model.PortBinding {
	var out []model.PortBinding

	ins := b.Markers(model.KindInport)
	for i, port := range b.Inputs {
		if i >= len(ins) {
			break
		}
		out = append(out, model.PortBinding{
			External:      port.ID,
			MarkerBlockID: ins[i].ID,
			Direction:     model.In,
		})
	}

	outs := b.Markers(model.KindOutport)
	for i, port := range b.Outputs {
		if i >= len(outs) {
			break
		}
		out = append(out, model.PortBinding{
			External:      port.ID,
			MarkerBlockID: outs[i].ID,
			Direction:     model.Out,
		})
	}
	return out
}
