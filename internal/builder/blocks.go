package builder

import (
	"context"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/document"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/ports"
	"github.com/vk/mdlgraph/internal/proptree"
	"github.com/vk/mdlgraph/internal/typemap"
)

// buildBlocks performs the node pass over one system body: it creates every
// block, synthesizes its ports, and recurses into composite bodies via the
// path index. It returns the blocks in document order plus a name lookup
// for the wiring pass.
func (b *Builder) buildBlocks(ctx context.Context, doc *document.Document, body *document.SystemBody, path string, report *model.Report) ([]*model.Block, map[string]*model.Block) {
	logger := ctxlog.FromContext(ctx)

	entries := body.Bucket(proptree.BlocksKey)
	blocks := make([]*model.Block, 0, len(entries))
	byName := make(map[string]*model.Block, len(entries))

	for _, entry := range entries {
		foreign := entry.Str("BlockType", "")
		name := entry.Str("Name", "")

		kind, known := typemap.ResolveKind(foreign)
		if !known {
			report.AddMapping(model.MappingWarning{
				Subject:   "block",
				Foreign:   foreign,
				BlockName: name,
			})
			logger.Debug("unknown foreign block type, using placeholder",
				"block", name, "foreign_type", foreign)
		}

		params := typemap.Params(kind, entry)
		id := b.newID()
		inputs, outputs := ports.Synthesize(b.cat, kind, id, params)

		block := &model.Block{
			ID:      id,
			Kind:    kind,
			Name:    name,
			Pos:     blockPosition(entry),
			Params:  params,
			Inputs:  inputs,
			Outputs: outputs,
		}

		if kind.IsComposite() && kind != model.KindReference {
			b.buildChildGraph(ctx, doc, entry, block, path, report)
		}

		blocks = append(blocks, block)
		if name != "" {
			byName[name] = block
		}
	}
	return blocks, byName
}

// buildChildGraph locates a composite block's system body by concatenated
// path (falling back to a physically nested body) and builds its subgraph.
// When a subgraph is found, the parent's externally visible ports are
// rebuilt from the interface markers inside so that they exactly match the
// internal terminals.
func (b *Builder) buildChildGraph(ctx context.Context, doc *document.Document, entry *proptree.Node, block *model.Block, parentPath string, report *model.Report) {
	childPath := document.JoinPath(parentPath, block.Name)

	childBody := doc.System(childPath)
	if childBody == nil {
		if nested := entry.Bucket(proptree.SystemsKey); len(nested) > 0 {
			childBody = nested[0]
		}
	}
	if childBody == nil || len(childBody.Bucket(proptree.BlocksKey)) == 0 {
		return
	}

	block.Children, block.Links = b.buildSystem(ctx, doc, childBody, childPath, report)
	rebuildCompositePorts(block)
}

// rebuildCompositePorts replaces a composite block's synthesized port guess
// with one external port per interface-marker child, ordered by the marker's
// declared port number.
func rebuildCompositePorts(block *model.Block) {
	ins := block.Markers(model.KindInport)
	outs := block.Markers(model.KindOutport)

	block.Inputs = make([]*model.Port, 0, len(ins))
	for i, m := range ins {
		block.Inputs = append(block.Inputs, &model.Port{
			ID:    model.PortID(block.ID, model.In, i),
			Name:  m.Name,
			Type:  "double",
			Shape: model.InheritDims(),
		})
	}
	block.Outputs = make([]*model.Port, 0, len(outs))
	for i, m := range outs {
		block.Outputs = append(block.Outputs, &model.Port{
			ID:    model.PortID(block.ID, model.Out, i),
			Name:  m.Name,
			Type:  "double",
			Shape: model.InheritDims(),
		})
	}
}

// blockPosition reads the top-left corner from a Position array.
func blockPosition(entry *proptree.Node) model.Position {
	s, ok := entry.Scalars["Position"]
	if !ok || len(s.Nums) < 2 {
		return model.Position{}
	}
	return model.Position{X: s.Nums[0], Y: s.Nums[1]}
}
