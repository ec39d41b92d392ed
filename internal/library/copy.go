package library

import "github.com/vk/mdlgraph/internal/model"

// remapper carries the identifier translation tables of one deep copy.
type remapper struct {
	newID  func() string
	blocks map[string]string // old block ID -> new block ID
	ports  map[string]string // old port ID -> new port ID
}

func newRemapper(newID func() string) *remapper {
	return &remapper{
		newID:  newID,
		blocks: make(map[string]string),
		ports:  make(map[string]string),
	}
}

// assign walks a subtree and gives every block a fresh identifier, deriving
// the matching port identifiers. Running this as a separate first pass means
// connection rewriting never races ahead of the table.
func (r *remapper) assign(blocks []*model.Block) {
	for _, b := range blocks {
		id := r.newID()
		r.blocks[b.ID] = id
		for i, p := range b.Inputs {
			r.ports[p.ID] = model.PortID(id, model.In, i)
		}
		for i, p := range b.Outputs {
			r.ports[p.ID] = model.PortID(id, model.Out, i)
		}
		r.assign(b.Children)
	}
}

// cloneBlocks rewrites a subtree through the remap tables.
func (r *remapper) cloneBlocks(blocks []*model.Block) []*model.Block {
	if blocks == nil {
		return nil
	}
	out := make([]*model.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, r.cloneBlock(b))
	}
	return out
}

func (r *remapper) cloneBlock(b *model.Block) *model.Block {
	clone := &model.Block{
		ID:      r.blocks[b.ID],
		Kind:    b.Kind,
		Name:    b.Name,
		Pos:     b.Pos,
		Params:  cloneParams(b.Params),
		Inputs:  r.clonePorts(b.Inputs),
		Outputs: r.clonePorts(b.Outputs),
	}
	clone.Children = r.cloneBlocks(b.Children)
	clone.Links = r.cloneLinks(b.Links)
	return clone
}

func (r *remapper) clonePorts(ports []*model.Port) []*model.Port {
	if ports == nil {
		return nil
	}
	out := make([]*model.Port, 0, len(ports))
	for _, p := range ports {
		out = append(out, &model.Port{
			ID:    r.ports[p.ID],
			Name:  p.Name,
			Type:  p.Type,
			Shape: p.Shape.Clone(),
		})
	}
	return out
}

func (r *remapper) cloneLinks(links []*model.Connection) []*model.Connection {
	if links == nil {
		return nil
	}
	out := make([]*model.Connection, 0, len(links))
	for _, c := range links {
		out = append(out, &model.Connection{
			ID: r.newID(),
			Source: model.Endpoint{
				BlockID: r.blocks[c.Source.BlockID],
				PortID:  r.ports[c.Source.PortID],
			},
			Target: model.Endpoint{
				BlockID: r.blocks[c.Target.BlockID],
				PortID:  r.ports[c.Target.PortID],
			},
		})
	}
	return out
}

func cloneParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// deepCopy duplicates an implementation subtree with fresh identifiers for
// every nested block and connection.
func deepCopy(impl *model.Block, newID func() string) *model.Block {
	r := newRemapper(newID)
	r.assign([]*model.Block{impl})
	return r.cloneBlock(impl)
}
