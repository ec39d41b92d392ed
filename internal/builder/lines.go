package builder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/document"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/proptree"
)

// destRef is one leaf destination of a line after branch flattening.
type destRef struct {
	blockName string
	portNum   int // 1-based declared index
}

// buildLines performs the wiring pass over one system body. Every leaf
// destination of a line (direct or reached through nested branches) becomes
// one independent point-to-point connection sharing the line's source
// endpoint.
func (b *Builder) buildLines(ctx context.Context, body *document.SystemBody, byName map[string]*model.Block, report *model.Report) []*model.Connection {
	logger := ctxlog.FromContext(ctx)

	var conns []*model.Connection
	for _, line := range body.Bucket(proptree.LinesKey) {
		srcName := line.Str("SrcBlock", "")
		dests := collectDests(line)

		srcBlock, srcPort, reason := resolveEndpoint(byName, srcName, portNum(line, "SrcPort"), model.Out, report)
		if srcBlock == nil || srcPort == nil {
			for _, d := range dests {
				report.AddWiring(model.WiringWarning{
					Source: srcName,
					Target: d.blockName,
					Reason: reason,
				})
			}
			continue
		}

		for _, d := range dests {
			dstBlock, dstPort, dstReason := resolveEndpoint(byName, d.blockName, d.portNum, model.In, report)
			if dstBlock == nil || dstPort == nil {
				report.AddWiring(model.WiringWarning{
					Source: srcName,
					Target: d.blockName,
					Reason: dstReason,
				})
				continue
			}
			conns = append(conns, &model.Connection{
				ID:     b.newID(),
				Source: model.Endpoint{BlockID: srcBlock.ID, PortID: srcPort.ID},
				Target: model.Endpoint{BlockID: dstBlock.ID, PortID: dstPort.ID},
			})
		}
	}

	if len(conns) > 0 {
		logger.Debug("wiring pass complete", "connections", len(conns))
	}
	return conns
}

// collectDests flattens a line's destination set: a direct destination plus
// every leaf reached through the recursively nestable branch list.
func collectDests(line *proptree.Node) []destRef {
	var dests []destRef
	if line.Has("DstBlock") {
		dests = append(dests, destRef{
			blockName: line.Str("DstBlock", ""),
			portNum:   portNum(line, "DstPort"),
		})
	}
	for _, branch := range line.Bucket(proptree.BranchesKey) {
		dests = append(dests, collectDests(branch)...)
	}
	return dests
}

// resolveEndpoint maps a (block name, 1-based port index) pair onto an
// existing block and port. An out-of-range index falls back to port index 0
// with a wiring warning; an unknown block or a block without ports on that
// side fails the endpoint.
func resolveEndpoint(byName map[string]*model.Block, blockName string, num int, dir model.PortDirection, report *model.Report) (*model.Block, *model.Port, string) {
	if blockName == "" {
		return nil, nil, "missing block name"
	}
	block, ok := byName[blockName]
	if !ok {
		return nil, nil, fmt.Sprintf("unknown block %q", blockName)
	}

	list := block.Outputs
	if dir == model.In {
		list = block.Inputs
	}
	if len(list) == 0 {
		return nil, nil, fmt.Sprintf("block %q has no %s ports", blockName, dir)
	}

	idx := num - 1
	if idx < 0 || idx >= len(list) {
		report.AddWiring(model.WiringWarning{
			Source: blockName,
			Target: blockName,
			Reason: fmt.Sprintf("%s port %d out of range, falling back to port 1", dir, num),
		})
		idx = 0
	}
	return block, list[idx], ""
}

// portNum reads a declared 1-based port index, defaulting to 1.
func portNum(node *proptree.Node, key string) int {
	n, err := strconv.Atoi(node.Str(key, "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
