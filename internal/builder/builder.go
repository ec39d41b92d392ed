// Package builder assembles the internal block/connection graph from an
// extracted document.
//
// Construction runs in two passes per graph level, mirroring the rest of the
// pipeline's build-then-link structure: a node pass creates every block
// (recursing into subsystem bodies through the document's path index), then
// a wiring pass converts line entries, flattening fan-out branches into
// independent point-to-point connections. Unresolvable endpoints drop the
// single affected connection with a wiring warning; nothing aborts the
// build.
package builder

import (
	"context"

	"github.com/google/uuid"

	"github.com/vk/mdlgraph/internal/catalog"
	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/document"
	"github.com/vk/mdlgraph/internal/model"
)

// Builder constructs graphs against one catalog. The identifier source is
// injectable so tests can produce stable IDs.
type Builder struct {
	cat   *catalog.Catalog
	newID func() string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithIDSource replaces the identifier generator.
func WithIDSource(f func() string) Option {
	return func(b *Builder) { b.newID = f }
}

// New creates a Builder over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Builder {
	b := &Builder{
		cat:   cat,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the assembled top-level graph plus the collected warnings.
type Result struct {
	Blocks      []*model.Block
	Connections []*model.Connection
	Report      model.Report
}

// Build converts the document's primary system and every subsystem body
// reachable from it into a graph.
func (b *Builder) Build(ctx context.Context, doc *document.Document) *Result {
	logger := ctxlog.FromContext(ctx)
	res := &Result{}

	rootPath := doc.Primary.Str("Name", doc.Meta.Name)
	res.Blocks, res.Connections = b.buildSystem(ctx, doc, doc.Primary, rootPath, &res.Report)

	logger.Debug("graph build complete",
		"blocks", len(res.Blocks),
		"connections", len(res.Connections),
		"mapping_warnings", len(res.Report.Mapping),
		"wiring_warnings", len(res.Report.Wiring))
	return res
}

// buildSystem converts one system body at the given path, descending into
// composite blocks.
func (b *Builder) buildSystem(ctx context.Context, doc *document.Document, body *document.SystemBody, path string, report *model.Report) ([]*model.Block, []*model.Connection) {
	blocks, byName := b.buildBlocks(ctx, doc, body, path, report)
	conns := b.buildLines(ctx, body, byName, report)
	return blocks, conns
}
