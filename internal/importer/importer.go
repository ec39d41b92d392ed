// Package importer is the pipeline facade: raw document text in, internal
// graph plus findings out.
//
// The pipeline is a pure function of its input text, the catalog, and the
// contents of the optional cross-file store. Stages run strictly in order:
// lex, parse, extract, build, propagate dimensions, extract libraries,
// resolve references (then propagate once more so installed copies settle).
// The only error an import returns is a structural one; everything else
// degrades into the result's report.
package importer

import (
	"context"

	"github.com/vk/mdlgraph/internal/builder"
	"github.com/vk/mdlgraph/internal/catalog"
	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/dims"
	"github.com/vk/mdlgraph/internal/document"
	"github.com/vk/mdlgraph/internal/library"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/registry"
	"github.com/vk/mdlgraph/internal/typemap"
)

// Options configures one import run.
type Options struct {
	// Catalog supplies the block-type schemas. Nil means the built-in
	// default catalog.
	Catalog *catalog.Catalog
	// Registry is the cross-file store consulted for qualified references.
	// Nil leaves cross-file references unresolved.
	Registry *registry.Store
	// IDSource overrides identifier generation, for deterministic tests.
	IDSource func() string
}

// Result is everything one import produces.
type Result struct {
	// Meta carries the declared header fields; absent fields keep their
	// zero value with the matching Has flag unset.
	Meta document.Metadata
	// Integration is the internal integration-method tag mapped from the
	// declared solver.
	Integration typemap.Integration
	// IsLibrary marks a reusable-block collection document.
	IsLibrary bool

	Blocks      []*model.Block
	Connections []*model.Connection

	// Libraries are the reusable definitions extracted from the top level.
	Libraries []*model.LibraryDefinition
	// Unresolved lists reference paths that matched nothing, sorted.
	Unresolved []string

	Report model.Report
}

// Import runs the full pipeline over raw document text. The returned error
// is non-nil only for a *model.StructuralError; no partial result
// accompanies it.
func Import(ctx context.Context, text string, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	doc, err := document.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	var buildOpts []builder.Option
	if opts.IDSource != nil {
		buildOpts = append(buildOpts, builder.WithIDSource(opts.IDSource))
	}
	built := builder.New(cat, buildOpts...).Build(ctx, doc)

	res := &Result{
		Meta:        doc.Meta,
		IsLibrary:   doc.IsLibrary,
		Blocks:      built.Blocks,
		Connections: built.Connections,
		Report:      built.Report,
	}

	integration, known := typemap.ResolveSolver(doc.Meta.Solver)
	res.Integration = integration
	if !known {
		res.Report.AddMapping(model.MappingWarning{Subject: "solver", Foreign: doc.Meta.Solver})
	}

	dims.Propagate(ctx, res.Blocks, res.Connections)

	res.Libraries = library.Extract(ctx, res.Blocks)

	var resolveOpts []library.ResolverOption
	if opts.IDSource != nil {
		resolveOpts = append(resolveOpts, library.WithIDSource(opts.IDSource))
	}
	resolver := library.NewResolver(res.Libraries, opts.Registry, resolveOpts...)
	res.Unresolved = resolver.ResolveAll(ctx, res.Blocks)

	// Installed copies bring fresh inherit sentinels with them.
	dims.Propagate(ctx, res.Blocks, res.Connections)

	logger.Info("import complete",
		"name", res.Meta.Name,
		"blocks", len(res.Blocks),
		"connections", len(res.Connections),
		"libraries", len(res.Libraries),
		"unresolved", len(res.Unresolved))
	return res, nil
}

// RegisterLibraries installs an import's extracted definitions into a store
// under the given library name, so later imports can reference them.
func RegisterLibraries(ctx context.Context, store *registry.Store, libraryName string, res *Result) {
	store.Register(ctx, libraryName, res.Libraries)
}
