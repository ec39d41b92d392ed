package library

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/registry"
)

// Resolver converts reference placeholders into composite blocks by copying
// the referenced implementation. Same-file definitions take precedence over
// the cross-file store.
type Resolver struct {
	local      map[string]*model.LibraryDefinition
	store      *registry.Store
	newID      func() string
	inProgress map[string]bool
	unresolved map[string]bool
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithIDSource replaces the identifier generator used for copies.
func WithIDSource(f func() string) ResolverOption {
	return func(r *Resolver) { r.newID = f }
}

// NewResolver builds a resolver over the same-file definitions (keyed by
// unqualified name) and an optional cross-file store.
func NewResolver(local []*model.LibraryDefinition, store *registry.Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		local:      make(map[string]*model.LibraryDefinition, len(local)),
		store:      store,
		newID:      uuid.NewString,
		inProgress: make(map[string]bool),
		unresolved: make(map[string]bool),
	}
	for _, def := range local {
		if def.Name != "" {
			r.local[def.Name] = def
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveAll resolves every reference placeholder reachable from the given
// blocks, recursing into composite children and into freshly installed
// copies. It returns the sorted set of paths that could not be resolved;
// the corresponding placeholders are left unconverted.
func (r *Resolver) ResolveAll(ctx context.Context, blocks []*model.Block) []string {
	logger := ctxlog.FromContext(ctx)

	r.resolveBlocks(ctx, blocks)

	out := make([]string, 0, len(r.unresolved))
	for path := range r.unresolved {
		out = append(out, path)
	}
	sort.Strings(out)

	if len(out) > 0 {
		logger.Debug("unresolved references remain", "count", len(out))
	}
	return out
}

func (r *Resolver) resolveBlocks(ctx context.Context, blocks []*model.Block) {
	for _, b := range blocks {
		if b.Kind == model.KindReference {
			r.resolveReference(ctx, b)
			continue
		}
		if len(b.Children) > 0 {
			r.resolveBlocks(ctx, b.Children)
		}
	}
}

// resolveReference resolves one placeholder in place.
func (r *Resolver) resolveReference(ctx context.Context, b *model.Block) {
	logger := ctxlog.FromContext(ctx)

	path := b.Param("SourceBlock", "")
	if path == "" {
		r.unresolved[b.Name] = true
		return
	}

	if r.inProgress[path] {
		// Self- or transitively-referential library. Copying would never
		// terminate, so the reference stays unresolved.
		logger.Warn("cyclic library reference detected", "path", path)
		r.unresolved[path] = true
		return
	}

	impl := r.lookup(path)
	if impl == nil {
		r.unresolved[path] = true
		return
	}

	r.inProgress[path] = true
	defer delete(r.inProgress, path)

	r.convert(b, impl)
	logger.Debug("reference resolved", "block", b.Name, "path", path)

	// The copy may itself contain placeholders.
	r.resolveBlocks(ctx, b.Children)
}

// lookup finds an implementation: unqualified names against the same-file
// table, qualified paths against the store (exact, then version-normalized).
func (r *Resolver) lookup(path string) *model.Block {
	if !strings.Contains(path, registry.PathSeparator) {
		if def, ok := r.local[path]; ok {
			return def.Implementation
		}
		return nil
	}
	if r.store == nil {
		return nil
	}
	if impl, ok := r.store.Resolve(path); ok {
		return impl
	}
	return nil
}

// convert turns the placeholder into a composite block carrying a disjoint
// copy of the implementation's ports, children, and connections. The
// placeholder keeps its own identifier and display name.
func (r *Resolver) convert(b *model.Block, impl *model.Block) {
	copied := deepCopy(impl, r.newID)

	b.Kind = model.KindSubsystem
	b.Children = copied.Children
	b.Links = copied.Links

	b.Inputs = rehomePorts(b.ID, model.In, copied.Inputs)
	b.Outputs = rehomePorts(b.ID, model.Out, copied.Outputs)
}

// rehomePorts re-derives copied boundary ports against the placeholder's own
// identifier so port IDs stay deterministic per block.
func rehomePorts(blockID string, dir model.PortDirection, ports []*model.Port) []*model.Port {
	out := make([]*model.Port, 0, len(ports))
	for i, p := range ports {
		out = append(out, &model.Port{
			ID:    model.PortID(blockID, dir, i),
			Name:  p.Name,
			Type:  p.Type,
			Shape: p.Shape.Clone(),
		})
	}
	return out
}
