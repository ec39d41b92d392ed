// Package document extracts the top-level structure of a parsed property
// tree: declared metadata, the primary system body, and a path-indexed
// lookup of every system body found anywhere in the document.
//
// Subsystem content in the foreign format is not physically nested; system
// entries are flat siblings whose declared names encode the /-joined path of
// ancestor block names. The graph builder composes lookup paths the same
// way.
package document

import (
	"context"
	"strconv"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/model"
	"github.com/vk/mdlgraph/internal/proptree"
	"github.com/vk/mdlgraph/internal/token"
)

// Top-level container keys. A document must carry exactly one of them.
const (
	modelKey   = "Model"
	libraryKey = "Library"
)

// PathSeparator joins ancestor block names into a system path.
const PathSeparator = "/"

// SystemBody is the raw property-tree body of one system entry: its block,
// line, and nested system buckets plus declared scalars.
type SystemBody = proptree.Node

// JoinPath appends a block name to an ancestor path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + PathSeparator + name
}

// Metadata holds the declared document header fields. All fields are
// optional in the source; zero values mean "not declared" and each consumer
// applies its own default.
type Metadata struct {
	Name      string
	StartTime float64
	StopTime  float64
	// Solver is the foreign solver identifier, not yet mapped to an
	// internal integration method.
	Solver    string
	FixedStep float64
	HasStart  bool
	HasStop   bool
	HasStep   bool
}

// Document is the extracted top-level view of a parsed property tree.
type Document struct {
	Meta Metadata
	// IsLibrary is true when the container was a reusable-block collection
	// rather than a full diagram.
	IsLibrary bool
	// Primary is the main system body: the first entry of the top-level
	// system sequence, or a synthetic body wrapping root-level blocks when
	// no system sequence exists.
	Primary *proptree.Node
	// Systems indexes every system body in the document by its declared
	// name. Declared names of nested bodies are full /-joined paths.
	Systems map[string]*proptree.Node
}

// System returns the system body registered under the given path, or nil.
func (d *Document) System(path string) *proptree.Node {
	return d.Systems[path]
}

// Parse tokenizes and parses raw document text and extracts its top-level
// structure. The only failure mode is a missing top-level container, which
// aborts the import with a model.StructuralError.
func Parse(ctx context.Context, text string) (*Document, error) {
	tokens := token.Scan(text)
	root, _ := proptree.Parse(tokens, 0)
	return Extract(ctx, root)
}

// Extract builds a Document from an already-parsed property tree root.
func Extract(ctx context.Context, root *proptree.Node) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	container := root.Child(modelKey)
	isLibrary := false
	if container == nil {
		container = root.Child(libraryKey)
		isLibrary = container != nil
	}
	if container == nil {
		return nil, &model.StructuralError{Reason: "document has no Model or Library container"}
	}

	doc := &Document{
		Meta:      extractMetadata(container),
		IsLibrary: isLibrary,
		Systems:   make(map[string]*proptree.Node),
	}

	indexSystems(container, doc.Systems)

	if systems := container.Bucket(proptree.SystemsKey); len(systems) > 0 {
		doc.Primary = systems[0]
	} else if blocks := container.Bucket(proptree.BlocksKey); len(blocks) > 0 {
		// Some library files carry blocks directly under the container.
		synthetic := proptree.NewNode()
		synthetic.Buckets[proptree.BlocksKey] = blocks
		synthetic.Buckets[proptree.LinesKey] = container.Bucket(proptree.LinesKey)
		doc.Primary = synthetic
	}

	if doc.Primary == nil {
		logger.Warn("document has a container but no system body", "name", doc.Meta.Name)
		doc.Primary = proptree.NewNode()
	}

	logger.Debug("document extracted",
		"name", doc.Meta.Name,
		"library", doc.IsLibrary,
		"systems", len(doc.Systems))
	return doc, nil
}

// extractMetadata reads the optional declared header fields.
func extractMetadata(container *proptree.Node) Metadata {
	meta := Metadata{
		Name:   container.Str("Name", ""),
		Solver: container.Str("Solver", ""),
	}
	if raw := container.Str("StartTime", ""); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			meta.StartTime = v
			meta.HasStart = true
		}
	}
	if raw := container.Str("StopTime", ""); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			meta.StopTime = v
			meta.HasStop = true
		}
	}
	if raw := container.Str("FixedStep", ""); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			meta.FixedStep = v
			meta.HasStep = true
		}
	}
	return meta
}

// indexSystems walks every system sequence reachable from the node and keys
// each body by its declared name. Bodies without a name are unreachable by
// path lookup and skipped.
func indexSystems(node *proptree.Node, index map[string]*proptree.Node) {
	for _, sys := range node.Bucket(proptree.SystemsKey) {
		if name := sys.Str("Name", ""); name != "" {
			index[name] = sys
		}
		indexSystems(sys, index)
	}
	// System bodies may also hide inside block entries (physically nested
	// subsystems) and nested containers.
	for _, blk := range node.Bucket(proptree.BlocksKey) {
		indexSystems(blk, index)
	}
	for _, child := range node.Children {
		indexSystems(child, index)
	}
}
