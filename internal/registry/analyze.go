package registry

import (
	"context"
	"sort"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/document"
	"github.com/vk/mdlgraph/internal/proptree"
)

// Analysis classifies a document's reference placeholders against the
// current store contents, without building any graph.
type Analysis struct {
	// Resolvable and Unresolvable list the referenced paths by outcome, in
	// sorted order without duplicates.
	Resolvable   []string
	Unresolvable []string
	// AvailableLibraries are referenced library names whose references all
	// resolve; MissingLibraries have no store entry at all.
	AvailableLibraries []string
	MissingLibraries   []string
}

// Analyze scans every system body of a document for reference placeholders
// and checks each against the store.
func Analyze(ctx context.Context, doc *document.Document, store *Store) *Analysis {
	logger := ctxlog.FromContext(ctx)

	paths := make(map[string]bool)
	collectReferences(doc.Primary, paths)
	for _, sys := range doc.Systems {
		collectReferences(sys, paths)
	}

	resolvable := make(map[string]bool)
	libAllResolved := make(map[string]bool)
	libSeen := make(map[string]bool)

	for path := range paths {
		_, ok := store.Resolve(path)
		resolvable[path] = ok
		if lib, _, hasLib := SplitPath(path); hasLib {
			libSeen[lib] = true
			if all, tracked := libAllResolved[lib]; !tracked {
				libAllResolved[lib] = ok
			} else {
				libAllResolved[lib] = all && ok
			}
		}
	}

	a := &Analysis{}
	for path, ok := range resolvable {
		if ok {
			a.Resolvable = append(a.Resolvable, path)
		} else {
			a.Unresolvable = append(a.Unresolvable, path)
		}
	}
	for lib := range libSeen {
		switch {
		case libAllResolved[lib]:
			a.AvailableLibraries = append(a.AvailableLibraries, lib)
		case !store.HasLibrary(lib):
			a.MissingLibraries = append(a.MissingLibraries, lib)
		}
	}

	sort.Strings(a.Resolvable)
	sort.Strings(a.Unresolvable)
	sort.Strings(a.AvailableLibraries)
	sort.Strings(a.MissingLibraries)

	logger.Debug("dependency analysis complete",
		"references", len(paths),
		"resolvable", len(a.Resolvable),
		"unresolvable", len(a.Unresolvable))
	return a
}

// collectReferences walks one system body (and branches/nested bodies it
// physically contains) for reference placeholder entries.
func collectReferences(body *proptree.Node, out map[string]bool) {
	if body == nil {
		return
	}
	for _, blk := range body.Bucket(proptree.BlocksKey) {
		if blk.Str("BlockType", "") == "Reference" {
			if src := blk.Str("SourceBlock", ""); src != "" {
				out[src] = true
			}
		}
		for _, nested := range blk.Bucket(proptree.SystemsKey) {
			collectReferences(nested, out)
		}
	}
	for _, nested := range body.Bucket(proptree.SystemsKey) {
		collectReferences(nested, out)
	}
}
