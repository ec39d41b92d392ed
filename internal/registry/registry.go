// Package registry provides the cross-file store of resolvable subsystem
// implementations.
//
// The store is caller-owned rather than process-global: a host constructs
// one Store per import session (or one shared across sessions that must
// cross-reference each other) and passes it into the reference resolver and
// the dependency analyzer. Stored implementations are shared by reference
// and never mutated by consumers; resolution installs deep copies only.
//
// The host application serializes imports, so the store performs no internal
// locking.
package registry

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/model"
)

// PathSeparator joins a library name and a block name into a path key.
const PathSeparator = "/"

// versionSuffix matches a trailing version-style suffix on a library name,
// e.g. "mylib_v2", "mylib-1.0", "mylib_3".
var versionSuffix = regexp.MustCompile(`[_-][vV]?\d+(\.\d+)*$`)

// Store is the keyed collection of subsystem implementations.
type Store struct {
	entries map[string]*model.Block
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*model.Block)}
}

// PathKey builds the literal path key for a block in a library.
func PathKey(library, block string) string {
	return library + PathSeparator + block
}

// NormalizeLibrary strips a trailing version-style suffix from a library
// name. Names without such a suffix are returned unchanged.
func NormalizeLibrary(library string) string {
	return versionSuffix.ReplaceAllString(library, "")
}

// NormalizePath rewrites a path key with its library component normalized.
func NormalizePath(path string) string {
	lib, block, ok := SplitPath(path)
	if !ok {
		return path
	}
	return PathKey(NormalizeLibrary(lib), block)
}

// SplitPath splits "library/block" into its components. The block component
// is everything after the first separator, so block names may themselves
// contain separators.
func SplitPath(path string) (library, block string, ok bool) {
	i := strings.Index(path, PathSeparator)
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// Register stores a batch of library definitions under a library name. Each
// definition is stored under the literal path and, when the library name
// carries a version-style suffix, under the normalized path as well.
func (s *Store) Register(ctx context.Context, library string, defs []*model.LibraryDefinition) {
	logger := ctxlog.FromContext(ctx)
	normalized := NormalizeLibrary(library)

	for _, def := range defs {
		if def.Implementation == nil || def.Name == "" {
			continue
		}
		s.entries[PathKey(library, def.Name)] = def.Implementation
		if normalized != library {
			s.entries[PathKey(normalized, def.Name)] = def.Implementation
		}
	}
	logger.Debug("library registered", "library", library, "definitions", len(defs))
}

// Unregister removes every entry stored for a library name, matching both
// the literal and the normalized prefix.
func (s *Store) Unregister(library string) {
	prefixes := []string{library + PathSeparator}
	if n := NormalizeLibrary(library); n != library {
		prefixes = append(prefixes, n+PathSeparator)
	}
	for key := range s.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(s.entries, key)
				break
			}
		}
	}
}

// Lookup returns the implementation stored under the exact path key.
func (s *Store) Lookup(path string) (*model.Block, bool) {
	impl, ok := s.entries[path]
	return impl, ok
}

// Resolve looks a path up first literally, then with its library component
// normalized.
func (s *Store) Resolve(path string) (*model.Block, bool) {
	if impl, ok := s.entries[path]; ok {
		return impl, true
	}
	if norm := NormalizePath(path); norm != path {
		if impl, ok := s.entries[norm]; ok {
			return impl, true
		}
	}
	return nil, false
}

// Libraries enumerates the distinct registered library names in sorted
// order.
func (s *Store) Libraries() []string {
	seen := make(map[string]bool)
	for key := range s.entries {
		if lib, _, ok := SplitPath(key); ok {
			seen[lib] = true
		}
	}
	libs := make([]string, 0, len(seen))
	for lib := range seen {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	return libs
}

// HasLibrary reports whether any entry exists for the library name, literal
// or normalized.
func (s *Store) HasLibrary(library string) bool {
	prefixes := []string{library + PathSeparator}
	if n := NormalizeLibrary(library); n != library {
		prefixes = append(prefixes, n+PathSeparator)
	}
	for key := range s.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				return true
			}
		}
	}
	return false
}

// Len returns the number of stored entries, normalized aliases included.
func (s *Store) Len() int {
	return len(s.entries)
}

// Clear drops every entry. Primarily for test isolation.
func (s *Store) Clear() {
	s.entries = make(map[string]*model.Block)
}
