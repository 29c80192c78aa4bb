package mapping

import (
	"sort"
)

// ResolveAll flattens every raw document, in name order so registry
// collision diagnostics are deterministic run to run.
func ResolveAll(docs map[string]RawDocument) []ResolvedDocument {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}

	sort.Strings(names)

	resolver := NewResolver(docs)
	resolved := make([]ResolvedDocument, 0, len(names))

	for _, name := range names {
		resolved = append(resolved, resolver.Resolve(name))
	}

	return resolved
}
