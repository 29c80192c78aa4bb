package mapping

import (
	"log/slog"
)

// Resolver flattens the extends chain of raw documents into resolved
// documents. It holds the full raw document set and never mutates it;
// resolution is idempotent, so resolving the same parent repeatedly during
// sibling resolution yields identical results.
type Resolver struct {
	docs map[string]RawDocument
}

// NewResolver creates a Resolver over the given raw document set, keyed by
// document name.
func NewResolver(docs map[string]RawDocument) *Resolver {
	return &Resolver{docs: docs}
}

// Resolve flattens the named document. Missing parents and cyclic extends
// chains degrade to the child's own section declarations with a logged
// diagnostic; Resolve never fails. Resolving an unknown name yields a
// document with that name and no sections.
func (r *Resolver) Resolve(name string) ResolvedDocument {
	return r.resolve(name, map[string]bool{})
}

// resolve carries the set of names currently being resolved down the
// recursion so cycles are detected by membership, not by stack depth.
func (r *Resolver) resolve(name string, resolving map[string]bool) ResolvedDocument {
	doc, ok := r.docs[name]
	if !ok {
		slog.Warn("mapping: document not found", "name", name)

		return ResolvedDocument{Name: name}
	}

	resolving[name] = true
	defer delete(resolving, name)

	resolved := ResolvedDocument{
		Name:        doc.Name,
		TenantID:    doc.TenantID,
		ProgramID:   doc.ProgramID,
		TenantName:  doc.TenantName,
		ProgramName: doc.ProgramName,
		Default:     doc.Default,
	}

	parent, hasParent := r.resolveParent(doc, resolving)

	// An explicit non-empty sections list makes the document fully
	// explicit: it replaces whatever inheritance would produce.
	switch {
	case len(doc.Sections) > 0:
		resolved.Sections = cloneSections(doc.Sections)
	case hasParent:
		resolved.Sections = applyOperations(parent.Sections, doc)
	default:
		// Root document, missing parent, or broken cycle: the child's
		// own declarations stand alone and any operations are dropped.
		resolved.Sections = cloneSections(doc.Sections)
	}

	if hasParent {
		resolved.inheritIdentity(parent)
	}

	return resolved
}

// resolveParent resolves the parent of doc. It reports ok=false for root
// documents, and for missing parents and cyclic extends chains, both of
// which are logged and degrade rather than fail.
func (r *Resolver) resolveParent(doc RawDocument, resolving map[string]bool) (ResolvedDocument, bool) {
	if doc.Extends == "" {
		return ResolvedDocument{}, false
	}

	if resolving[doc.Extends] {
		slog.Warn("mapping: cyclic extends chain",
			"document", doc.Name, "extends", doc.Extends)

		return ResolvedDocument{}, false
	}

	if _, ok := r.docs[doc.Extends]; !ok {
		slog.Warn("mapping: parent document not found",
			"document", doc.Name, "extends", doc.Extends)

		return ResolvedDocument{}, false
	}

	return r.resolve(doc.Extends, resolving), true
}

// inheritIdentity fills identity attributes from the parent where the
// child declared none.
func (d *ResolvedDocument) inheritIdentity(parent ResolvedDocument) {
	if d.TenantID == "" {
		d.TenantID = parent.TenantID
	}

	if d.ProgramID == "" {
		d.ProgramID = parent.ProgramID
	}

	if d.TenantName == "" {
		d.TenantName = parent.TenantName
	}

	if d.ProgramName == "" {
		d.ProgramName = parent.ProgramName
	}
}

// applyOperations starts from the parent's resolved sections and applies
// the child's operations in fixed order: removals, then overrides (in
// place, appended when no section of that name exists), then additions.
func applyOperations(parentSections []Section, doc RawDocument) []Section {
	sections := cloneSections(parentSections)

	if len(doc.RemoveSections) > 0 {
		removed := make(map[string]struct{}, len(doc.RemoveSections))
		for _, name := range doc.RemoveSections {
			removed[name] = struct{}{}
		}

		kept := sections[:0]

		for _, section := range sections {
			if _, drop := removed[section.Name]; !drop {
				kept = append(kept, section)
			}
		}

		sections = kept
	}

	for _, override := range cloneSections(doc.OverrideSections) {
		replaced := false

		for i := range sections {
			if sections[i].Name == override.Name {
				sections[i] = override
				replaced = true

				break
			}
		}

		if !replaced {
			sections = append(sections, override)
		}
	}

	sections = append(sections, cloneSections(doc.AddSections)...)

	return sections
}
