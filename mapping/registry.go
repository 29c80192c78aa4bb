package mapping

import (
	"log/slog"
)

// DefaultKey is the index key of the document flagged as the base
// configuration.
const DefaultKey = "default"

// Query carries the identity hints of a lookup. All fields are optional;
// a zero Query resolves to the default document (or the built-in
// fallback).
type Query struct {
	TenantID    string
	ProgramID   string
	TenantName  string
	ProgramName string
}

// Registry indexes resolved documents under every lookup key they can
// serve and answers priority-ordered lookups. It is built once at startup
// and is immutable afterwards, so concurrent lookups need no
// synchronization.
type Registry struct {
	index map[string]ResolvedDocument
}

// NewRegistry builds a registry from resolved documents. Later documents
// win key collisions, which are logged since two documents claiming the
// same key is a configuration mistake.
func NewRegistry(docs []ResolvedDocument) *Registry {
	reg := &Registry{index: make(map[string]ResolvedDocument)}

	for _, doc := range docs {
		reg.register(doc)
	}

	return reg
}

// register indexes doc under every key it can legitimately serve.
func (g *Registry) register(doc ResolvedDocument) {
	switch {
	case doc.TenantID != "" && doc.ProgramID != "":
		g.put(doc.TenantID+":"+doc.ProgramID, doc)
	case doc.TenantID != "":
		g.put("tenant:"+doc.TenantID, doc)
	case doc.ProgramID != "":
		g.put("program:"+doc.ProgramID, doc)
	}

	if doc.ProgramName != "" {
		g.put("program:"+doc.ProgramName, doc)
	}

	if doc.TenantName != "" {
		g.put("tenant:"+doc.TenantName, doc)
	}

	if doc.Default {
		g.put(DefaultKey, doc)
	}
}

func (g *Registry) put(key string, doc ResolvedDocument) {
	if prev, exists := g.index[key]; exists {
		slog.Warn("mapping: lookup key collision",
			"key", key, "previous", prev.Name, "document", doc.Name)
	}

	g.index[key] = doc
}

// Lookup returns the best resolved document for the given identity hints.
// Priority: composite tenant+program id, tenant id, tenant name, program
// name (only when no tenant name was supplied), the default document, and
// finally a built-in minimal fallback. Lookup never fails; taking the
// fallback path logs a diagnostic because it signals a configuration-load
// failure upstream.
func (g *Registry) Lookup(q Query) ResolvedDocument {
	if q.TenantID != "" && q.ProgramID != "" {
		if doc, ok := g.index[q.TenantID+":"+q.ProgramID]; ok {
			return doc
		}
	}

	if q.TenantID != "" {
		if doc, ok := g.index["tenant:"+q.TenantID]; ok {
			return doc
		}
	}

	// Tenant name is consulted before program name: two tenants may share
	// a program name, so tenant identity has to disambiguate first. A
	// supplied-but-unregistered tenant name also suppresses program-name
	// matching, so a textual program hit never overrides an identified
	// tenant.
	if q.TenantName != "" {
		if doc, ok := g.index["tenant:"+q.TenantName]; ok {
			return doc
		}
	} else if q.ProgramName != "" {
		if doc, ok := g.index["program:"+q.ProgramName]; ok {
			return doc
		}
	}

	if doc, ok := g.index[DefaultKey]; ok {
		return doc
	}

	slog.Error("mapping: no default document registered, serving built-in fallback",
		"tenantId", q.TenantID, "programId", q.ProgramID,
		"tenantName", q.TenantName, "programName", q.ProgramName)

	return FallbackDocument()
}

// FallbackDocument returns the hardcoded minimal mapping served when no
// document was registered as the default. It covers only identifying and
// contact fields so a sheet can always be rendered, even under total
// configuration-load failure.
func FallbackDocument() ResolvedDocument {
	return ResolvedDocument{
		Name: "builtin-fallback",
		Sections: []Section{
			{
				Name: "Identity",
				Fields: []FieldSpec{
					{SourcePath: "id", Label: "Record ID"},
					{SourcePath: "firstName", Label: "First Name"},
					{SourcePath: "lastName", Label: "Last Name"},
					{SourcePath: "dateOfBirth", Label: "Date of Birth", Format: "date"},
				},
			},
			{
				Name: "Contact",
				Fields: []FieldSpec{
					{SourcePath: "email", Label: "Email"},
					{SourcePath: "phone", Label: "Phone", Format: "phone"},
					{SourcePath: "address.street", Label: "Street"},
					{SourcePath: "address.city", Label: "City"},
					{SourcePath: "address.state", Label: "State"},
					{SourcePath: "address.zip", Label: "ZIP"},
				},
			},
		},
	}
}
