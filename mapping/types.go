// Package mapping implements the tenant field-mapping configuration model:
// raw documents as loaded from disk, inheritance resolution into flat
// section lists, and the multi-key registry that serves lookups at
// request time.
package mapping

import (
	"errors"
	"fmt"
)

// ErrEmptyDocumentName is returned when a document declares no name.
var ErrEmptyDocumentName = errors.New("document name must not be empty")

// ErrDuplicateSection is returned when a section name repeats within one
// section list.
var ErrDuplicateSection = errors.New("duplicate section name")

// ErrMissingSourcePath is returned when a field declares no source path.
var ErrMissingSourcePath = errors.New("field source path must not be empty")

// FieldSpec declares a single projected field: where to read it from the
// source record, how to label it, and how to format it.
type FieldSpec struct {
	// SourcePath identifies the value within the source record. It supports
	// dot-separated nesting and bracketed array indices, e.g.
	// "enrollment.terms[0].startDate".
	SourcePath string `yaml:"source"`

	// Label is the display name. It doubles as the field's identity for
	// reduced-mode allowlisting.
	Label string `yaml:"label"`

	// Format selects value formatting: "date", "currency", "phone", or
	// empty for the raw value's natural string form.
	Format string `yaml:"format,omitempty"`
}

// Section is a named, ordered group of fields. Order is significant: it
// determines sheet layout.
type Section struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields"`
}

// RawDocument is a mapping document as declared on disk, before
// inheritance resolution. Exactly one of Sections or the operation lists
// (AddSections/RemoveSections/OverrideSections) is expected on an
// inheriting document; when both appear, a non-empty Sections wins.
type RawDocument struct {
	Name    string `yaml:"name"`
	Extends string `yaml:"extends,omitempty"`

	// Identity attributes used as lookup keys. Inherited from the parent
	// unless the child declares its own.
	TenantID    string `yaml:"tenantId,omitempty"`
	ProgramID   string `yaml:"programId,omitempty"`
	TenantName  string `yaml:"tenantName,omitempty"`
	ProgramName string `yaml:"programName,omitempty"`

	// Default marks the base configuration served when no tenant or
	// program key matches.
	Default bool `yaml:"default,omitempty"`

	Sections         []Section `yaml:"sections,omitempty"`
	AddSections      []Section `yaml:"addSections,omitempty"`
	RemoveSections   []string  `yaml:"removeSections,omitempty"`
	OverrideSections []Section `yaml:"overrideSections,omitempty"`
}

// Validate checks the structural invariants a document must satisfy before
// it enters the resolver: a non-empty name, unique section names per list,
// and a source path on every field.
func (d *RawDocument) Validate() error {
	if d.Name == "" {
		return ErrEmptyDocumentName
	}

	for _, list := range [][]Section{d.Sections, d.AddSections, d.OverrideSections} {
		err := validateSections(d.Name, list)
		if err != nil {
			return err
		}
	}

	return nil
}

func validateSections(docName string, sections []Section) error {
	seen := make(map[string]struct{}, len(sections))

	for _, section := range sections {
		if _, dup := seen[section.Name]; dup {
			return fmt.Errorf("document %q: %w: %q", docName, ErrDuplicateSection, section.Name)
		}

		seen[section.Name] = struct{}{}

		for _, field := range section.Fields {
			if field.SourcePath == "" {
				return fmt.Errorf("document %q, section %q, label %q: %w",
					docName, section.Name, field.Label, ErrMissingSourcePath)
			}
		}
	}

	return nil
}

// ResolvedDocument is the canonical, inheritance-free form of a mapping
// document: the same identity attributes as RawDocument with a fully
// materialized section list. It is immutable after resolution.
type ResolvedDocument struct {
	Name        string
	TenantID    string
	ProgramID   string
	TenantName  string
	ProgramName string
	Default     bool
	Sections    []Section
}

// cloneSections returns a deep copy so resolved documents never alias the
// raw document or each other.
func cloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}

	out := make([]Section, len(sections))

	for i, section := range sections {
		fields := make([]FieldSpec, len(section.Fields))
		copy(fields, section.Fields)

		out[i] = Section{Name: section.Name, Fields: fields}
	}

	return out
}
