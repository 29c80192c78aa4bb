package projection

import (
	"github.com/0xalexb/facesheet/mapping"
)

// Mode selects how much of the mapping a projection emits.
type Mode string

const (
	// ModeFull emits every declared field, with the empty marker
	// substituted for missing values.
	ModeFull Mode = "full"

	// ModeReduced emits only essential, non-empty, non-denylisted fields.
	ModeReduced Mode = "reduced"
)

// ParseMode maps a request-supplied mode string to a Mode, defaulting to
// full for anything unrecognized.
func ParseMode(s string) Mode {
	if Mode(s) == ModeReduced {
		return ModeReduced
	}

	return ModeFull
}

// ProjectedField is one extracted, formatted field ready for rendering.
// Link is an outbound deep link computed by the caller from identity
// fields; the projector never fills it.
type ProjectedField struct {
	Label      string
	Value      string
	SourcePath string
	Link       string
}

// ProjectedSection is a named, ordered group of projected fields.
// Sections that reduce to zero fields after mode filtering are dropped
// from the projector's output, never emitted as empty headings.
type ProjectedSection struct {
	Name   string
	Fields []ProjectedField
}

// Projector turns a resolved mapping and a source record into ordered
// projected sections. It carries the reduced-mode filtering policy and is
// immutable and safe for concurrent use; Project itself is a pure
// transform with no side effects.
type Projector struct {
	denied    map[string]struct{}
	essential map[string]struct{}
}

// Policy configures reduced-mode filtering.
type Policy struct {
	// DeniedPaths lists source paths dropped unconditionally in reduced
	// mode: internal identifiers and ownership/system fields.
	DeniedPaths []string

	// EssentialLabels lists the field labels kept in reduced mode.
	EssentialLabels []string
}

// NewProjector creates a Projector with the given reduced-mode policy.
func NewProjector(policy Policy) *Projector {
	return &Projector{
		denied:    stringSet(policy.DeniedPaths),
		essential: stringSet(policy.EssentialLabels),
	}
}

// Project extracts and formats every field the mapping declares from the
// source record, in mapping order, applying reduced-mode filtering when
// requested.
func (p *Projector) Project(doc mapping.ResolvedDocument, rec map[string]any, mode Mode) []ProjectedSection {
	out := make([]ProjectedSection, 0, len(doc.Sections))

	for _, section := range doc.Sections {
		projected := ProjectedSection{
			Name:   section.Name,
			Fields: make([]ProjectedField, 0, len(section.Fields)),
		}

		for _, field := range section.Fields {
			raw, ok := Extract(rec, field.SourcePath)
			value := FormatValue(raw, ok, field.Format)

			if mode == ModeReduced && !p.keep(field, value) {
				continue
			}

			projected.Fields = append(projected.Fields, ProjectedField{
				Label:      field.Label,
				Value:      value,
				SourcePath: field.SourcePath,
			})
		}

		if len(projected.Fields) == 0 {
			continue
		}

		out = append(out, projected)
	}

	return out
}

// keep decides whether a field survives reduced-mode filtering: not
// denylisted, labeled essential, and carrying a real value.
func (p *Projector) keep(field mapping.FieldSpec, value string) bool {
	if _, denied := p.denied[field.SourcePath]; denied {
		return false
	}

	if _, ok := p.essential[field.Label]; !ok {
		return false
	}

	return value != EmptyMarker
}

func stringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))

	for _, item := range items {
		set[item] = struct{}{}
	}

	return set
}
