// Package sheet orchestrates one face-sheet request: fetch the source
// record, look up the tenant's resolved mapping, project the record onto
// it, decorate deep links, and render HTML (and optionally PDF).
package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/0xalexb/facesheet/mapping"
	"github.com/0xalexb/facesheet/projection"
	"github.com/0xalexb/facesheet/record"
	"github.com/0xalexb/facesheet/render"
)

// ErrPDFDisabled is returned when PDF output is requested but no renderer
// is configured.
var ErrPDFDisabled = errors.New("pdf rendering is disabled")

// Request identifies one sheet to build. The identity hints are optional;
// hints absent here are filled from the record's own attribution fields.
type Request struct {
	RecordID string
	Hints    mapping.Query
	Mode     projection.Mode
}

// Sheet is a built face sheet.
type Sheet struct {
	RecordID string
	Mapping  string // resolved mapping document name
	Sections []projection.ProjectedSection
	HTML     []byte
}

// Service builds face sheets. All collaborators are immutable after
// construction; Service is safe for concurrent use.
type Service struct {
	registry  *mapping.Registry
	projector *projection.Projector
	store     record.Store
	renderer  render.Renderer
	linkBase  string
}

// NewService creates a sheet Service. renderer may be nil, which disables
// PDF output; linkBase may be empty, which disables deep-link decoration.
func NewService(
	registry *mapping.Registry,
	projector *projection.Projector,
	store record.Store,
	renderer render.Renderer,
	linkBase string,
) *Service {
	return &Service{
		registry:  registry,
		projector: projector,
		store:     store,
		renderer:  renderer,
		linkBase:  linkBase,
	}
}

// Build fetches the record and produces the projected, rendered sheet.
func (s *Service) Build(ctx context.Context, req Request) (*Sheet, error) {
	rec, err := s.store.Fetch(ctx, req.RecordID)
	if err != nil {
		return nil, fmt.Errorf("building sheet: %w", err)
	}

	doc := s.registry.Lookup(mergeHints(req.Hints, rec))
	sections := s.projector.Project(doc, rec, req.Mode)
	s.decorateLinks(sections, req.RecordID)

	html, err := renderHTML(doc, sections)
	if err != nil {
		return nil, fmt.Errorf("rendering sheet html: %w", err)
	}

	return &Sheet{
		RecordID: req.RecordID,
		Mapping:  doc.Name,
		Sections: sections,
		HTML:     html,
	}, nil
}

// BuildPDF builds the sheet and renders it to PDF.
func (s *Service) BuildPDF(ctx context.Context, req Request) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrPDFDisabled
	}

	sheet, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderPDF(ctx, sheet.HTML)
	if err != nil {
		return nil, fmt.Errorf("rendering sheet pdf: %w", err)
	}

	return pdf, nil
}

// mergeHints fills identity hints the request left empty from the
// record's own attribution fields. Explicit request hints win.
func mergeHints(hints mapping.Query, rec record.Record) mapping.Query {
	if hints.TenantID == "" {
		hints.TenantID = rec.String("tenantId")
	}

	if hints.ProgramID == "" {
		hints.ProgramID = rec.String("programId")
	}

	if hints.TenantName == "" {
		hints.TenantName = rec.String("tenantName")
	}

	if hints.ProgramName == "" {
		hints.ProgramName = rec.String("programName")
	}

	return hints
}

// decorateLinks attaches an outbound deep link into the record store UI
// to identifier fields. Links are a caller concern layered on top of the
// pure projection.
func (s *Service) decorateLinks(sections []projection.ProjectedSection, recordID string) {
	if s.linkBase == "" || recordID == "" {
		return
	}

	link := s.linkBase + "/records/" + url.PathEscape(recordID)

	for i := range sections {
		for j := range sections[i].Fields {
			if sections[i].Fields[j].SourcePath == "id" {
				sections[i].Fields[j].Link = link
			}
		}
	}
}

// renderHTML renders sections through the sheet template.
func renderHTML(doc mapping.ResolvedDocument, sections []projection.ProjectedSection) ([]byte, error) {
	var buf bytes.Buffer

	err := sheetTemplate.Execute(&buf, templateData{
		Title:    sheetTitle(doc),
		Sections: sections,
	})
	if err != nil {
		return nil, fmt.Errorf("executing sheet template: %w", err)
	}

	return buf.Bytes(), nil
}

func sheetTitle(doc mapping.ResolvedDocument) string {
	switch {
	case doc.TenantName != "" && doc.ProgramName != "":
		return doc.TenantName + " · " + doc.ProgramName
	case doc.TenantName != "":
		return doc.TenantName
	case doc.ProgramName != "":
		return doc.ProgramName
	default:
		return "Face Sheet"
	}
}
