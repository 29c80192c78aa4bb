// Package render defines the document rendering contract the sheet
// service calls out to. Implementations own the rendering pipeline; the
// core only hands over finished HTML.
package render

import "context"

// Renderer turns a self-contained HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}
