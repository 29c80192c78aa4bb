package sheet

import (
	"html/template"

	"github.com/0xalexb/facesheet/projection"
)

type templateData struct {
	Title    string
	Sections []projection.ProjectedSection
}

// sheetTemplate is the print-oriented HTML layout consumed by the
// headless-browser renderer. Styling stays inline so the document is
// self-contained.
var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #1a1a1a; }
  h1 { font-size: 1.4em; border-bottom: 2px solid #1a1a1a; padding-bottom: 0.3em; }
  h2 { font-size: 1.1em; margin-top: 1.4em; }
  table { border-collapse: collapse; width: 100%; }
  td { padding: 0.25em 0.6em; border-bottom: 1px solid #ddd; vertical-align: top; }
  td.label { width: 32%; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<h2>{{.Name}}</h2>
<table>
{{range .Fields}}<tr><td class="label">{{.Label}}</td><td>{{if .Link}}<a href="{{.Link}}">{{.Value}}</a>{{else}}{{.Value}}{{end}}</td></tr>
{{end}}</table>
{{end}}</body>
</html>
`)) //nolint:gochecknoglobals // parsed once, read-only
