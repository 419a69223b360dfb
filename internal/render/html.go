package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/mikey/phishguard/internal/core"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMLRenderer writes report fragments for the web UI
type HTMLRenderer struct {
	tmpl *template.Template
}

type errorView struct {
	Message string
}

// NewHTMLRenderer parses the embedded report templates
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"noElements":    func() string { return NoElementsText },
		"noURLs":        func() string { return NoURLsText },
		"contentTab":    func() string { return ContentTabTitle },
		"openLinkText":  func() string { return OpenLinkText },
		"formatScanned": formatScanned,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render implements core.Renderer
func (r *HTMLRenderer) Render(w io.Writer, result *core.NormalizedResult) error {
	return r.tmpl.ExecuteTemplate(w, "result", NewReportView(result))
}

// RenderError implements core.Renderer
func (r *HTMLRenderer) RenderError(w io.Writer, err error) error {
	return r.tmpl.ExecuteTemplate(w, "error", errorView{Message: ErrorMessage(err)})
}

// RenderDocument writes a standalone HTML page around the report
func (r *HTMLRenderer) RenderDocument(w io.Writer, result *core.NormalizedResult) error {
	return r.tmpl.ExecuteTemplate(w, "document", NewReportView(result))
}

// RenderErrorDocument writes a standalone HTML page around the error display
func (r *HTMLRenderer) RenderErrorDocument(w io.Writer, err error) error {
	return r.tmpl.ExecuteTemplate(w, "error-document", errorView{Message: ErrorMessage(err)})
}

var _ core.Renderer = (*HTMLRenderer)(nil)

// Styles returns the report stylesheet for pages that embed report fragments
func (r *HTMLRenderer) Styles() (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "styles", nil); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Fragment renders a result or an error into markup for embedding in a page
func (r *HTMLRenderer) Fragment(result *core.NormalizedResult, scanErr error) (template.HTML, error) {
	var buf bytes.Buffer
	var err error
	if scanErr != nil {
		err = r.RenderError(&buf, scanErr)
	} else {
		err = r.Render(&buf, result)
	}
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
