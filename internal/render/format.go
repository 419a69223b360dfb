package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mikey/phishguard/internal/core"
)

// Output formats
const (
	FormatText = "text"
	FormatHTML = "html"
)

// DocumentRenderer writes standalone HTML pages, for saving a report to a file
type DocumentRenderer struct {
	html *HTMLRenderer
}

// Render implements core.Renderer
func (r *DocumentRenderer) Render(w io.Writer, result *core.NormalizedResult) error {
	return r.html.RenderDocument(w, result)
}

// RenderError implements core.Renderer
func (r *DocumentRenderer) RenderError(w io.Writer, err error) error {
	return r.html.RenderErrorDocument(w, err)
}

// New returns the renderer for an output format
func New(format string) (core.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return NewTextRenderer(), nil
	case FormatHTML:
		html, err := NewHTMLRenderer()
		if err != nil {
			return nil, err
		}
		return &DocumentRenderer{html: html}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
