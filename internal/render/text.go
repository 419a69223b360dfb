package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mikey/phishguard/internal/core"
)

// TextRenderer writes plain text reports for terminals
type TextRenderer struct{}

// NewTextRenderer creates a new TextRenderer
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render implements core.Renderer
func (r *TextRenderer) Render(w io.Writer, result *core.NormalizedResult) error {
	view := NewReportView(result)
	tw := &textWriter{w: w}

	tw.printf("=== Phishing Analysis ===\n")
	tw.printf("%s\n", riskLine(view.Risk))
	if view.ScanID != "" {
		tw.printf("Scan: %s %s\n", view.ScanID, formatScanned(view.ScannedAt))
	}

	tw.printf("\n=== %s ===\n", ContentTabTitle)
	writeElements(tw, "", view.Elements)
	tw.printf("Explanation:\n%s\n", indent(view.Explanation, "  "))

	tw.printf("\n=== %s ===\n", view.URLTabTitle())
	if len(view.URLs) == 0 {
		tw.printf("%s\n", NoURLsText)
	}
	for i, u := range view.URLs {
		tw.printf("\n[%d] %s\n", i+1, u.URL)
		tw.printf("    %s\n", riskLine(u.Risk))
		writeElements(tw, "    ", u.Elements)
		tw.printf("    Explanation:\n%s\n", indent(u.Explanation, "      "))
	}

	return tw.err
}

// RenderError implements core.Renderer
func (r *TextRenderer) RenderError(w io.Writer, err error) error {
	_, werr := fmt.Fprintln(w, ErrorMessage(err))
	return werr
}

func riskLine(risk RiskView) string {
	return fmt.Sprintf("Risk: %s (%s)", risk.Label, risk.Likelihood)
}

func writeElements(tw *textWriter, prefix string, elements []string) {
	if len(elements) == 0 {
		tw.printf("%s%s\n", prefix, NoElementsText)
		return
	}
	tw.printf("%sSuspicious elements:\n", prefix)
	for _, e := range elements {
		tw.printf("%s  - %s\n", prefix, e)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// textWriter keeps the first write error
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

var _ core.Renderer = (*TextRenderer)(nil)
