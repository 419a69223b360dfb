package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBankResult() *core.NormalizedResult {
	return &core.NormalizedResult{
		ScanID:    "3f1c2a9e-0000-4000-8000-000000000001",
		ScannedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ContentAnalysis: core.ContentAnalysis{
			PhishingLikelihood: "High",
			SuspiciousElements: []string{"urgent tone", "credential request"},
			Explanation:        "Classic credential phishing.",
		},
		URLAnalysis: core.URLResults{
			{URL: "http://fakebank.example/verify", Analysis: core.URLAnalysis{
				SuspiciousLikelihood: "high",
				SuspiciousElements:   []string{"lookalike domain"},
				Explanation:          "Imitates a bank.",
			}},
			{URL: "www.example.com", Analysis: core.URLAnalysis{
				SuspiciousLikelihood: "Low",
			}},
		},
	}
}

func TestNewReportView_Defaults(t *testing.T) {
	view := NewReportView(&core.NormalizedResult{
		ContentAnalysis: core.ContentAnalysis{PhishingLikelihood: "Very High"},
	})

	assert.Equal(t, core.RiskUnknown, view.Risk.Level)
	assert.Equal(t, "Unknown Risk", view.Risk.Label)
	assert.Equal(t, "Very High", view.Risk.Likelihood)
	assert.Equal(t, NoExplanationText, view.Explanation)
	assert.Empty(t, view.URLs)
	assert.Equal(t, "URL Analysis (0)", view.URLTabTitle())
}

func TestNewReportView_LinkHref(t *testing.T) {
	view := NewReportView(fakeBankResult())
	require.Len(t, view.URLs, 2)
	assert.Equal(t, "http://fakebank.example/verify", view.URLs[0].Href)
	assert.Equal(t, "http://www.example.com", view.URLs[1].Href)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, fakeBankResult()))
	out := buf.String()

	assert.Contains(t, out, "Risk: High Risk (High)")
	assert.Contains(t, out, "  - urgent tone")
	assert.Contains(t, out, "Classic credential phishing.")
	assert.Contains(t, out, "=== URL Analysis (2) ===")
	assert.Contains(t, out, "[1] http://fakebank.example/verify")
	assert.Contains(t, out, "[2] www.example.com")
	assert.Contains(t, out, NoElementsText)
	assert.Contains(t, out, NoExplanationText)
	assert.Less(t, strings.Index(out, "fakebank"), strings.Index(out, "www.example.com"))
}

func TestTextRenderer_NoURLs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().Render(&buf, &core.NormalizedResult{}))

	assert.Contains(t, buf.String(), "Risk: Unknown Risk (Unknown)")
	assert.Contains(t, buf.String(), NoURLsText)
}

func TestTextRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextRenderer().RenderError(&buf, &core.BackendError{StatusCode: 500, Message: "boom"}))

	assert.Equal(t, "Error analyzing email: analysis backend returned status 500: boom\n", buf.String())
}

func TestHTMLRenderer(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, fakeBankResult()))
	out := buf.String()

	assert.Contains(t, out, `class="risk-banner risk-high"`)
	assert.Contains(t, out, "High Risk")
	assert.Contains(t, out, "Content Analysis")
	assert.Contains(t, out, "URL Analysis (2)")
	assert.Equal(t, 2, strings.Count(out, `<details class="url-card`))
	assert.Equal(t, 2, strings.Count(out, `rel="noopener noreferrer"`))
	assert.Contains(t, out, OpenLinkText)
	assert.Contains(t, out, `href="http://www.example.com"`)
	assert.Contains(t, out, NoElementsText)
	assert.NotContains(t, out, NoURLsText)
}

func TestHTMLRenderer_NoURLs(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, &core.NormalizedResult{
		ContentAnalysis: core.ContentAnalysis{PhishingLikelihood: "low", SuspiciousElements: []string{}},
	}))

	assert.Contains(t, buf.String(), "Low Risk")
	assert.Contains(t, buf.String(), "URL Analysis (0)")
	assert.Contains(t, buf.String(), NoURLsText)
	assert.Contains(t, buf.String(), NoElementsText)
}

func TestHTMLRenderer_EscapesModelOutput(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, &core.NormalizedResult{
		ContentAnalysis: core.ContentAnalysis{
			PhishingLikelihood: "High",
			Explanation:        `<script>alert(1)</script>`,
		},
	}))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestHTMLRenderer_Error(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, errors.New("backend down")))

	assert.Contains(t, buf.String(), "Error analyzing email: backend down")
	assert.NotContains(t, buf.String(), `class="result"`)
}

func TestHTMLRenderer_Document(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderDocument(&buf, fakeBankResult()))
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
	assert.Contains(t, buf.String(), `id="result"`)
}

func TestNew(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &TextRenderer{}, r)

	r, err = New("HTML")
	require.NoError(t, err)
	assert.IsType(t, &DocumentRenderer{}, r)

	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, errors.New("boom")))
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
	assert.Contains(t, buf.String(), "Error analyzing email: boom")

	_, err = New("pdf")
	assert.EqualError(t, err, "unsupported output format: pdf")
}
