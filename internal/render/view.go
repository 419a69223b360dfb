// Package render turns normalized scan results into user-facing reports.
package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/mikey/phishguard/internal/core"
)

// Display defaults applied when the analysis left a field empty
const (
	NoElementsText    = "No suspicious elements detected"
	NoExplanationText = "No detailed explanation provided."
	NoURLsText        = "No URLs detected in this email"
	ErrorPrefix       = "Error analyzing email: "
	ContentTabTitle   = "Content Analysis"
	OpenLinkText      = "Open with caution"
)

// RiskView is a risk badge
type RiskView struct {
	Level      core.RiskLevel
	Label      string
	Likelihood string
}

// URLView is one URL card
type URLView struct {
	URL         string
	Href        string
	Risk        RiskView
	Elements    []string
	Explanation string
}

// ReportView is the display model shared by the renderers
type ReportView struct {
	ScanID      string
	ScannedAt   time.Time
	Risk        RiskView
	Elements    []string
	Explanation string
	URLs        []URLView
}

// URLTabTitle is the heading of the URL tab, e.g. "URL Analysis (3)"
func (v ReportView) URLTabTitle() string {
	return URLTabTitle(len(v.URLs))
}

// NewReportView applies display defaults to a normalized result
func NewReportView(result *core.NormalizedResult) ReportView {
	view := ReportView{
		ScanID:      result.ScanID,
		ScannedAt:   result.ScannedAt,
		Risk:        newRiskView(result.ContentAnalysis.PhishingLikelihood),
		Elements:    result.ContentAnalysis.SuspiciousElements,
		Explanation: explanationOrDefault(result.ContentAnalysis.Explanation),
		URLs:        make([]URLView, 0, len(result.URLAnalysis)),
	}

	for _, u := range result.URLAnalysis {
		view.URLs = append(view.URLs, URLView{
			URL:         u.URL,
			Href:        linkHref(u.URL),
			Risk:        newRiskView(u.Analysis.SuspiciousLikelihood),
			Elements:    u.Analysis.SuspiciousElements,
			Explanation: explanationOrDefault(u.Analysis.Explanation),
		})
	}

	return view
}

// URLTabTitle formats the URL tab heading for n URLs
func URLTabTitle(n int) string {
	return "URL Analysis (" + strconv.Itoa(n) + ")"
}

// ErrorMessage is the text shown in place of a result when a scan fails
func ErrorMessage(err error) string {
	return ErrorPrefix + err.Error()
}

func newRiskView(likelihood string) RiskView {
	level := core.ClassifyRisk(likelihood)
	return RiskView{
		Level:      level,
		Label:      level.Label(),
		Likelihood: core.DisplayLikelihood(likelihood),
	}
}

func explanationOrDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoExplanationText
	}
	return s
}

// linkHref gives scheme-less matches such as www.example.com an http scheme
func linkHref(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return url
	}
	return "http://" + url
}

func formatScanned(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05 MST")
}
