package core

import (
	"time"
)

// AnalysisRequest is the body sent to the analysis backend
type AnalysisRequest struct {
	EmailBody string `json:"email_body"`
}

// AnalysisResponse is the body returned by the analysis backend. Both fields may arrive
// either as structured objects or as JSON-encoded text.
type AnalysisResponse struct {
	ContentAnalysis Payload       `json:"content_analysis"`
	URLAnalysis     URLPayloadSet `json:"url_analysis"`
}

// ContentAnalysis is the verdict on the email body
type ContentAnalysis struct {
	PhishingLikelihood string   `json:"phishing_likelihood"`
	SuspiciousElements []string `json:"suspicious_elements"`
	Explanation        string   `json:"explanation"`
}

// URLAnalysis is the verdict on a single URL found in the email
type URLAnalysis struct {
	SuspiciousLikelihood string   `json:"suspicious_likelihood"`
	SuspiciousElements   []string `json:"suspicious_elements"`
	Explanation          string   `json:"explanation"`
}

// URLResult pairs a URL with its normalized analysis
type URLResult struct {
	URL      string
	Analysis URLAnalysis
}

// NormalizedResult is the always-structured form of an AnalysisResponse
type NormalizedResult struct {
	ScanID          string          `json:"scan_id,omitempty"`
	ScannedAt       time.Time       `json:"scanned_at,omitempty"`
	ContentAnalysis ContentAnalysis `json:"content_analysis"`
	URLAnalysis     URLResults      `json:"url_analysis"`
}

// Source describes where the email content of a scan comes from
type Source struct {
	// Text is pasted or piped plain text
	Text string
	// HTML is a snapshot of the message view document
	HTML string
	// MIME is a raw RFC 5322 message
	MIME []byte
}

// IsEmpty reports whether the source carries no content at all
func (s Source) IsEmpty() bool {
	return s.Text == "" && s.HTML == "" && len(s.MIME) == 0
}

// Status describes backend reachability and credential configuration
type Status struct {
	Backend string `json:"backend"`
	APIKey  string `json:"api_key"`
}

const (
	StatusConnected       = "Connected"
	StatusNotConnected    = "Not Connected"
	StatusConfigured      = "Configured"
	StatusNotConfigured   = "Not Configured"
	StatusBackendRequired = "Backend Required"
)

// Preference keys
const (
	KeyLastScanResult = "lastScanResult"
	KeyGeminiAPIKey   = "geminiApiKey"
)
