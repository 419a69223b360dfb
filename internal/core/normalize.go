package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

const (
	// UnknownLikelihood is the likelihood used by fallback records
	UnknownLikelihood = "Unknown"

	contentParseFailure = "Could not parse analysis response"
	urlParseFailure     = "Could not parse URL analysis"
)

// FallbackContentAnalysis is substituted for an unusable content_analysis field
func FallbackContentAnalysis() ContentAnalysis {
	return ContentAnalysis{
		PhishingLikelihood: UnknownLikelihood,
		SuspiciousElements: []string{},
		Explanation:        contentParseFailure,
	}
}

// FallbackURLAnalysis is substituted for an unusable url_analysis entry
func FallbackURLAnalysis() URLAnalysis {
	return URLAnalysis{
		SuspiciousLikelihood: UnknownLikelihood,
		SuspiciousElements:   []string{},
		Explanation:          urlParseFailure,
	}
}

// Normalize resolves every payload of a backend response into its structured form.
// It never fails: unusable payloads degrade to fallback records, one entry at a time.
func Normalize(raw *AnalysisResponse) *NormalizedResult {
	if raw == nil {
		return &NormalizedResult{
			ContentAnalysis: FallbackContentAnalysis(),
			URLAnalysis:     URLResults{},
		}
	}

	result := &NormalizedResult{
		ContentAnalysis: decodePayload(raw.ContentAnalysis, FallbackContentAnalysis()),
		URLAnalysis:     make(URLResults, 0, len(raw.URLAnalysis)),
	}

	for _, entry := range raw.URLAnalysis {
		result.URLAnalysis = append(result.URLAnalysis, URLResult{
			URL:      entry.URL,
			Analysis: decodePayload(entry.Payload, FallbackURLAnalysis()),
		})
	}

	return result
}

// decodePayload decodes a structured or JSON-text payload into T, or returns fallback when the
// payload is not a JSON object. A mistyped field only loses that field: the remaining fields
// decoded by encoding/json are kept.
func decodePayload[T any](p Payload, fallback T) T {
	var data []byte
	switch p.Kind {
	case PayloadObject:
		data = p.Raw
	case PayloadText:
		data = []byte(strings.TrimSpace(p.Text))
	default:
		return fallback
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fallback
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return out
		}
		return fallback
	}
	return out
}
