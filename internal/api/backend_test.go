package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/phishguard/internal/adapters/backend"
	"github.com/mikey/phishguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAnalyzer struct {
	got []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, body string) *core.AnalysisResponse {
	f.got = append(f.got, body)
	verdict, _ := core.ObjectPayload(core.URLAnalysis{
		SuspiciousLikelihood: "High",
		SuspiciousElements:   []string{"lookalike domain"},
		Explanation:          "fake bank",
	})
	return &core.AnalysisResponse{
		ContentAnalysis: core.TextPayload(`{"phishing_likelihood":"High","suspicious_elements":["urgency"],"explanation":"x"}`),
		URLAnalysis: core.URLPayloadSet{
			{URL: "http://fakebank.example/verify", Payload: verdict},
			{URL: "http://a.example", Payload: core.TextPayload("garbage")},
		},
	}
}

func newTestBackend(t *testing.T) (*httptest.Server, *fakeAnalyzer) {
	t.Helper()
	analyzer := &fakeAnalyzer{}
	srv := httptest.NewServer(NewBackendRouter(analyzer, []string{"*"}, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, analyzer
}

func TestBackend_Health(t *testing.T) {
	srv, _ := newTestBackend(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestBackend_AnalyzeRequiresBody(t *testing.T) {
	srv, analyzer := newTestBackend(t)

	for _, payload := range []string{``, `{}`, `not json`, `{"email_body": null}`} {
		resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(payload))
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, payload)
		assert.Equal(t, "Email body is required", body["error"])
	}
	assert.Empty(t, analyzer.got)
}

func TestBackend_AnalyzeEmptyStringAccepted(t *testing.T) {
	srv, analyzer := newTestBackend(t)

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(`{"email_body": ""}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{""}, analyzer.got)
}

// The client adapter and the reference router agree on the wire contract
func TestBackend_ClientRoundTrip(t *testing.T) {
	srv, analyzer := newTestBackend(t)
	client := backend.NewClient(srv.URL, 0, zap.NewNop())

	require.NoError(t, client.Health(context.Background()))

	resp, err := client.Analyze(context.Background(), "Dear customer, verify at http://fakebank.example/verify")
	require.NoError(t, err)
	assert.Len(t, analyzer.got, 1)

	result := core.Normalize(resp)
	assert.Equal(t, "High", result.ContentAnalysis.PhishingLikelihood)
	require.Len(t, result.URLAnalysis, 2)
	assert.Equal(t, "http://fakebank.example/verify", result.URLAnalysis[0].URL)
	assert.Equal(t, "High", result.URLAnalysis[0].Analysis.SuspiciousLikelihood)
	assert.Equal(t, core.FallbackURLAnalysis(), result.URLAnalysis[1].Analysis)
}

func TestBackend_CORS(t *testing.T) {
	srv, _ := newTestBackend(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/analyze", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestBackend_Metrics(t *testing.T) {
	srv, _ := newTestBackend(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
