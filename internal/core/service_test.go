package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, src Source) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return strings.TrimSpace(src.Text), nil
}

type fakeClient struct {
	mu        sync.Mutex
	resp      *AnalysisResponse
	err       error
	healthErr error
	bodies    []string
	block     chan struct{}
	started   chan struct{}
}

func (f *fakeClient) Analyze(_ context.Context, text string) (*AnalysisResponse, error) {
	f.mu.Lock()
	f.bodies = append(f.bodies, text)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func (f *fakeClient) Health(_ context.Context) error {
	return f.healthErr
}

type memStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string][]byte)}
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *memStore) Save(_ context.Context, key string, value []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func fakeBankResponse(t *testing.T) *AnalysisResponse {
	t.Helper()
	content, err := ObjectPayload(ContentAnalysis{
		PhishingLikelihood: "High",
		SuspiciousElements: []string{"urgency language", "mismatched domain"},
		Explanation:        "Urgent request to verify an account on a lookalike domain",
	})
	require.NoError(t, err)
	link, err := ObjectPayload(URLAnalysis{
		SuspiciousLikelihood: "High",
		SuspiciousElements:   []string{"lookalike domain"},
		Explanation:          "Not the bank's real domain",
	})
	require.NoError(t, err)
	return &AnalysisResponse{
		ContentAnalysis: content,
		URLAnalysis:     URLPayloadSet{{URL: "http://fake-bank.example/login", Payload: link}},
	}
}

// --- Scan ---

func TestScan_FakeBankEmail(t *testing.T) {
	client := &fakeClient{resp: fakeBankResponse(t)}
	store := newMemStore()
	svc := NewScanService(&fakeExtractor{}, client, store, zap.NewNop())

	email := "Urgent: verify your account at http://fake-bank.example/login"
	result, err := svc.Scan(context.Background(), Source{Text: email})
	require.NoError(t, err)

	assert.Equal(t, []string{email}, client.bodies)
	assert.Equal(t, RiskHigh, ClassifyRisk(result.ContentAnalysis.PhishingLikelihood))
	require.Len(t, result.URLAnalysis, 1)
	assert.Equal(t, "http://fake-bank.example/login", result.URLAnalysis[0].URL)
	assert.Equal(t, RiskHigh, ClassifyRisk(result.URLAnalysis[0].Analysis.SuspiciousLikelihood))
	assert.NotEmpty(t, result.ScanID)
	assert.False(t, result.ScannedAt.IsZero())

	last, err := svc.LastResult(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ScanID, last.ScanID)
	assert.Equal(t, result.ContentAnalysis, last.ContentAnalysis)
	assert.Equal(t, result.URLAnalysis, last.URLAnalysis)
}

func TestScan_ContentNotFound(t *testing.T) {
	client := &fakeClient{}
	svc := NewScanService(&fakeExtractor{err: ErrContentNotFound}, client, newMemStore(), zap.NewNop())

	result, err := svc.Scan(context.Background(), Source{HTML: "<html><body></body></html>"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.Empty(t, client.bodies, "backend must not be called without content")
	assert.False(t, svc.InProgress())
}

func TestScan_EmptySource(t *testing.T) {
	svc := NewScanService(&fakeExtractor{}, &fakeClient{}, newMemStore(), zap.NewNop())

	_, err := svc.Scan(context.Background(), Source{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestScan_BackendErrorReenablesTrigger(t *testing.T) {
	backendErr := &BackendError{StatusCode: 500, Message: "Internal Server Error"}
	svc := NewScanService(&fakeExtractor{}, &fakeClient{err: backendErr}, newMemStore(), zap.NewNop())

	_, err := svc.Scan(context.Background(), Source{Text: "hello"})
	require.Error(t, err)
	assert.True(t, IsBackendError(err))
	assert.False(t, svc.InProgress())

	// the next attempt goes through again
	_, err = svc.Scan(context.Background(), Source{Text: "hello"})
	assert.True(t, IsBackendError(err))
}

func TestScan_RejectsConcurrentScan(t *testing.T) {
	client := &fakeClient{
		resp:    fakeBankResponse(t),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	svc := NewScanService(&fakeExtractor{}, client, newMemStore(), zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Scan(context.Background(), Source{Text: "first"})
		done <- err
	}()

	<-client.started
	assert.True(t, svc.InProgress())

	_, err := svc.Scan(context.Background(), Source{Text: "second"})
	assert.ErrorIs(t, err, ErrScanInProgress)

	close(client.block)
	require.NoError(t, <-done)
	assert.False(t, svc.InProgress())
	assert.Equal(t, []string{"first"}, client.bodies)
}

func TestScan_StoreFailureDoesNotFailScan(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	svc := NewScanService(&fakeExtractor{}, &fakeClient{resp: fakeBankResponse(t)}, store, zap.NewNop())

	result, err := svc.Scan(context.Background(), Source{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "High", result.ContentAnalysis.PhishingLikelihood)
}

func TestScan_ReplacesLastResult(t *testing.T) {
	client := &fakeClient{resp: fakeBankResponse(t)}
	store := newMemStore()
	svc := NewScanService(&fakeExtractor{}, client, store, zap.NewNop())

	first, err := svc.Scan(context.Background(), Source{Text: "one"})
	require.NoError(t, err)

	client.resp = &AnalysisResponse{ContentAnalysis: TextPayload(`{"phishing_likelihood":"Low"}`)}
	second, err := svc.Scan(context.Background(), Source{Text: "two"})
	require.NoError(t, err)

	last, err := svc.LastResult(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ScanID, last.ScanID)
	assert.Equal(t, second.ScanID, last.ScanID)
	assert.Empty(t, last.URLAnalysis)
}

// --- preferences and status ---

func TestLastResult_NotFound(t *testing.T) {
	svc := NewScanService(&fakeExtractor{}, &fakeClient{}, newMemStore(), zap.NewNop())

	_, err := svc.LastResult(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAPIKey(t *testing.T) {
	store := newMemStore()
	svc := NewScanService(&fakeExtractor{}, &fakeClient{}, store, zap.NewNop())

	assert.ErrorIs(t, svc.SaveAPIKey(context.Background(), "   "), ErrEmptyAPIKey)

	require.NoError(t, svc.SaveAPIKey(context.Background(), "  secret-key \n"))
	key, err := svc.APIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)
}

func TestClearAPIKey(t *testing.T) {
	ctx := context.Background()
	svc := NewScanService(&fakeExtractor{}, &fakeClient{}, newMemStore(), zap.NewNop())

	require.NoError(t, svc.ClearAPIKey(ctx))

	require.NoError(t, svc.SaveAPIKey(ctx, "secret-key"))
	assert.Equal(t, Status{Backend: "Connected", APIKey: "Configured"}, svc.Status(ctx))

	require.NoError(t, svc.ClearAPIKey(ctx))
	key, err := svc.APIKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Equal(t, Status{Backend: "Connected", APIKey: "Not Configured"}, svc.Status(ctx))
}

func TestStatus(t *testing.T) {
	t.Run("backend down", func(t *testing.T) {
		client := &fakeClient{healthErr: &NetworkError{Op: "health", Err: errors.New("connection refused")}}
		svc := NewScanService(&fakeExtractor{}, client, newMemStore(), zap.NewNop())

		assert.Equal(t, Status{Backend: "Not Connected", APIKey: "Backend Required"}, svc.Status(context.Background()))
	})

	t.Run("backend up without key", func(t *testing.T) {
		svc := NewScanService(&fakeExtractor{}, &fakeClient{}, newMemStore(), zap.NewNop())

		assert.Equal(t, Status{Backend: "Connected", APIKey: "Not Configured"}, svc.Status(context.Background()))
	})

	t.Run("backend up with key", func(t *testing.T) {
		svc := NewScanService(&fakeExtractor{}, &fakeClient{}, newMemStore(), zap.NewNop())
		require.NoError(t, svc.SaveAPIKey(context.Background(), "k"))

		assert.Equal(t, Status{Backend: "Connected", APIKey: "Configured"}, svc.Status(context.Background()))
	})
}
