// Package backend is the HTTP client for the remote email analysis service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/metrics"
	"go.uber.org/zap"
)

const (
	analyzePath = "/api/analyze"
	healthPath  = "/api/health"

	// DefaultTimeout bounds every call when no timeout is configured
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 4096
)

// Client implements core.AnalysisClient over the backend's JSON HTTP API
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new analysis backend client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Analyze posts the email text to the backend. No retries are made.
func (c *Client) Analyze(ctx context.Context, text string) (*core.AnalysisResponse, error) {
	body, err := json.Marshal(core.AnalysisRequest{EmailBody: text})
	if err != nil {
		return nil, fmt.Errorf("encoding analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordBackendCall("analyze", "network_error", time.Since(start))
		return nil, classifyError("analyze", err)
	}
	defer resp.Body.Close()
	metrics.RecordBackendCall("analyze", strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		backendErr := newBackendError(resp)
		c.logger.Warn("Analysis backend rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("message", backendErr.Message))
		return nil, backendErr
	}

	var analysis core.AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, &core.BackendError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response body: %v", err),
		}
	}

	c.logger.Debug("Analysis received",
		zap.Int("url_count", len(analysis.URLAnalysis)),
		zap.Duration("elapsed", time.Since(start)))

	return &analysis, nil
}

// Health checks that the backend answers its health endpoint with any 2xx status
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordBackendCall("health", "network_error", time.Since(start))
		return classifyError("health", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	metrics.RecordBackendCall("health", strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &core.BackendError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return nil
}

// newBackendError reads the failure message from a JSON {"error": ...} body, the raw body,
// or the status text, in that order
func newBackendError(resp *http.Response) *core.BackendError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	} else if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "<") {
		message = text
	} else {
		message = http.StatusText(resp.StatusCode)
	}

	return &core.BackendError{StatusCode: resp.StatusCode, Message: message}
}

// classifyError maps transport level failures to core.NetworkError
func classifyError(op string, err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded)

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}

	return &core.NetworkError{Op: op, Timeout: timeout, Err: err}
}

var _ core.AnalysisClient = (*Client)(nil)
