package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/phishguard/internal/metrics"
	"go.uber.org/zap"
)

// ErrEmptyAPIKey is returned when saving a blank API key
var ErrEmptyAPIKey = errors.New("please enter a valid API key")

// ScanService runs the scan pipeline: extract, analyze, normalize, remember.
// At most one scan runs at a time per service.
type ScanService struct {
	extractor ContentExtractor
	client    AnalysisClient
	store     PreferenceStore
	logger    *zap.Logger
	inFlight  atomic.Bool
	now       func() time.Time
}

// NewScanService creates a new scan service
func NewScanService(
	extractor ContentExtractor,
	client AnalysisClient,
	store PreferenceStore,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		extractor: extractor,
		client:    client,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// InProgress reports whether a scan is currently in flight
func (s *ScanService) InProgress() bool {
	return s.inFlight.Load()
}

// Scan extracts the email text from src, has it analyzed and returns the normalized result.
// The result replaces the stored last scan result.
func (s *ScanService) Scan(ctx context.Context, src Source) (*NormalizedResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.RecordScan(metrics.OutcomeBusy)
		return nil, ErrScanInProgress
	}
	defer s.inFlight.Store(false)

	result, err := s.scan(ctx, src)
	metrics.RecordScan(outcomeOf(err))
	return result, err
}

func (s *ScanService) scan(ctx context.Context, src Source) (*NormalizedResult, error) {
	if src.IsEmpty() {
		return nil, ErrEmptyInput
	}

	text, err := s.extractor.Extract(ctx, src)
	if err != nil {
		s.logger.Warn("Could not extract email content", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("Sending email for analysis", zap.Int("body_length", len(text)))
	startTime := time.Now()
	resp, err := s.client.Analyze(ctx, text)
	if err != nil {
		s.logger.Error("Analysis failed", zap.Error(err), zap.Duration("elapsed", time.Since(startTime)))
		return nil, err
	}

	result := Normalize(resp)
	result.ScanID = uuid.NewString()
	result.ScannedAt = s.now().UTC()

	s.logger.Info("Email analyzed",
		zap.String("scan_id", result.ScanID),
		zap.String("phishing_likelihood", result.ContentAnalysis.PhishingLikelihood),
		zap.Int("urls", len(result.URLAnalysis)),
		zap.Duration("elapsed", time.Since(startTime)))

	if err := s.saveLastResult(ctx, result); err != nil {
		s.logger.Error("Failed to store last scan result", zap.Error(err))
	}

	return result, nil
}

// LastResult returns the most recently stored scan result or ErrNotFound
func (s *ScanService) LastResult(ctx context.Context) (*NormalizedResult, error) {
	data, err := s.store.Load(ctx, KeyLastScanResult)
	if err != nil {
		return nil, err
	}

	var result NormalizedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode last scan result: %w", err)
	}
	return &result, nil
}

func (s *ScanService) saveLastResult(ctx context.Context, result *NormalizedResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scan result: %w", err)
	}
	return s.store.Save(ctx, KeyLastScanResult, data)
}

// SaveAPIKey stores the user's model API key
func (s *ScanService) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	if err := s.store.Save(ctx, KeyGeminiAPIKey, []byte(key)); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	s.logger.Info("API key saved")
	return nil
}

// ClearAPIKey removes the stored model API key. Clearing an absent key is not an error.
func (s *ScanService) ClearAPIKey(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyGeminiAPIKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear API key: %w", err)
	}
	s.logger.Info("API key cleared")
	return nil
}

// APIKey returns the stored model API key, or "" when none is configured
func (s *ScanService) APIKey(ctx context.Context) (string, error) {
	data, err := s.store.Load(ctx, KeyGeminiAPIKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Status checks backend reachability and whether an API key is configured.
// A failed health check only changes the reported status.
func (s *ScanService) Status(ctx context.Context) Status {
	if err := s.client.Health(ctx); err != nil {
		s.logger.Debug("Backend health check failed", zap.Error(err))
		return Status{Backend: StatusNotConnected, APIKey: StatusBackendRequired}
	}

	status := Status{Backend: StatusConnected, APIKey: StatusNotConfigured}
	key, err := s.APIKey(ctx)
	if err != nil {
		s.logger.Warn("Failed to load API key", zap.Error(err))
		return status
	}
	if key != "" {
		status.APIKey = StatusConfigured
	}
	return status
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrContentNotFound), errors.Is(err, ErrEmptyInput):
		return metrics.OutcomeNoContent
	case IsNetworkError(err):
		return metrics.OutcomeNetworkError
	case IsBackendError(err):
		return metrics.OutcomeBackendError
	default:
		return metrics.OutcomeError
	}
}
