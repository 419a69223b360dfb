package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/mikey/phishguard/internal/api/middleware"
	"github.com/mikey/phishguard/internal/api/response"
	"github.com/mikey/phishguard/internal/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// MaxRequestBytes caps the size of an analysis request body
const MaxRequestBytes = 5 << 20

// ErrMissingEmailBody is the message of the 400 answer to a request without email_body
const ErrMissingEmailBody = "Email body is required"

// EmailAnalyzer defines what the backend router needs from the analysis service
type EmailAnalyzer interface {
	Analyze(ctx context.Context, emailBody string) *core.AnalysisResponse
}

// NewBackendRouter builds the router of the reference analysis backend
func NewBackendRouter(analyzer EmailAnalyzer, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/api/health", handleHealth)
	r.Post("/api/analyze", newAnalyzeHandler(analyzer))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, map[string]string{"status": "healthy"})
}

func newAnalyzeHandler(analyzer EmailAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EmailBody *string `json:"email_body"`
		}
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmailBody == nil {
			response.Error(w, http.StatusBadRequest, ErrMissingEmailBody)
			return
		}

		response.JSON(w, analyzer.Analyze(r.Context(), *req.EmailBody))
	}
}
