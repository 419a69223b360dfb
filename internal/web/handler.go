// Package web is the companion UI: a status panel, an API key form and a paste-and-scan
// form rendering the report, plus the JSON endpoints used by the browser extension.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mw "github.com/mikey/phishguard/internal/api/middleware"
	"github.com/mikey/phishguard/internal/api/response"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	statusTimeout     = 5 * time.Second
	maxFormBytes      = 5 << 20
	apiKeySavedText   = "API key saved"
	apiKeyClearedText = "API key cleared"
)

// Scanner defines what the UI needs from the scan service
type Scanner interface {
	Scan(ctx context.Context, src core.Source) (*core.NormalizedResult, error)
	InProgress() bool
	LastResult(ctx context.Context) (*core.NormalizedResult, error)
	SaveAPIKey(ctx context.Context, key string) error
	ClearAPIKey(ctx context.Context) error
	Status(ctx context.Context) core.Status
}

// Handler serves the web UI
type Handler struct {
	scanner  Scanner
	renderer *render.HTMLRenderer
	page     *template.Template
	logger   *zap.Logger
}

type pageView struct {
	Styles template.HTML
	Status core.Status
	Busy   bool
	Notice string
	Email  string
	Result template.HTML
}

type scanRequest struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// NewHandler creates the UI handler
func NewHandler(scanner Scanner, renderer *render.HTMLRenderer, logger *zap.Logger) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Handler{
		scanner:  scanner,
		renderer: renderer,
		page:     page,
		logger:   logger,
	}, nil
}

// Router builds the UI routes
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger(h.logger))
	r.Use(mw.Recovery(h.logger))

	r.Get("/", h.handleIndex)
	r.Post("/scan", h.handleScanForm)
	r.Post("/settings/api-key", h.handleSaveAPIKey)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Post("/scan", h.handleScanJSON)
		r.Get("/last", h.handleLast)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := h.newPageView(r.Context())

	last, err := h.scanner.LastResult(r.Context())
	switch {
	case err == nil:
		view.Result, err = h.renderer.Fragment(last, nil)
		if err != nil {
			h.renderFailure(w, err)
			return
		}
	case !errors.Is(err, core.ErrNotFound):
		h.logger.Warn("Failed to load last scan result", zap.Error(err))
	}

	h.renderPage(w, http.StatusOK, view)
}

func (h *Handler) handleScanForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	result, scanErr := h.scanner.Scan(r.Context(), core.Source{Text: email})

	view := h.newPageView(r.Context())
	view.Email = email
	fragment, err := h.renderer.Fragment(result, scanErr)
	if err != nil {
		h.renderFailure(w, err)
		return
	}
	view.Result = fragment

	h.renderPage(w, statusFor(scanErr), view)
}

func (h *Handler) handleSaveAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	notice := apiKeySavedText
	var err error
	if r.PostForm.Get("action") == "clear" {
		notice = apiKeyClearedText
		err = h.scanner.ClearAPIKey(r.Context())
	} else {
		err = h.scanner.SaveAPIKey(r.Context(), r.PostForm.Get("api_key"))
	}

	view := h.newPageView(r.Context())
	switch {
	case err == nil:
		view.Notice = notice
		h.renderPage(w, http.StatusOK, view)
	case errors.Is(err, core.ErrEmptyAPIKey):
		view.Notice = err.Error()
		h.renderPage(w, http.StatusBadRequest, view)
	default:
		h.logger.Error("Failed to save API key", zap.Error(err))
		view.Notice = err.Error()
		h.renderPage(w, http.StatusInternalServerError, view)
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
	defer cancel()
	response.JSON(w, h.scanner.Status(ctx))
}

func (h *Handler) handleScanJSON(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.scanner.Scan(r.Context(), core.Source{Text: req.Text, HTML: req.HTML})
	if err != nil {
		response.Error(w, statusFor(err), render.ErrorMessage(err))
		return
	}
	response.JSON(w, result)
}

func (h *Handler) handleLast(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanner.LastResult(r.Context())
	if errors.Is(err, core.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "no scan result stored")
		return
	}
	if err != nil {
		h.logger.Error("Failed to load last scan result", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, result)
}

func (h *Handler) newPageView(ctx context.Context) pageView {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	styles, err := h.renderer.Styles()
	if err != nil {
		h.logger.Warn("Failed to render styles", zap.Error(err))
	}

	return pageView{
		Styles: styles,
		Status: h.scanner.Status(ctx),
		Busy:   h.scanner.InProgress(),
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.page.ExecuteTemplate(w, "page", view); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
	}
}

func (h *Handler) renderFailure(w http.ResponseWriter, err error) {
	h.logger.Error("Failed to render report", zap.Error(err))
	http.Error(w, "failed to render report", http.StatusInternalServerError)
}

// statusFor maps scan errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrScanInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrEmptyInput), errors.Is(err, core.ErrContentNotFound):
		return http.StatusUnprocessableEntity
	case core.IsNetworkError(err), core.IsBackendError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
