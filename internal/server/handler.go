// internal/server/handler.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"leadscout/internal/common/config"
	apperrors "leadscout/internal/common/errors"
	"leadscout/internal/common/logger"
	"leadscout/internal/common/metrics"
	"leadscout/internal/common/observability"
	"leadscout/internal/common/validation"
	"leadscout/internal/models"
)

// maxRequestBody bounds the search request body size.
const maxRequestBody = 1 << 20

const requiredFieldsMessage = "businessType and city are required"

// LeadService runs the search pipeline for one validated request.
type LeadService interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
}

// Notifier publishes a completed search with results; implementations must
// never affect the HTTP response.
type Notifier interface {
	LeadsFound(ctx context.Context, resp *models.SearchResponse)
}

// Handler serves the lead search endpoint. It owns request validation and
// the error contract; the pipeline itself lives in the leads service.
type Handler struct {
	cfg      *config.Config
	service  LeadService
	notifier Notifier // nil when notifications are disabled
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandler(cfg *config.Config, service LeadService, log logger.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "handler"}),
	}
}

// WithNotifier attaches the optional lead digest notifier.
func (h *Handler) WithNotifier(n Notifier) *Handler {
	h.notifier = n
	return h
}

// WithObservability attaches the otel request meter.
func (h *Handler) WithObservability(obs *observability.Observability) *Handler {
	h.obs = obs
	return h
}

// HandleSearch implements the single route contract:
// OPTIONS -> 204, non-POST -> 405, then validation, then the pipeline.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	log := h.logger.WithFields(map[string]interface{}{
		"requestId":  requestID,
		"method":     r.Method,
		"remoteAddr": r.RemoteAddr,
	})
	log.Info("incoming request", nil)

	if r.Method == http.MethodOptions {
		writeNoContent(w)
		return
	}

	if r.Method != http.MethodPost {
		h.finish(r, http.StatusMethodNotAllowed, time.Time{})
		writeError(w, apperrors.NewMethodNotAllowedError(r.Method))
		return
	}

	start := time.Now()

	// The credential check runs before the body is even read: a deployment
	// without a key can never reach the provider.
	if h.cfg.Places.APIKey == "" {
		log.Error("places API key is not configured", nil)
		h.finish(r, http.StatusInternalServerError, start)
		writeError(w, apperrors.NewConfigurationError(
			"Set PLACES_API_KEY (or GOOGLE_MAPS_API_KEY) in the service environment"))
		return
	}

	req, stdErr := h.decodeRequest(r)
	if stdErr != nil {
		h.finish(r, stdErr.HTTPStatus(), start)
		writeError(w, stdErr)
		return
	}

	log.Info("search accepted", map[string]interface{}{
		"businessType":        req.BusinessType,
		"city":                req.City,
		"includeWebsiteEmail": req.IncludeWebsiteEmail,
	})

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		log.WithError(err).Error("search pipeline failed", map[string]interface{}{
			"code": string(stdErr.Code),
		})
		h.finish(r, stdErr.HTTPStatus(), start)
		writeError(w, stdErr)
		return
	}

	if h.notifier != nil && resp.Count > 0 {
		// Detached context: the digest must not delay or fail the response.
		go h.notifier.LeadsFound(context.Background(), resp)
	}

	log.Info("search completed", map[string]interface{}{
		"query": resp.Query,
		"count": resp.Count,
	})
	h.finish(r, http.StatusOK, start)
	writeJSON(w, http.StatusOK, resp)
}

// decodeRequest parses and validates the request body, returning a
// validation error ready for the response on any failure.
func (h *Handler) decodeRequest(r *http.Request) (*models.SearchRequest, *apperrors.StandardError) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid request body", "Could not read the request body")
	}

	result, err := validation.ValidateSearchRequest(body)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid JSON body",
			"Send a JSON object with businessType and city fields")
	}
	if !result.Valid {
		return nil, apperrors.NewValidationErrorWithExample(requiredFieldsMessage, models.ExampleSearchRequest())
	}

	var req models.SearchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewValidationError("Invalid JSON body",
			"Send a JSON object with businessType and city fields")
	}

	req.Normalize()
	if !req.Valid() {
		return nil, apperrors.NewValidationErrorWithExample(requiredFieldsMessage, models.ExampleSearchRequest())
	}

	return &req, nil
}

func (h *Handler) finish(r *http.Request, status int, start time.Time) {
	label := strconv.Itoa(status)
	metrics.SearchRequestsTotal.WithLabelValues(label).Inc()
	if h.obs != nil && !start.IsZero() {
		h.obs.RecordRequest(r.Context(), label)
		h.obs.RecordRequestDuration(r.Context(), time.Since(start), label)
	}
}
