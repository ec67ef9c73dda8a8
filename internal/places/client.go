// internal/places/client.go
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "leadscout/internal/common/errors"
	commonhttp "leadscout/internal/common/http"
	"leadscout/internal/common/logger"
	"leadscout/internal/common/metrics"
	"leadscout/internal/models"
)

const (
	searchPath      = "/v1/places:searchText"
	detailPath      = "/v1/places/"
	searchFieldMask = "places.id,places.displayName,places.formattedAddress"
	detailFieldMask = "websiteUri"
)

// Config holds the provider settings for one client instance. The API key
// is injected here rather than read from the environment so tests can run
// against httptest servers without mutating process state.
type Config struct {
	APIKey     string
	BaseURL    string
	RegionCode string
	Language   string
	MaxResults int
	Timeout    time.Duration
}

// Client talks to the places text-search and place-detail endpoints.
type Client struct {
	config Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: commonhttp.NewClient(cfg.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "places"}),
	}
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	RegionCode     string `json:"regionCode"`
	LanguageCode   string `json:"languageCode"`
	MaxResultCount int    `json:"maxResultCount"`
}

type searchTextResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string `json:"formattedAddress"`
	} `json:"places"`
}

// SearchText runs one text search and returns place summaries in provider
// order. A non-success status becomes a SEARCH_FAILED error carrying the
// truncated provider message; it is fatal to the whole request.
func (c *Client) SearchText(ctx context.Context, query string) ([]models.PlaceSummary, error) {
	payload := searchTextRequest{
		TextQuery:      query,
		RegionCode:     c.config.RegionCode,
		LanguageCode:   c.config.Language,
		MaxResultCount: c.config.MaxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.PlacesAPIRequestsTotal.WithLabelValues("search_text", "error").Inc()
		return nil, apperrors.NewSearchFailedError(err.Error())
	}
	defer resp.Body.Close()

	metrics.PlacesAPIRequestsTotal.WithLabelValues("search_text", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractProviderMessage(resp.Body)
		c.logger.Error("places search failed", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": apperrors.Truncate(msg),
		})
		return nil, apperrors.NewSearchFailedError(msg)
	}

	var decoded searchTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.NewSearchFailedError("decode search response: " + err.Error())
	}

	summaries := make([]models.PlaceSummary, 0, len(decoded.Places))
	for _, p := range decoded.Places {
		summaries = append(summaries, models.PlaceSummary{
			ID:               p.ID,
			DisplayName:      p.DisplayName.Text,
			FormattedAddress: p.FormattedAddress,
		})
	}
	return summaries, nil
}

// FetchDetail looks up the website URI for one place id. Errors here are
// contained per place by the orchestrator, never fatal to the request.
func (c *Client) FetchDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+detailPath+url.PathEscape(placeID), nil)
	if err != nil {
		return nil, fmt.Errorf("build detail request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	req.Header.Set("X-Goog-FieldMask", detailFieldMask)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.PlacesAPIRequestsTotal.WithLabelValues("place_detail", "error").Inc()
		return nil, fmt.Errorf("place detail request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.PlacesAPIRequestsTotal.WithLabelValues("place_detail", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractProviderMessage(resp.Body)
		return nil, fmt.Errorf("place detail failed (status %d): %s", resp.StatusCode, apperrors.Truncate(msg))
	}

	var detail models.PlaceDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decode detail response: %w", err)
	}
	return &detail, nil
}

// extractProviderMessage pulls the structured error message from a provider
// error body, falling back to the raw body text.
func extractProviderMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}

	var structured struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && structured.Error.Message != "" {
		return structured.Error.Message
	}
	return string(raw)
}
