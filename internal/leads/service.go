// internal/leads/service.go
package leads

import (
	"context"
	"fmt"
	"time"

	apperrors "leadscout/internal/common/errors"
	"leadscout/internal/common/logger"
	"leadscout/internal/common/metrics"
	"leadscout/internal/models"
)

// Searcher runs one text search against the places provider.
type Searcher interface {
	SearchText(ctx context.Context, query string) ([]models.PlaceSummary, error)
}

// Detailer fetches the website URI for a single place id.
type Detailer interface {
	FetchDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error)
}

// EmailExtractor scrapes a contact email from one website, best-effort.
type EmailExtractor interface {
	Extract(ctx context.Context, siteURL string) string
}

// DetailCache is an optional read-through cache in front of the Detailer.
type DetailCache interface {
	Get(ctx context.Context, placeID string) (*models.PlaceDetail, bool)
	Put(ctx context.Context, placeID string, detail *models.PlaceDetail)
}

// Service orchestrates the search pipeline: one mandatory text search,
// then sequential per-place enrichment. Enrichment is serialized with a
// fixed delay between outbound calls as a simple throttle; one bad website
// must never abort the batch.
type Service struct {
	searcher  Searcher
	detailer  Detailer
	extractor EmailExtractor
	cache     DetailCache // nil when no cache is configured
	delay     time.Duration
	logger    logger.Logger
}

func NewService(searcher Searcher, detailer Detailer, extractor EmailExtractor, delay time.Duration, log logger.Logger) *Service {
	return &Service{
		searcher:  searcher,
		detailer:  detailer,
		extractor: extractor,
		delay:     delay,
		logger:    log.WithFields(map[string]interface{}{"component": "leads"}),
	}
}

// WithCache attaches an optional detail cache.
func (s *Service) WithCache(cache DetailCache) *Service {
	s.cache = cache
	return s
}

// BuildQuery assembles the provider query string from a validated request.
func BuildQuery(req *models.SearchRequest) string {
	return fmt.Sprintf("%s in %s, New Zealand", req.BusinessType, req.City)
}

// Search executes the full pipeline for one validated request. A search
// failure is fatal; enrichment failures degrade individual results.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	query := BuildQuery(req)

	s.logger.Info("running places search", map[string]interface{}{
		"query":    query,
		"enriched": req.IncludeWebsiteEmail,
	})

	start := time.Now()

	summaries, err := s.searcher.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]models.LeadResult, 0, len(summaries))
	for _, place := range summaries {
		lead := models.LeadResult{
			Name:          place.DisplayName,
			Address:       place.FormattedAddress,
			Website:       "",
			Email:         "",
			GoogleMapsURL: models.MapsURL(place.ID),
		}

		if req.IncludeWebsiteEmail {
			s.enrich(ctx, place.ID, &lead)
		}

		results = append(results, lead)
	}

	metrics.SearchDuration.WithLabelValues(boolLabel(req.IncludeWebsiteEmail)).Observe(time.Since(start).Seconds())

	return &models.SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	}, nil
}

// enrich resolves one place's website and contact email. Every failure is
// logged and swallowed here: the lead keeps empty website/email fields and
// stays in the results. This per-place boundary is the pipeline's only
// failure-containment mechanism.
func (s *Service) enrich(ctx context.Context, placeID string, lead *models.LeadResult) {
	s.sleep(ctx)

	detail, _ := s.cachedDetail(ctx, placeID)
	if detail == nil {
		var err error
		detail, err = s.detailer.FetchDetail(ctx, placeID)
		if err != nil {
			enrichErr := apperrors.NewEnrichmentFailedError("detail", err)
			s.logger.Warn("enrichment failed, keeping place with empty website/email", map[string]interface{}{
				"placeId": placeID,
				"name":    lead.Name,
				"error":   enrichErr.Details,
			})
			metrics.EnrichmentFailuresTotal.WithLabelValues("detail").Inc()
			return
		}
		if s.cache != nil {
			s.cache.Put(ctx, placeID, detail)
		}
	}

	if detail.WebsiteURI == "" {
		return
	}
	lead.Website = detail.WebsiteURI

	s.sleep(ctx)
	lead.Email = s.extractor.Extract(ctx, detail.WebsiteURI)
}

func (s *Service) cachedDetail(ctx context.Context, placeID string) (*models.PlaceDetail, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, placeID)
}

// sleep throttles outbound calls, returning early if the request context
// ends first.
func (s *Service) sleep(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
