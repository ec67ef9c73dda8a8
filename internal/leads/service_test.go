package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "leadscout/internal/common/errors"
	"leadscout/internal/common/logger"
	"leadscout/internal/models"
)

type fakeSearcher struct {
	summaries []models.PlaceSummary
	err       error
	calls     int
}

func (f *fakeSearcher) SearchText(ctx context.Context, query string) ([]models.PlaceSummary, error) {
	f.calls++
	return f.summaries, f.err
}

type fakeDetailer struct {
	details map[string]*models.PlaceDetail
	failIDs map[string]bool
	calls   int
}

func (f *fakeDetailer) FetchDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error) {
	f.calls++
	if f.failIDs[placeID] {
		return nil, fmt.Errorf("detail request for %s returned status 404", placeID)
	}
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return &models.PlaceDetail{}, nil
}

type fakeExtractor struct {
	emails map[string]string
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, siteURL string) string {
	f.calls++
	return f.emails[siteURL]
}

type mapCache struct {
	entries map[string]*models.PlaceDetail
	hits    int
	puts    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]*models.PlaceDetail{}}
}

func (c *mapCache) Get(ctx context.Context, placeID string) (*models.PlaceDetail, bool) {
	d, ok := c.entries[placeID]
	if ok {
		c.hits++
	}
	return d, ok
}

func (c *mapCache) Put(ctx context.Context, placeID string, detail *models.PlaceDetail) {
	c.puts++
	c.entries[placeID] = detail
}

func threePlaces() []models.PlaceSummary {
	return []models.PlaceSummary{
		{ID: "p1", DisplayName: "Acme Kitchens", FormattedAddress: "1 Main St"},
		{ID: "p2", DisplayName: "Bench & Beyond", FormattedAddress: "2 High St"},
		{ID: "p3", DisplayName: "Cabinet Co", FormattedAddress: "3 Side Rd"},
	}
}

func newTestService(searcher Searcher, detailer Detailer, extractor EmailExtractor) *Service {
	return NewService(searcher, detailer, extractor, 0, logger.NewNop())
}

func TestBuildQuery(t *testing.T) {
	req := &models.SearchRequest{BusinessType: "kitchen designer", City: "Christchurch"}
	assert.Equal(t, "kitchen designer in Christchurch, New Zealand", BuildQuery(req))
}

func TestSearch_WithoutEnrichment(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()}
	detailer := &fakeDetailer{}
	extractor := &fakeExtractor{}
	svc := newTestService(searcher, detailer, extractor)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType: "kitchen designer",
		City:         "Christchurch",
	})

	require.NoError(t, err)
	assert.Equal(t, "kitchen designer in Christchurch, New Zealand", resp.Query)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Results, 3)

	// Provider order is preserved and no enrichment calls were made.
	assert.Equal(t, "Acme Kitchens", resp.Results[0].Name)
	assert.Equal(t, "Bench & Beyond", resp.Results[1].Name)
	assert.Equal(t, "Cabinet Co", resp.Results[2].Name)
	for _, lead := range resp.Results {
		assert.Empty(t, lead.Website)
		assert.Empty(t, lead.Email)
	}
	assert.Equal(t, 0, detailer.calls)
	assert.Equal(t, 0, extractor.calls)
}

func TestSearch_MapsURLFromPlaceID(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()[:1]}
	svc := newTestService(searcher, &fakeDetailer{}, &fakeExtractor{})

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType: "plumber",
		City:         "Auckland",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/place/?q=place_id:p1", resp.Results[0].GoogleMapsURL)
}

func TestSearch_WithEnrichment(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()}
	detailer := &fakeDetailer{details: map[string]*models.PlaceDetail{
		"p1": {WebsiteURI: "https://acmekitchens.co.nz"},
		"p3": {WebsiteURI: "https://cabinetco.co.nz"},
	}}
	extractor := &fakeExtractor{emails: map[string]string{
		"https://acmekitchens.co.nz": "hello@acmekitchens.co.nz",
	}}
	svc := newTestService(searcher, detailer, extractor)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType:        "kitchen designer",
		City:                "Christchurch",
		IncludeWebsiteEmail: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "https://acmekitchens.co.nz", resp.Results[0].Website)
	assert.Equal(t, "hello@acmekitchens.co.nz", resp.Results[0].Email)

	// p2 has no website: it keeps empty fields and no scrape is attempted.
	assert.Empty(t, resp.Results[1].Website)
	assert.Empty(t, resp.Results[1].Email)

	// p3 has a website but no discoverable email.
	assert.Equal(t, "https://cabinetco.co.nz", resp.Results[2].Website)
	assert.Empty(t, resp.Results[2].Email)

	assert.Equal(t, 3, detailer.calls)
	assert.Equal(t, 2, extractor.calls)
}

func TestSearch_SearchFailureIsFatal(t *testing.T) {
	searcher := &fakeSearcher{err: apperrors.NewSearchFailedError("quota exceeded")}
	svc := newTestService(searcher, &fakeDetailer{}, &fakeExtractor{})

	_, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType: "plumber",
		City:         "Auckland",
	})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSearchFailed, stdErr.Code)
}

func TestSearch_DetailFailureKeepsPlace(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()}
	detailer := &fakeDetailer{
		details: map[string]*models.PlaceDetail{
			"p1": {WebsiteURI: "https://acmekitchens.co.nz"},
			"p3": {WebsiteURI: "https://cabinetco.co.nz"},
		},
		failIDs: map[string]bool{"p2": true},
	}
	extractor := &fakeExtractor{emails: map[string]string{
		"https://acmekitchens.co.nz": "hello@acmekitchens.co.nz",
		"https://cabinetco.co.nz":    "info@cabinetco.co.nz",
	}}
	svc := newTestService(searcher, detailer, extractor)

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType:        "kitchen designer",
		City:                "Christchurch",
		IncludeWebsiteEmail: true,
	})

	// One bad place never fails the batch.
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)

	assert.Equal(t, "hello@acmekitchens.co.nz", resp.Results[0].Email)
	assert.Empty(t, resp.Results[1].Website)
	assert.Empty(t, resp.Results[1].Email)
	assert.Equal(t, "info@cabinetco.co.nz", resp.Results[2].Email)
}

func TestSearch_EmptyResultSet(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestService(searcher, &fakeDetailer{}, &fakeExtractor{})

	resp, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType:        "unicorn groomer",
		City:                "Gore",
		IncludeWebsiteEmail: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestSearch_RepeatedCallsAreIdentical(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()}
	detailer := &fakeDetailer{details: map[string]*models.PlaceDetail{
		"p1": {WebsiteURI: "https://acmekitchens.co.nz"},
	}}
	extractor := &fakeExtractor{emails: map[string]string{
		"https://acmekitchens.co.nz": "hello@acmekitchens.co.nz",
	}}
	svc := newTestService(searcher, detailer, extractor)

	req := &models.SearchRequest{
		BusinessType:        "kitchen designer",
		City:                "Christchurch",
		IncludeWebsiteEmail: true,
	}

	first, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestSearch_CacheSkipsDetailFetch(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()[:1]}
	detailer := &fakeDetailer{details: map[string]*models.PlaceDetail{
		"p1": {WebsiteURI: "https://acmekitchens.co.nz"},
	}}
	extractor := &fakeExtractor{emails: map[string]string{
		"https://acmekitchens.co.nz": "hello@acmekitchens.co.nz",
	}}
	cache := newMapCache()
	svc := newTestService(searcher, detailer, extractor).WithCache(cache)

	req := &models.SearchRequest{
		BusinessType:        "kitchen designer",
		City:                "Christchurch",
		IncludeWebsiteEmail: true,
	}

	first, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, detailer.calls)
	assert.Equal(t, 1, cache.puts)

	second, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, detailer.calls, "second search must hit the cache")
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Results[0], second.Results[0])
}

func TestSearch_DetailFailureNotCached(t *testing.T) {
	searcher := &fakeSearcher{summaries: threePlaces()[:1]}
	detailer := &fakeDetailer{failIDs: map[string]bool{"p1": true}}
	cache := newMapCache()
	svc := newTestService(searcher, detailer, &fakeExtractor{}).WithCache(cache)

	req := &models.SearchRequest{
		BusinessType:        "plumber",
		City:                "Auckland",
		IncludeWebsiteEmail: true,
	}

	_, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.puts)

	// Once the provider recovers the next search fetches again.
	detailer.failIDs = nil
	detailer.details = map[string]*models.PlaceDetail{"p1": {WebsiteURI: "https://example.co.nz"}}

	resp, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://example.co.nz", resp.Results[0].Website)
	assert.Equal(t, 1, cache.puts)
}

func TestSearch_PlainSearchErrorPropagates(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	svc := newTestService(searcher, &fakeDetailer{}, &fakeExtractor{})

	_, err := svc.Search(context.Background(), &models.SearchRequest{
		BusinessType: "plumber",
		City:         "Auckland",
	})

	require.Error(t, err)
	assert.EqualError(t, err, "connection refused")
}
