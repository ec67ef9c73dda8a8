// internal/models/lead.go
package models

import "strings"

// SearchRequest is the payload accepted by the lead search endpoint.
type SearchRequest struct {
	BusinessType        string `json:"businessType"`
	City                string `json:"city"`
	IncludeWebsiteEmail bool   `json:"includeWebsiteEmail"`
}

// Normalize trims surrounding whitespace from the user-supplied fields.
func (r *SearchRequest) Normalize() {
	r.BusinessType = strings.TrimSpace(r.BusinessType)
	r.City = strings.TrimSpace(r.City)
}

// Valid reports whether both required fields are present after trimming.
func (r *SearchRequest) Valid() bool {
	return strings.TrimSpace(r.BusinessType) != "" && strings.TrimSpace(r.City) != ""
}

// ExampleSearchRequest is echoed back in validation error responses so
// callers can see a well-formed payload.
func ExampleSearchRequest() map[string]interface{} {
	return map[string]interface{}{
		"businessType":        "kitchen designer",
		"city":                "Christchurch",
		"includeWebsiteEmail": true,
	}
}

// PlaceSummary is one row of a places text-search response. It is never
// persisted; it only carries data between the search call and enrichment.
type PlaceSummary struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
}

// PlaceDetail holds the subset of place-detail fields used for enrichment.
type PlaceDetail struct {
	WebsiteURI string `json:"websiteUri"`
}

// LeadResult is one normalized business lead. Every field is always a
// string; unknown values are empty strings, never null.
type LeadResult struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Website       string `json:"website"`
	Email         string `json:"email"`
	GoogleMapsURL string `json:"google_maps_url"`
}

// SearchResponse is the success payload of the lead search endpoint.
// Results preserve the order returned by the places provider.
type SearchResponse struct {
	Query   string       `json:"query"`
	Count   int          `json:"count"`
	Results []LeadResult `json:"results"`
}

// MapsURL builds the canonical Google Maps link for a place id.
func MapsURL(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}
