// internal/notify/digest.go
package notify

import (
	"fmt"
	"strings"

	"leadscout/internal/models"
)

// BuildDigest renders the subject and plain-text body of a lead digest
// email. Kept separate from delivery so formatting is testable offline.
func BuildDigest(resp *models.SearchResponse) (subject, body string) {
	subject = fmt.Sprintf("LeadScout: %d leads for %q", resp.Count, resp.Query)

	var b strings.Builder
	fmt.Fprintf(&b, "Search: %s\nLeads found: %d\n\n", resp.Query, resp.Count)

	for i, lead := range resp.Results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, lead.Name)
		if lead.Address != "" {
			fmt.Fprintf(&b, "   Address: %s\n", lead.Address)
		}
		if lead.Website != "" {
			fmt.Fprintf(&b, "   Website: %s\n", lead.Website)
		}
		if lead.Email != "" {
			fmt.Fprintf(&b, "   Email:   %s\n", lead.Email)
		}
		fmt.Fprintf(&b, "   Map:     %s\n", lead.GoogleMapsURL)
	}

	return subject, b.String()
}
