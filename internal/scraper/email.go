// internal/scraper/email.go
package scraper

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	commonhttp "leadscout/internal/common/http"
	"leadscout/internal/common/logger"
	"leadscout/internal/common/metrics"
)

// maxBodyBytes bounds how much of a page is read when hunting for an email.
// Contact addresses near the end of multi-megabyte pages are not worth the
// transfer.
const maxBodyBytes = 2 << 20

var (
	// A mailto: link is the strongest signal, so it wins over bare tokens
	// appearing earlier in the page.
	mailtoPattern = regexp.MustCompile(`(?i)mailto:\s*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	emailPattern  = regexp.MustCompile(`(?i)[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// EmailExtractor fetches a website once and scans the raw body for a
// contact email. Best-effort by design: many sites are unreachable or block
// scraping, so every failure degrades to an empty string instead of an
// error. No HTML parsing, no JS execution, no crawling beyond one page.
type EmailExtractor struct {
	client *commonhttp.Client
	logger logger.Logger
}

func NewEmailExtractor(timeout time.Duration, userAgent string, log logger.Logger) *EmailExtractor {
	return &EmailExtractor{
		client: commonhttp.NewClient(timeout, commonhttp.WithUserAgent(userAgent)),
		logger: log.WithFields(map[string]interface{}{"component": "scraper"}),
	}
}

// Extract returns the first email found on the page, or "" if the URL is
// not http(s), the fetch fails, or no email-shaped token appears.
func (e *EmailExtractor) Extract(ctx context.Context, siteURL string) string {
	if !isHTTPURL(siteURL) {
		return ""
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return ""
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("website fetch failed", map[string]interface{}{
			"url":   siteURL,
			"error": err.Error(),
		})
		metrics.ScrapeDuration.WithLabelValues("fetch_error").Observe(time.Since(start).Seconds())
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ScrapeDuration.WithLabelValues("bad_status").Observe(time.Since(start).Seconds())
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ScrapeDuration.WithLabelValues("read_error").Observe(time.Since(start).Seconds())
		return ""
	}

	email := FindEmail(string(body))
	outcome := "no_match"
	if email != "" {
		outcome = "match"
	}
	metrics.ScrapeDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return email
}

// FindEmail scans page content for an email address: a mailto: token first,
// then the first bare email-shaped token anywhere in the body.
func FindEmail(content string) string {
	if m := mailtoPattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return emailPattern.FindString(content)
}

func isHTTPURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
