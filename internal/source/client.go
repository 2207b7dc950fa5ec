package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// userAgent identifies outbound requests; several providers reject the Go
// default agent outright.
const userAgent = "threadscout/0.3"

// maxBodyBytes caps how much of any response body is read.
const maxBodyBytes = 2 << 20 // 2 MiB

// newClient creates an HTTP client with the given timeout.
func newClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// newPacer builds a rate limiter enforcing the inter-request delay.
func newPacer() *rate.Limiter {
	return rate.NewLimiter(rate.Every(interRequestDelay), 1)
}

// getJSON performs a GET request and decodes the JSON response into v.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v any) error {
	body, err := getBody(ctx, client, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
// Rune-aware to avoid breaking UTF-8 characters.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// stripHTMLTags removes markup from an API-supplied HTML body so it can be
// used as a plain-text snippet.
func stripHTMLTags(s string) string {
	stripped := htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// getBody performs a GET request and returns the (bounded) response body.
func getBody(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
