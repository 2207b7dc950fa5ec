package platform

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that decorate shared links without
// changing the content they address.
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true, "utm_name": true,
	"ref": true, "ref_src": true, "ref_source": true, "referrer": true,
	"share_id": true, "shared": true, "context": true,
	"fbclid": true, "gclid": true, "igshid": true, "mc_cid": true,
	"source": true, "src": true, "s": true, "sh": true,
}

// parseHTTP parses a URL and accepts only http(s) schemes. A bare
// "host/path" form (common in LLM output) gets https assumed.
func parseHTTP(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// stripTracking removes tracking parameters from a query, returning the
// remaining encoded query string (possibly empty).
func stripTracking(q url.Values) string {
	for k := range q {
		if trackingParams[strings.ToLower(k)] {
			q.Del(k)
		}
	}
	return q.Encode()
}

// cleanPath lower-nothing: trims the trailing slash but preserves case,
// since several platforms use case-significant slugs.
func cleanPath(p string) string {
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// hostMatches reports whether host equals base or is a subdomain of it.
func hostMatches(host, base string) bool {
	host = strings.ToLower(host)
	return host == base || strings.HasSuffix(host, "."+base)
}

// pathDenied reports whether the path contains any deny-listed fragment.
// Fragments are matched against the lower-cased path.
func pathDenied(path string, denied []string) bool {
	p := strings.ToLower(path)
	for _, d := range denied {
		if strings.Contains(p, d) {
			return true
		}
	}
	return false
}
