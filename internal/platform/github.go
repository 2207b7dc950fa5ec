package platform

import (
	"fmt"
	"regexp"
	"strings"

	"threadscout/internal/model"
)

// githubIssueRe matches /{owner}/{repo}/issues/{n} and /discussions/{n}.
var githubIssueRe = regexp.MustCompile(`^/([A-Za-z0-9][A-Za-z0-9._-]*)/([A-Za-z0-9][A-Za-z0-9._-]*)/(issues|discussions)/(\d+)(?:/|$)`)

var githubDeniedPaths = []string{
	"/search", "/login", "/signup", "/marketplace", "/sponsors/",
	"/settings", "/notifications", "/explore", "/topics/", "/trending",
}

var githubExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`"locked"\s*:\s*true`),
	regexp.MustCompile(`"active_lock_reason"\s*:\s*"[^"]+"`),
	regexp.MustCompile(`(?i)this (?:issue|discussion|conversation) (?:has been|was) locked`),
	regexp.MustCompile(`(?i)marked this as resolved`),
	regexp.MustCompile(`"message"\s*:\s*"Not Found"`),
}

// GitHub is the plugin for github.com issue and discussion threads.
// Canonical id is owner/repo/kind/number since issue numbers are only
// unique per repository.
type GitHub struct {
	// Token optionally authenticates conversation fetches, raising the
	// API rate limit from 60 to 5000 requests per hour.
	Token string
}

func NewGitHub(token string) *GitHub { return &GitHub{Token: token} }

func (p *GitHub) Name() string      { return "github" }
func (p *GitHub) SiteQuery() string { return "site:github.com" }

func (p *GitHub) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "github.com") {
		return "", false
	}
	m := githubIssueRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%s/%s", strings.ToLower(m[1]), strings.ToLower(m[2]), m[3], m[4]), true
}

func (p *GitHub) NormalizeURL(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "github.com") {
		return "", false
	}
	m := githubIssueRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("https://github.com/%s/%s/%s/%s", m[1], m[2], m[3], m[4]), true
}

func (p *GitHub) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "github.com") {
		return false
	}
	if pathDenied(u.Path, githubDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *GitHub) Weights() ScoreWeights {
	w := DefaultWeights()
	w.DiscussionBonus = 10 // discussions are better engagement targets than bug reports
	return w
}

func (p *GitHub) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.6, 2)
}

func (p *GitHub) ExclusionPatterns() []*regexp.Regexp { return githubExclusionRes }

// ConversationURL uses the REST comments endpoint. Works for issues; for
// discussions it falls back to the HTML page, which still carries lock
// banners and 404 text.
func (p *GitHub) ConversationURL(item model.CanonicalItem) string {
	parts := strings.Split(item.ID, "/")
	if len(parts) == 4 && parts[2] == "issues" {
		return fmt.Sprintf("https://api.github.com/repos/%s/%s/issues/%s/comments", parts[0], parts[1], parts[3])
	}
	return item.URL
}
