package platform

import (
	"fmt"
	"regexp"
	"strings"

	"threadscout/internal/model"
)

// redditThreadRe matches /r/{sub}/comments/{id}[/{slug}].
var redditThreadRe = regexp.MustCompile(`^/r/([A-Za-z0-9_]+)/comments/([a-z0-9]+)(?:/|$)`)

var redditDeniedPaths = []string{
	"/search", "/login", "/register", "/wiki/", "/submit",
	"/user/", "/u/", "/message/", "/settings", "/about/",
}

var redditExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`"locked"\s*:\s*true`),
	regexp.MustCompile(`"archived"\s*:\s*true`),
	regexp.MustCompile(`"removed_by_category"\s*:\s*"[^"]+"`),
	regexp.MustCompile(`\[removed\]`),
	regexp.MustCompile(`\[deleted\]`),
	regexp.MustCompile(`(?i)this (?:thread|post) (?:is|has been) (?:locked|archived)`),
}

// Reddit is the plugin for reddit.com discussion threads.
//
// Canonical form: https://www.reddit.com/r/{sub}/comments/{id}. The thread
// id alone is globally unique, but the subreddit is kept in the canonical
// URL so the link works without a redirect. Alternate hosts (old., np.,
// m., amp.) collapse to www.
type Reddit struct{}

func NewReddit() *Reddit { return &Reddit{} }

func (p *Reddit) Name() string      { return "reddit" }
func (p *Reddit) SiteQuery() string { return "site:reddit.com" }

func (p *Reddit) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "reddit.com") {
		return "", false
	}
	m := redditThreadRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return m[2], true
}

func (p *Reddit) NormalizeURL(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "reddit.com") {
		return "", false
	}
	m := redditThreadRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("https://www.reddit.com/r/%s/comments/%s", m[1], m[2]), true
}

func (p *Reddit) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "reddit.com") {
		return false
	}
	if pathDenied(u.Path, redditDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *Reddit) Weights() ScoreWeights {
	w := DefaultWeights()
	w.DiscussionBonus = 10 // every reddit thread is a discussion
	w.StageTwoLimit = 50
	return w
}

// RelevanceThreshold: reddit has abundant content, require half the terms.
func (p *Reddit) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.5, 2)
}

func (p *Reddit) ExclusionPatterns() []*regexp.Regexp { return redditExclusionRes }

// ConversationURL appends .json to the thread URL, which returns the post
// plus its comment tree without authentication.
func (p *Reddit) ConversationURL(item model.CanonicalItem) string {
	return strings.TrimSuffix(item.URL, "/") + ".json"
}
