package platform

import (
	"regexp"
	"strings"

	"threadscout/internal/model"
)

// quoraSlugRe matches a single-segment question slug like
// /What-is-the-best-way-to-learn-Go. Question slugs are capitalized
// hyphenated phrases; anything else on quora.com is navigation.
var quoraSlugRe = regexp.MustCompile(`^/([A-Z][A-Za-z0-9%]*(?:-[A-Za-z0-9%]+){2,})$`)

var quoraDeniedPaths = []string{
	"/profile/", "/topic/", "/search", "/q/", "/space/",
	"/about", "/careers", "/contact", "/press", "/login", "/signup",
	"/answer/", "/log/", "/unanswered/",
}

var quoraExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)question (?:is|has been) (?:deleted|removed|locked)`),
	regexp.MustCompile(`(?i)this question is marked as spam`),
	regexp.MustCompile(`(?i)page you were looking for`),
	regexp.MustCompile(`(?i)couldn('|&#39;)t find the page`),
}

// Quora is the plugin for quora.com questions. Quora exposes no public
// search API, so items arrive only through search engines, LLM-grounded
// search and scraping; content here is scarce.
type Quora struct{}

func NewQuora() *Quora { return &Quora{} }

func (p *Quora) Name() string      { return "quora" }
func (p *Quora) SiteQuery() string { return "site:quora.com" }

func (p *Quora) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "quora.com") {
		return "", false
	}
	m := quoraSlugRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

func (p *Quora) NormalizeURL(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "quora.com") {
		return "", false
	}
	m := quoraSlugRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return "https://www.quora.com/" + m[1], true
}

func (p *Quora) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "quora.com") {
		return false
	}
	if pathDenied(u.Path, quoraDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *Quora) Weights() ScoreWeights {
	w := DefaultWeights()
	w.UnansweredBonus = 15
	w.StageTwoLimit = 20
	return w
}

// RelevanceThreshold: Quora content is scarce; a single matched term keeps
// an item. Tightening this suppresses most real matches.
func (p *Quora) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.0, 1)
}

func (p *Quora) ExclusionPatterns() []*regexp.Regexp { return quoraExclusionRes }

func (p *Quora) ConversationURL(item model.CanonicalItem) string {
	return item.URL
}
