package platform

import (
	"fmt"
	"regexp"

	"threadscout/internal/model"
)

var soQuestionRe = regexp.MustCompile(`^/(?:questions|q)/(\d+)(?:/|$)`)

var soDeniedPaths = []string{
	"/questions/tagged/", "/users/", "/search", "/jobs", "/tags",
	"/login", "/help/", "/collectives/", "/teams/",
}

var soExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`"closed_reason"\s*:\s*"[^"]+"`),
	regexp.MustCompile(`"closed_date"\s*:\s*\d+`),
	regexp.MustCompile(`(?i)closed\s+as\s+(?:duplicate|off-topic|not suitable)`),
	regexp.MustCompile(`(?i)this question (?:is|was) (?:closed|locked)`),
	regexp.MustCompile(`(?i)page not found`),
}

// StackOverflow is the plugin for stackoverflow.com questions.
// Canonical form: https://stackoverflow.com/questions/{id}.
type StackOverflow struct {
	// APIKey is an optional StackApps key that raises the API quota for
	// the conversation fetch.
	APIKey string
}

func NewStackOverflow(apiKey string) *StackOverflow {
	return &StackOverflow{APIKey: apiKey}
}

func (p *StackOverflow) Name() string      { return "stackoverflow" }
func (p *StackOverflow) SiteQuery() string { return "site:stackoverflow.com" }

func (p *StackOverflow) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "stackoverflow.com") {
		return "", false
	}
	m := soQuestionRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (p *StackOverflow) NormalizeURL(rawURL string) (string, bool) {
	id, ok := p.ExtractID(rawURL)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://stackoverflow.com/questions/%s", id), true
}

func (p *StackOverflow) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "stackoverflow.com") {
		return false
	}
	if pathDenied(u.Path, soDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *StackOverflow) Weights() ScoreWeights {
	w := DefaultWeights()
	w.UnansweredBonus = 15 // unanswered questions are engagement opportunities
	return w
}

// RelevanceThreshold: technical Q&A titles are dense, require 60% of terms.
func (p *StackOverflow) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.6, 2)
}

func (p *StackOverflow) ExclusionPatterns() []*regexp.Regexp { return soExclusionRes }

// ConversationURL uses the Stack Exchange API answers endpoint with body
// text included, so brand mentions inside answers are visible.
func (p *StackOverflow) ConversationURL(item model.CanonicalItem) string {
	u := fmt.Sprintf(
		"https://api.stackexchange.com/2.3/questions/%s/answers?order=desc&sort=votes&site=stackoverflow&filter=withbody",
		item.ID)
	if p.APIKey != "" {
		u += "&key=" + p.APIKey
	}
	return u
}
