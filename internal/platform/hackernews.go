package platform

import (
	"fmt"
	"regexp"

	"threadscout/internal/model"
)

var hnItemIDRe = regexp.MustCompile(`^\d+$`)

var hnExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`\[flagged\]`),
	regexp.MustCompile(`\[dead\]`),
	regexp.MustCompile(`(?i)no such item`),
}

// HackerNews is the plugin for news.ycombinator.com stories.
//
// HN is the odd one out: the identifier lives in the query string
// (item?id=N), so normalization keeps the id parameter and drops
// everything else.
type HackerNews struct{}

func NewHackerNews() *HackerNews { return &HackerNews{} }

func (p *HackerNews) Name() string      { return "hackernews" }
func (p *HackerNews) SiteQuery() string { return "site:news.ycombinator.com" }

func (p *HackerNews) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "news.ycombinator.com") {
		return "", false
	}
	if cleanPath(u.Path) != "/item" {
		return "", false
	}
	id := u.Query().Get("id")
	if !hnItemIDRe.MatchString(id) {
		return "", false
	}
	return id, true
}

func (p *HackerNews) NormalizeURL(rawURL string) (string, bool) {
	id, ok := p.ExtractID(rawURL)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%s", id), true
}

func (p *HackerNews) ValidateURL(rawURL string) bool {
	_, ok := p.ExtractID(rawURL)
	return ok
}

func (p *HackerNews) Weights() ScoreWeights {
	w := DefaultWeights()
	w.DiscussionBonus = 10
	w.StageTwoLimit = 50
	return w
}

func (p *HackerNews) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.5, 2)
}

func (p *HackerNews) ExclusionPatterns() []*regexp.Regexp { return hnExclusionRes }

// ConversationURL uses the Algolia items endpoint, which returns the full
// comment tree as JSON.
func (p *HackerNews) ConversationURL(item model.CanonicalItem) string {
	return fmt.Sprintf("https://hn.algolia.com/api/v1/items/%s", item.ID)
}
