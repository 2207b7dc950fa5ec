package platform

import (
	"fmt"
	"regexp"

	"threadscout/internal/model"
)

var lobstersStoryRe = regexp.MustCompile(`^/s/([a-z0-9]+)(?:/|$)`)

var lobstersDeniedPaths = []string{
	"/search", "/login", "/signup", "/u/", "/t/", "/about",
	"/moderations", "/filters", "/settings",
}

var lobstersExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)story (?:was|has been) (?:removed|deleted)`),
	regexp.MustCompile(`(?i)comments (?:are )?(?:closed|disabled)`),
	regexp.MustCompile(`(?i)404 Not Found`),
}

// Lobsters is the plugin for lobste.rs stories.
type Lobsters struct{}

func NewLobsters() *Lobsters { return &Lobsters{} }

func (p *Lobsters) Name() string      { return "lobsters" }
func (p *Lobsters) SiteQuery() string { return "site:lobste.rs" }

func (p *Lobsters) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "lobste.rs") {
		return "", false
	}
	m := lobstersStoryRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (p *Lobsters) NormalizeURL(rawURL string) (string, bool) {
	id, ok := p.ExtractID(rawURL)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://lobste.rs/s/%s", id), true
}

func (p *Lobsters) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "lobste.rs") {
		return false
	}
	if pathDenied(u.Path, lobstersDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *Lobsters) Weights() ScoreWeights {
	w := DefaultWeights()
	w.DiscussionBonus = 10
	w.StageTwoLimit = 20
	return w
}

// Small community, scarcer content: half the terms but minimum one.
func (p *Lobsters) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.5, 1)
}

func (p *Lobsters) ExclusionPatterns() []*regexp.Regexp { return lobstersExclusionRes }

// ConversationURL: lobsters serves any story page as JSON with a .json
// suffix, comments included.
func (p *Lobsters) ConversationURL(item model.CanonicalItem) string {
	return item.URL + ".json"
}
